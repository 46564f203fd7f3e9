package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

const defaultActivityConsumerGroup = "model-marketplace-activity-cg"

// Activity is one decoded marketplace event as seen by downstream consumers.
type Activity struct {
	EventID   string
	EventType string
	TokenID   string
	Account   string
	Amount    int64
}

// ActivityConsumer subscribes to the minted, listed and purchased topics and
// reports each event once per process, even if the relay redelivers it.
type ActivityConsumer struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	OnActivity    func(context.Context, Activity) error
	Logger        *slog.Logger

	seen *activityDedup
}

type activityDedup struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

type activityPayload struct {
	TokenID string `json:"token_id"`
	Owner   string `json:"owner"`
	Seller  string `json:"seller"`
	Buyer   string `json:"buyer"`
	Price   int64  `json:"price"`
	Paid    int64  `json:"amount_paid"`
}

func (c *ActivityConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = defaultActivityConsumerGroup
	}
	c.seen = &activityDedup{ids: make(map[string]struct{})}

	for _, topic := range []string{
		ports.EventTypeTokenMinted,
		ports.EventTypeTokenListed,
		ports.EventTypeTokenPurchased,
	} {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c *ActivityConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if !c.seen.reserve(event.EventID) {
		logger.Debug("marketplace event already processed",
			"event", "model_marketplace_activity_replayed",
			"module", "asset-exchange/model-marketplace",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	var payload activityPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode marketplace event payload: %w", err)
	}
	activity := Activity{
		EventID:   event.EventID,
		EventType: event.EventType,
		TokenID:   payload.TokenID,
	}
	switch event.EventType {
	case ports.EventTypeTokenMinted:
		activity.Account = payload.Owner
	case ports.EventTypeTokenListed:
		activity.Account = payload.Seller
		activity.Amount = payload.Price
	case ports.EventTypeTokenPurchased:
		activity.Account = payload.Buyer
		activity.Amount = payload.Paid
	}

	logger.Info("marketplace activity",
		"event", "model_marketplace_activity",
		"module", "asset-exchange/model-marketplace",
		"layer", "worker",
		"event_id", activity.EventID,
		"event_type", activity.EventType,
		"token_id", activity.TokenID,
		"account", activity.Account,
		"amount", activity.Amount,
	)
	if c.OnActivity != nil {
		return c.OnActivity(ctx, activity)
	}
	return nil
}

func (d *activityDedup) reserve(eventID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.ids[eventID]; ok {
		return false
	}
	d.ids[eventID] = struct{}{}
	return true
}
