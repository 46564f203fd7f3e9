package ports

import (
	"context"
	"time"

	contractsv1 "aimarket/contracts/gen/events/v1"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
)

const (
	EventTypeTokenMinted    = "marketplace.token.minted"
	EventTypeTokenListed    = "marketplace.token.listed"
	EventTypeTokenPurchased = "marketplace.token.purchased"
)

// MintTokenInput carries a validated mint request. The store assigns the id.
type MintTokenInput struct {
	Owner      string
	ContentURI string
	EventID    string
	MintedAt   time.Time
}

// TokenListFilter defines read-side filtering/pagination for the token catalogue.
type TokenListFilter struct {
	Owner   string
	ForSale *bool
	Cursor  string
	Limit   int
}

// TokenRegistry owns the id sequence and the id -> owner/content mapping.
// Ownership changes only through MarketplaceLedger.BuyToken.
type TokenRegistry interface {
	// MintToken must allocate the next id, create the token, its default
	// listing and the minted outbox event in one atomic unit.
	MintToken(ctx context.Context, input MintTokenInput) (entities.Token, error)
	GetToken(ctx context.Context, tokenID entities.TokenID) (entities.Snapshot, error)
	CountTokens(ctx context.Context) (uint64, error)
	ListTokens(ctx context.Context, filter TokenListFilter) ([]entities.Snapshot, string, error)
}

type ListTokenInput struct {
	TokenID  entities.TokenID
	Caller   string
	Price    entities.Amount
	EventID  string
	ListedAt time.Time
}

type BuyTokenInput struct {
	TokenID           entities.TokenID
	Buyer             string
	Payment           entities.Amount
	ReceiptID         string
	EventID           string
	PurchasedAt       time.Time
	AllowSelfPurchase bool
}

// MarketplaceLedger owns sale state, proceeds balances and sales history.
type MarketplaceLedger interface {
	// ListToken checks ownership and writes the listing inside one critical section.
	ListToken(ctx context.Context, input ListTokenInput) (entities.Listing, error)
	// BuyToken must apply payment credit, ownership transfer, listing close,
	// receipt and outbox event atomically. Concurrent buys of one token must
	// serialize so that at most one succeeds.
	BuyToken(ctx context.Context, input BuyTokenInput) (entities.Receipt, error)
	GetBalance(ctx context.Context, account string) (entities.Amount, error)
	ListSales(ctx context.Context, tokenID entities.TokenID) ([]entities.Receipt, error)
}

// ModelAsset is an uploaded model file with its descriptive metadata.
type ModelAsset struct {
	FileName    string
	ContentType string
	Content     []byte
	Description string
}

// ContentResolver maps an asset to a stable content URI (for example ipfs://<cid>).
type ContentResolver interface {
	Resolve(ctx context.Context, asset ModelAsset) (string, error)
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts receipt/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope reuses the canonical envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
