package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/adapters/envelope"
	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/services"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

// Store is an in-memory adapter implementing the registry, ledger and outbox
// ports for local runtime and tests. Every mutation runs under one write lock,
// so readers holding the read lock never observe a partially applied purchase.
type Store struct {
	mu          sync.RWMutex
	tokens      []entities.Token
	listings    []entities.Listing
	balances    map[string]entities.Amount
	sales       map[entities.TokenID][]entities.Receipt
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	sequence    uint64
	logger      *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		tokens:      make([]entities.Token, 0),
		listings:    make([]entities.Listing, 0),
		balances:    make(map[string]entities.Amount),
		sales:       make(map[entities.TokenID][]entities.Receipt),
		outbox:      make(map[string]ports.OutboxMessage),
		outboxOrder: make([]string, 0),
		outboxSent:  make(map[string]time.Time),
		logger:      application.ResolveLogger(logger),
	}
}

func (s *Store) MintToken(_ context.Context, input ports.MintTokenInput) (entities.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Slice index is the token id: ids stay dense and are never reused.
	tokenID := entities.TokenID(len(s.tokens))
	token, err := entities.NewToken(tokenID, input.Owner, input.ContentURI, input.MintedAt)
	if err != nil {
		return entities.Token{}, err
	}
	if _, exists := s.outbox[input.EventID]; exists {
		return entities.Token{}, domainerrors.ErrRepositoryInvariantBroke
	}
	message, err := envelope.Minted(input.EventID, token)
	if err != nil {
		return entities.Token{}, err
	}

	s.tokens = append(s.tokens, token)
	s.listings = append(s.listings, entities.NewListing(tokenID, input.MintedAt))
	s.appendOutboxLocked(message)

	s.logger.Debug("token minted in memory store",
		"event", "memory_mint_token",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"token_id", tokenID.String(),
		"owner", token.Owner,
	)
	return token, nil
}

func (s *Store) GetToken(_ context.Context, tokenID entities.TokenID) (entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked(tokenID)
}

func (s *Store) CountTokens(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.tokens)), nil
}

func (s *Store) ListTokens(_ context.Context, filter ports.TokenListFilter) ([]entities.Snapshot, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	start := ports.DecodeTokenCursor(filter.Cursor)
	if start >= entities.TokenID(len(s.tokens)) {
		return []entities.Snapshot{}, "", nil
	}

	items := make([]entities.Snapshot, 0, limit)
	nextCursor := ""
	for index := int(start); index < len(s.tokens); index++ {
		snapshot := entities.Snapshot{Token: s.tokens[index], Listing: s.listings[index]}
		if filter.Owner != "" && snapshot.Token.Owner != filter.Owner {
			continue
		}
		if filter.ForSale != nil && snapshot.Listing.ForSale != *filter.ForSale {
			continue
		}
		if len(items) == limit {
			nextCursor = ports.EncodeTokenCursor(snapshot.Token.TokenID)
			break
		}
		items = append(items, snapshot)
	}
	return items, nextCursor, nil
}

func (s *Store) ListToken(_ context.Context, input ports.ListTokenInput) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.snapshotLocked(input.TokenID)
	if err != nil {
		return entities.Listing{}, err
	}
	listing, err := services.ApplyListing(snapshot, input.Caller, input.Price, input.ListedAt)
	if err != nil {
		return entities.Listing{}, err
	}
	message, err := envelope.Listed(input.EventID, snapshot.Token.Owner, listing)
	if err != nil {
		return entities.Listing{}, err
	}

	s.listings[input.TokenID] = listing
	s.appendOutboxLocked(message)
	return listing, nil
}

func (s *Store) BuyToken(_ context.Context, input ports.BuyTokenInput) (entities.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.snapshotLocked(input.TokenID)
	if err != nil {
		return entities.Receipt{}, err
	}
	settlement, err := services.SettlePurchase(
		snapshot,
		input.Buyer,
		input.Payment,
		s.balances[snapshot.Token.Owner],
		input.ReceiptID,
		services.PurchasePolicy{AllowSelfPurchase: input.AllowSelfPurchase},
		input.PurchasedAt,
	)
	if err != nil {
		return entities.Receipt{}, err
	}
	message, err := envelope.Purchased(input.EventID, settlement.Receipt)
	if err != nil {
		return entities.Receipt{}, err
	}

	// Ownership moves first; nothing after it can fail, so the purchase
	// applies completely or not at all.
	if err := s.transferOwnerLocked(settlement.Token); err != nil {
		return entities.Receipt{}, err
	}
	s.balances[settlement.Receipt.Seller] = settlement.SellerBalance
	s.listings[input.TokenID] = settlement.Listing
	s.sales[input.TokenID] = append(s.sales[input.TokenID], settlement.Receipt)
	s.appendOutboxLocked(message)

	s.logger.Debug("purchase settled in memory store",
		"event", "memory_buy_token",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"token_id", input.TokenID.String(),
		"receipt_id", settlement.Receipt.ReceiptID,
	)
	return settlement.Receipt, nil
}

func (s *Store) GetBalance(_ context.Context, account string) (entities.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[account], nil
}

func (s *Store) ListSales(_ context.Context, tokenID entities.TokenID) ([]entities.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sales[tokenID]
	items := make([]entities.Receipt, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		items = append(items, history[i])
	}
	return items, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("mm-%d", value), nil
}

// OutboxEvents returns every outbox message in write order, sent or not.
func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}

func (s *Store) snapshotLocked(tokenID entities.TokenID) (entities.Snapshot, error) {
	if uint64(tokenID) >= uint64(len(s.tokens)) {
		return entities.Snapshot{}, domainerrors.ErrTokenNotFound
	}
	return entities.Snapshot{
		Token:   s.tokens[tokenID],
		Listing: s.listings[tokenID],
	}, nil
}

// transferOwnerLocked is the only writer of Token.Owner after mint. It is
// reached exclusively from BuyToken with a validated settlement.
func (s *Store) transferOwnerLocked(token entities.Token) error {
	if uint64(token.TokenID) >= uint64(len(s.tokens)) {
		return domainerrors.ErrTokenNotFound
	}
	s.tokens[token.TokenID] = token
	return nil
}

func (s *Store) appendOutboxLocked(message ports.OutboxMessage) {
	s.outbox[message.OutboxID] = message
	s.outboxOrder = append(s.outboxOrder, message.OutboxID)
}
