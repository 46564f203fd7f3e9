package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
	"aimarket/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := New(ctx, sqlDB, nil)
	require.NoError(t, err)
	return store
}

func mintTestToken(t *testing.T, store *Store, owner string, eventID string) entities.Token {
	t.Helper()
	token, err := store.MintToken(context.Background(), ports.MintTokenInput{
		Owner:      owner,
		ContentURI: "ipfs://" + eventID,
		EventID:    eventID,
		MintedAt:   time.Now(),
	})
	require.NoError(t, err)
	return token
}

func TestMintAssignsDenseIDs(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		token := mintTestToken(t, store, "alice", "evt-"+strconv.Itoa(i))
		assert.Equal(t, entities.TokenID(i), token.TokenID)
	}
	count, err := store.CountTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	_, err = store.GetToken(context.Background(), 3)
	require.ErrorIs(t, err, domainerrors.ErrTokenNotFound)
}

func TestMintDuplicateEventRollsBack(t *testing.T) {
	store := openTestStore(t)
	mintTestToken(t, store, "alice", "evt-1")

	_, err := store.MintToken(context.Background(), ports.MintTokenInput{
		Owner:      "bob",
		ContentURI: "ipfs://again",
		EventID:    "evt-1",
		MintedAt:   time.Now(),
	})
	require.Error(t, err)

	count, err := store.CountTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "token insert must roll back with the outbox insert")
}

func TestListBuyRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	minted := mintTestToken(t, store, "alice", "evt-mint")
	at := time.Date(2026, time.May, 4, 3, 2, 1, 0, time.UTC)

	listing, err := store.ListToken(ctx, ports.ListTokenInput{TokenID: minted.TokenID, Caller: "alice", Price: 100, EventID: "evt-list", ListedAt: at})
	require.NoError(t, err)
	assert.True(t, listing.ForSale)

	_, err = store.ListToken(ctx, ports.ListTokenInput{TokenID: minted.TokenID, Caller: "bob", Price: 1, EventID: "evt-steal", ListedAt: at})
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	receipt, err := store.BuyToken(ctx, ports.BuyTokenInput{
		TokenID:     minted.TokenID,
		Buyer:       "bob",
		Payment:     120,
		ReceiptID:   "r-1",
		EventID:     "evt-buy",
		PurchasedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", receipt.Seller)

	snapshot, err := store.GetToken(ctx, minted.TokenID)
	require.NoError(t, err)
	assert.Equal(t, "bob", snapshot.Token.Owner)
	assert.False(t, snapshot.Listing.ForSale)
	assert.Equal(t, entities.Amount(100), snapshot.Listing.Price)
	assert.True(t, snapshot.Token.UpdatedAt.Equal(at))

	balance, err := store.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.Amount(120), balance)

	sales, err := store.ListSales(ctx, minted.TokenID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "r-1", sales[0].ReceiptID)
	assert.True(t, sales[0].PurchasedAt.Equal(at))

	pending, err := store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, ports.EventTypeTokenPurchased, pending[2].EventType)

	require.NoError(t, store.MarkOutboxSent(ctx, pending[0].OutboxID, at))
	pending, err = store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestBuyFailureLeavesStateUntouched(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	minted := mintTestToken(t, store, "alice", "evt-mint")
	_, err := store.ListToken(ctx, ports.ListTokenInput{TokenID: minted.TokenID, Caller: "alice", Price: 100, EventID: "evt-list", ListedAt: time.Now()})
	require.NoError(t, err)

	_, err = store.BuyToken(ctx, ports.BuyTokenInput{
		TokenID:     minted.TokenID,
		Buyer:       "bob",
		Payment:     99,
		ReceiptID:   "r-1",
		EventID:     "evt-buy",
		PurchasedAt: time.Now(),
	})
	require.ErrorIs(t, err, domainerrors.ErrInsufficientPayment)

	snapshot, err := store.GetToken(ctx, minted.TokenID)
	require.NoError(t, err)
	assert.Equal(t, "alice", snapshot.Token.Owner)
	assert.True(t, snapshot.Listing.ForSale)
	balance, err := store.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestConcurrentBuyersSettleOnce(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	minted := mintTestToken(t, store, "alice", "evt-mint")
	_, err := store.ListToken(ctx, ports.ListTokenInput{TokenID: minted.TokenID, Caller: "alice", Price: 10, EventID: "evt-list", ListedAt: time.Now()})
	require.NoError(t, err)

	const buyers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		rejected int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.BuyToken(ctx, ports.BuyTokenInput{
				TokenID:     minted.TokenID,
				Buyer:       "buyer-" + strconv.Itoa(n),
				Payment:     10,
				ReceiptID:   "r-" + strconv.Itoa(n),
				EventID:     "evt-buy-" + strconv.Itoa(n),
				PurchasedAt: time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domainerrors.ErrNotForSale):
				rejected++
			default:
				t.Errorf("unexpected buy error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, buyers-1, rejected)
	balance, err := store.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.Amount(10), balance)
}

func TestListTokensKeysetPaging(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mintTestToken(t, store, "alice", "evt-"+strconv.Itoa(i))
	}

	page, next, err := store.ListTokens(ctx, ports.TokenListFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotEmpty(t, next)

	page, next, err = store.ListTokens(ctx, ports.TokenListFilter{Limit: 3, Cursor: next})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, entities.TokenID(3), page[0].Token.TokenID)
	assert.Empty(t, next)
}
