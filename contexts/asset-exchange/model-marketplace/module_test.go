package modelmarketplace_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	modelmarketplace "aimarket/contexts/asset-exchange/model-marketplace"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/contenthash"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/memory"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
	httptransport "aimarket/contexts/asset-exchange/model-marketplace/transport/http"
)

func newModule(t *testing.T) modelmarketplace.Module {
	t.Helper()
	return modelmarketplace.NewInMemoryModule(contenthash.Resolver{}, nil)
}

func mint(t *testing.T, module modelmarketplace.Module, owner string, uri string) string {
	t.Helper()
	resp, err := module.Handler.MintTokenHandler(context.Background(), owner, httptransport.MintTokenRequest{ContentURI: uri})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	return resp.Item.TokenID
}

func TestMintListBuyRelistScenario(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	tokenID := mint(t, module, "alice", "ipfs://x")
	if tokenID != "0" {
		t.Fatalf("expected first token id 0, got %s", tokenID)
	}

	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 100}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	listed, err := module.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if !listed.Item.ForSale || listed.Item.Price != 100 {
		t.Fatalf("expected listed at 100, got for_sale=%t price=%d", listed.Item.ForSale, listed.Item.Price)
	}

	bought, err := module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 100})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if bought.Receipt.Seller != "alice" || bought.Receipt.Buyer != "bob" {
		t.Fatalf("unexpected receipt parties: %+v", bought.Receipt)
	}

	after, err := module.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token after buy failed: %v", err)
	}
	if after.Item.Owner != "bob" {
		t.Fatalf("expected owner bob, got %s", after.Item.Owner)
	}
	if after.Item.ForSale {
		t.Fatalf("expected listing closed after purchase")
	}
	if after.Item.ContentURI != "ipfs://x" {
		t.Fatalf("content uri must not change, got %s", after.Item.ContentURI)
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "alice")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.Balance != 100 {
		t.Fatalf("expected seller credited 100, got %d", balance.Balance)
	}

	_, err = module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 50})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected previous owner to be unauthorized, got %v", err)
	}

	if _, err := module.Handler.ListTokenHandler(ctx, "bob", tokenID, httptransport.ListTokenRequest{Price: 150}); err != nil {
		t.Fatalf("new owner relist failed: %v", err)
	}
}

func TestMintAssignsSequentialIDs(t *testing.T) {
	module := newModule(t)

	for want := 0; want < 5; want++ {
		got := mint(t, module, "alice", "ipfs://model-"+strconv.Itoa(want))
		if got != strconv.Itoa(want) {
			t.Fatalf("expected id %d, got %s", want, got)
		}
	}

	collection, err := module.Handler.GetCollectionHandler(context.Background())
	if err != nil {
		t.Fatalf("collection failed: %v", err)
	}
	if collection.TotalSupply != 5 {
		t.Fatalf("expected total supply 5, got %d", collection.TotalSupply)
	}
	if collection.Name != modelmarketplace.DefaultCollectionName || collection.Symbol != modelmarketplace.DefaultCollectionSymbol {
		t.Fatalf("unexpected collection identity %s/%s", collection.Name, collection.Symbol)
	}
}

func TestMintRejectsEmptyInput(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	_, err := module.Handler.MintTokenHandler(ctx, "", httptransport.MintTokenRequest{ContentURI: "ipfs://x"})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty owner, got %v", err)
	}
	_, err = module.Handler.MintTokenHandler(ctx, "alice", httptransport.MintTokenRequest{ContentURI: "  "})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty uri, got %v", err)
	}

	if got := len(module.Store.OutboxEvents()); got != 0 {
		t.Fatalf("rejected mints must not emit events, got %d", got)
	}
}

func TestBuyRejections(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")

	_, err := module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 100})
	if !errors.Is(err, domainerrors.ErrNotForSale) {
		t.Fatalf("expected not for sale on fresh token, got %v", err)
	}

	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 100}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	_, err = module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 99})
	if !errors.Is(err, domainerrors.ErrInsufficientPayment) {
		t.Fatalf("expected insufficient payment, got %v", err)
	}
	_, err = module.Handler.BuyTokenHandler(ctx, "bob", "999", httptransport.BuyTokenRequest{Payment: 100})
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected token not found, got %v", err)
	}
	_, err = module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: -1})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative payment, got %v", err)
	}

	state, err := module.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if state.Item.Owner != "alice" || !state.Item.ForSale {
		t.Fatalf("failed purchases must leave state untouched, got %+v", state.Item)
	}
}

func TestListRejections(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")

	_, err := module.Handler.ListTokenHandler(ctx, "mallory", tokenID, httptransport.ListTokenRequest{Price: 10})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, err = module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 0})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero price, got %v", err)
	}
	_, err = module.Handler.ListTokenHandler(ctx, "alice", "7", httptransport.ListTokenRequest{Price: 10})
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected token not found, got %v", err)
	}
	_, err = module.Handler.ListTokenHandler(ctx, "alice", "abc", httptransport.ListTokenRequest{Price: 10})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for malformed id, got %v", err)
	}

	state, err := module.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if state.Item.Owner != "alice" || state.Item.ForSale || state.Item.Price != 0 {
		t.Fatalf("rejected lists must leave the token unlisted, got %+v", state.Item)
	}

	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 50}); err != nil {
		t.Fatalf("owner list failed: %v", err)
	}
	_, err = module.Handler.ListTokenHandler(ctx, "mallory", tokenID, httptransport.ListTokenRequest{Price: 1})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized on listed token, got %v", err)
	}
	state, err = module.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if !state.Item.ForSale || state.Item.Price != 50 {
		t.Fatalf("non-owner list must keep the owner's price, got %+v", state.Item)
	}
}

func TestRelistOverwritesPrice(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")

	for _, price := range []int64{100, 40} {
		if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: price}); err != nil {
			t.Fatalf("list at %d failed: %v", price, err)
		}
	}
	if _, err := module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 40}); err != nil {
		t.Fatalf("buy at repriced amount failed: %v", err)
	}
}

func TestOverpaymentIsCreditedInFull(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")

	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 100}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	resp, err := module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 250})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if resp.Receipt.Price != 100 || resp.Receipt.AmountPaid != 250 {
		t.Fatalf("unexpected receipt amounts: %+v", resp.Receipt)
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "alice")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.Balance != 250 {
		t.Fatalf("expected full payment credited, got %d", balance.Balance)
	}
}

func TestSelfPurchasePolicy(t *testing.T) {
	ctx := context.Background()

	allowed := newModule(t)
	tokenID := mint(t, allowed, "alice", "ipfs://x")
	if _, err := allowed.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 10}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := allowed.Handler.BuyTokenHandler(ctx, "alice", tokenID, httptransport.BuyTokenRequest{Payment: 10}); err != nil {
		t.Fatalf("self purchase should be allowed by default: %v", err)
	}
	state, err := allowed.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if state.Item.Owner != "alice" || state.Item.ForSale {
		t.Fatalf("self purchase should keep owner and close listing, got %+v", state.Item)
	}

	store := memory.NewStore(nil)
	denied := modelmarketplace.NewModule(modelmarketplace.Dependencies{
		Tokens:            store,
		Ledger:            store,
		Clock:             store,
		IDGenerator:       store,
		AllowSelfPurchase: false,
	})
	tokenID = mint(t, denied, "alice", "ipfs://y")
	if _, err := denied.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 10}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	_, err = denied.Handler.BuyTokenHandler(ctx, "alice", tokenID, httptransport.BuyTokenRequest{Payment: 10})
	if !errors.Is(err, domainerrors.ErrSelfPurchase) {
		t.Fatalf("expected self purchase rejection, got %v", err)
	}
	_, err = denied.Handler.BuyTokenHandler(ctx, "alice", tokenID, httptransport.BuyTokenRequest{Payment: 5})
	if !errors.Is(err, domainerrors.ErrInsufficientPayment) {
		t.Fatalf("payment check must run before self purchase check, got %v", err)
	}
}

func TestConcurrentBuyersExactlyOneWins(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")
	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 100}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	const buyers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		notForSale int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			_, err := module.Handler.BuyTokenHandler(ctx, buyer, tokenID, httptransport.BuyTokenRequest{Payment: 100})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domainerrors.ErrNotForSale):
				notForSale++
			default:
				t.Errorf("unexpected buy error: %v", err)
			}
		}("buyer-" + strconv.Itoa(i))
	}
	wg.Wait()

	if successes != 1 || notForSale != buyers-1 {
		t.Fatalf("expected one winner, got successes=%d not_for_sale=%d", successes, notForSale)
	}
	balance, err := module.Handler.GetBalanceHandler(ctx, "alice")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.Balance != 100 {
		t.Fatalf("seller must be credited exactly once, got %d", balance.Balance)
	}
}

func TestReadersNeverSeePartialPurchase(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")
	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 100}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	const buyers = 8
	done := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				resp, err := module.Handler.GetTokenHandler(ctx, tokenID)
				if err != nil {
					t.Errorf("get token failed: %v", err)
					return
				}
				if resp.Item.Owner != "alice" && resp.Item.ForSale {
					t.Errorf("observed new owner %s while still listed", resp.Item.Owner)
					return
				}
				if resp.Item.Owner == "alice" && !resp.Item.ForSale {
					t.Errorf("observed closed listing before ownership moved")
					return
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			_, _ = module.Handler.BuyTokenHandler(ctx, buyer, tokenID, httptransport.BuyTokenRequest{Payment: 100})
		}("buyer-" + strconv.Itoa(i))
	}
	wg.Wait()
	close(done)
	readers.Wait()

	final, err := module.Handler.GetTokenHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if final.Item.Owner == "alice" || final.Item.ForSale {
		t.Fatalf("expected settled purchase, got %+v", final.Item)
	}
}

func TestSalesHistoryNewestFirst(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")

	hops := []struct {
		seller string
		buyer  string
		price  int64
	}{
		{"alice", "bob", 10},
		{"bob", "carol", 20},
	}
	for _, hop := range hops {
		if _, err := module.Handler.ListTokenHandler(ctx, hop.seller, tokenID, httptransport.ListTokenRequest{Price: hop.price}); err != nil {
			t.Fatalf("list by %s failed: %v", hop.seller, err)
		}
		if _, err := module.Handler.BuyTokenHandler(ctx, hop.buyer, tokenID, httptransport.BuyTokenRequest{Payment: hop.price}); err != nil {
			t.Fatalf("buy by %s failed: %v", hop.buyer, err)
		}
	}

	sales, err := module.Handler.ListSalesHandler(ctx, tokenID)
	if err != nil {
		t.Fatalf("list sales failed: %v", err)
	}
	if len(sales.Items) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales.Items))
	}
	if sales.Items[0].Buyer != "carol" || sales.Items[1].Buyer != "bob" {
		t.Fatalf("expected newest first, got %s then %s", sales.Items[0].Buyer, sales.Items[1].Buyer)
	}

	_, err = module.Handler.ListSalesHandler(ctx, "42")
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected token not found for unknown id, got %v", err)
	}
}

func TestOutboxRecordsEveryStateChange(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	tokenID := mint(t, module, "alice", "ipfs://x")
	if _, err := module.Handler.ListTokenHandler(ctx, "alice", tokenID, httptransport.ListTokenRequest{Price: 5}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, err := module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 1}); err == nil {
		t.Fatalf("underpaid buy should fail")
	}
	if _, err := module.Handler.BuyTokenHandler(ctx, "bob", tokenID, httptransport.BuyTokenRequest{Payment: 5}); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	events := module.Store.OutboxEvents()
	want := []string{ports.EventTypeTokenMinted, ports.EventTypeTokenListed, ports.EventTypeTokenPurchased}
	if len(events) != len(want) {
		t.Fatalf("expected %d outbox events, got %d", len(want), len(events))
	}
	for i, event := range events {
		if event.EventType != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], event.EventType)
		}
		if event.PartitionKey != tokenID {
			t.Fatalf("event %d: expected partition key %s, got %s", i, tokenID, event.PartitionKey)
		}
	}
}

func TestPublishModelMintsMetadataURI(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	resp, err := module.Handler.PublishModelHandler(ctx, "alice", httptransport.PublishModelRequest{
		FileName:    "weights.onnx",
		ContentType: "application/octet-stream",
		Content:     []byte("model-bytes"),
		Description: "tiny classifier",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if resp.Item.TokenID != "0" || resp.Item.Owner != "alice" {
		t.Fatalf("unexpected minted token %+v", resp.Item)
	}
	if !strings.HasPrefix(resp.Item.ContentURI, contenthash.Scheme) {
		t.Fatalf("expected local digest uri, got %s", resp.Item.ContentURI)
	}
	if resp.Item.GatewayURL != "" {
		t.Fatalf("local digests have no gateway url, got %s", resp.Item.GatewayURL)
	}

	_, err = module.Handler.PublishModelHandler(ctx, "alice", httptransport.PublishModelRequest{FileName: "empty.bin"})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty upload, got %v", err)
	}
}

func TestListTokensFiltersAndPages(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		owner := "alice"
		if i%2 == 1 {
			owner = "bob"
		}
		mint(t, module, owner, "ipfs://m"+strconv.Itoa(i))
	}
	if _, err := module.Handler.ListTokenHandler(ctx, "alice", "2", httptransport.ListTokenRequest{Price: 9}); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	first, err := module.Handler.ListTokensHandler(ctx, httptransport.ListTokensRequest{Owner: "alice", Limit: 2})
	if err != nil {
		t.Fatalf("list tokens failed: %v", err)
	}
	if len(first.Items) != 2 || first.Items[0].TokenID != "0" || first.Items[1].TokenID != "2" {
		t.Fatalf("unexpected first page %+v", first.Items)
	}
	if first.NextCursor == "" {
		t.Fatalf("expected next cursor")
	}
	second, err := module.Handler.ListTokensHandler(ctx, httptransport.ListTokensRequest{Owner: "alice", Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(second.Items) != 1 || second.Items[0].TokenID != "4" || second.NextCursor != "" {
		t.Fatalf("unexpected second page %+v cursor=%q", second.Items, second.NextCursor)
	}

	forSale := true
	listed, err := module.Handler.ListTokensHandler(ctx, httptransport.ListTokensRequest{ForSale: &forSale})
	if err != nil {
		t.Fatalf("for-sale filter failed: %v", err)
	}
	if len(listed.Items) != 1 || listed.Items[0].TokenID != "2" {
		t.Fatalf("expected only token 2 for sale, got %+v", listed.Items)
	}

	_, err = module.Handler.ListTokensHandler(ctx, httptransport.ListTokensRequest{Limit: 101})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized page, got %v", err)
	}
}
