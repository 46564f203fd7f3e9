package modelmarketplace

import (
	"log/slog"

	httpadapter "aimarket/contexts/asset-exchange/model-marketplace/adapters/http"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/memory"
	"aimarket/contexts/asset-exchange/model-marketplace/application/commands"
	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

const (
	DefaultCollectionName   = "AIModelNFT"
	DefaultCollectionSymbol = "AIM"
	DefaultGatewayURL       = "https://ipfs.io/ipfs/"
)

// Module is the composition surface for the model marketplace.
// Transports consume Handler; Store is set only by NewInMemoryModule.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Tokens            ports.TokenRegistry
	Ledger            ports.MarketplaceLedger
	Resolver          ports.ContentResolver
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	Collection        entities.Collection
	AllowSelfPurchase bool
	GatewayURL        string
	Logger            *slog.Logger
}

// NewModule wires marketplace use cases against explicit ports.
func NewModule(deps Dependencies) Module {
	collection := deps.Collection
	if collection.Name == "" {
		collection.Name = DefaultCollectionName
	}
	if collection.Symbol == "" {
		collection.Symbol = DefaultCollectionSymbol
	}

	mint := commands.MintTokenUseCase{
		Tokens:      deps.Tokens,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	handler := httpadapter.Handler{
		MintToken: mint,
		PublishModel: commands.PublishModelUseCase{
			Resolver: deps.Resolver,
			Mint:     mint,
			Logger:   deps.Logger,
		},
		ListToken: commands.ListTokenUseCase{
			Ledger:      deps.Ledger,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		BuyToken: commands.BuyTokenUseCase{
			Ledger:            deps.Ledger,
			Clock:             deps.Clock,
			IDGenerator:       deps.IDGenerator,
			AllowSelfPurchase: deps.AllowSelfPurchase,
			Logger:            deps.Logger,
		},
		GetToken: queries.GetTokenUseCase{
			Tokens: deps.Tokens,
			Logger: deps.Logger,
		},
		ListTokens: queries.ListTokensUseCase{
			Tokens: deps.Tokens,
			Logger: deps.Logger,
		},
		ListSales: queries.ListSalesUseCase{
			Tokens: deps.Tokens,
			Ledger: deps.Ledger,
		},
		GetBalance: queries.GetBalanceUseCase{
			Ledger: deps.Ledger,
			Logger: deps.Logger,
		},
		GetCollection: queries.GetCollectionUseCase{
			Collection: collection,
			Tokens:     deps.Tokens,
		},
		GatewayURL: deps.GatewayURL,
		Logger:     deps.Logger,
	}
	return Module{Handler: handler}
}

// NewInMemoryModule wires the marketplace against the in-memory store, which
// also acts as clock and id generator. Self-purchase is allowed.
func NewInMemoryModule(resolver ports.ContentResolver, logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Tokens:            store,
		Ledger:            store,
		Resolver:          resolver,
		Clock:             store,
		IDGenerator:       store,
		AllowSelfPurchase: true,
		GatewayURL:        DefaultGatewayURL,
		Logger:            logger,
	})
	module.Store = store
	return module
}
