package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	modelmarketplace "aimarket/contexts/asset-exchange/model-marketplace"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/contenthash"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/memory"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/pinata"
	postgresadapter "aimarket/contexts/asset-exchange/model-marketplace/adapters/postgres"
	sqliteadapter "aimarket/contexts/asset-exchange/model-marketplace/adapters/sqlite"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/system"
	workerapp "aimarket/contexts/asset-exchange/model-marketplace/application/workers"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
	"aimarket/internal/platform/config"
	"aimarket/internal/platform/db"
	"aimarket/internal/platform/httpserver"
	"aimarket/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server  *httpserver.Server
	storage *Storage
	// relay and activity are set only for the memory driver, where no
	// separate worker process can see the outbox.
	relay        *workerapp.OutboxRelay
	activity     *workerapp.ActivityConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	storage      *Storage
	outboxRelay  workerapp.OutboxRelay
	activity     *workerapp.ActivityConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// Storage is one store implementation exposed through every port it serves.
type Storage struct {
	Driver      string
	Tokens      ports.TokenRegistry
	Ledger      ports.MarketplaceLedger
	Outbox      ports.OutboxRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	close       func() error
}

func (s *Storage) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg config.Config, process string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.LogFormat), "text") {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler).With("service", cfg.ServiceName, "process", process)
	slog.SetDefault(logger)
	return logger
}

// OpenStorage connects the configured driver and prepares its schema.
func OpenStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pg, err := db.Connect(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.AutoMigrate(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &Storage{
			Driver:      cfg.StorageDriver,
			Tokens:      repo,
			Ledger:      repo,
			Outbox:      repo,
			Clock:       system.Clock{},
			IDGenerator: system.UUIDGenerator{},
			close:       pg.Close,
		}, nil
	case config.StorageSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, err := sqliteadapter.New(ctx, sqlDB, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return &Storage{
			Driver:      cfg.StorageDriver,
			Tokens:      store,
			Ledger:      store,
			Outbox:      store,
			Clock:       system.Clock{},
			IDGenerator: system.UUIDGenerator{},
			close:       sqlDB.Close,
		}, nil
	case config.StorageMemory:
		store := memory.NewStore(logger)
		return &Storage{
			Driver:      cfg.StorageDriver,
			Tokens:      store,
			Ledger:      store,
			Outbox:      store,
			Clock:       store,
			IDGenerator: store,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// NewResolver returns the content resolver selected by CONTENT_RESOLVER.
func NewResolver(cfg config.Config, logger *slog.Logger) (ports.ContentResolver, error) {
	switch cfg.ContentResolver {
	case config.ResolverPinata:
		return pinata.New(cfg.PinataBaseURL, cfg.PinataJWT, pinata.WithLogger(logger))
	case config.ResolverLocal:
		return contenthash.Resolver{Dir: cfg.ContentDir, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported content resolver %q", cfg.ContentResolver)
	}
}

// NewMarketplace wires the marketplace module over an opened storage.
func NewMarketplace(cfg config.Config, storage *Storage, resolver ports.ContentResolver, logger *slog.Logger) modelmarketplace.Module {
	return modelmarketplace.NewModule(modelmarketplace.Dependencies{
		Tokens:      storage.Tokens,
		Ledger:      storage.Ledger,
		Resolver:    resolver,
		Clock:       storage.Clock,
		IDGenerator: storage.IDGenerator,
		Collection: entities.Collection{
			Name:   cfg.CollectionName,
			Symbol: cfg.CollectionSymbol,
		},
		AllowSelfPurchase: cfg.AllowSelfPurchase,
		GatewayURL:        cfg.ContentGatewayURL,
		Logger:            logger,
	})
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "api")
	return NewAPI(ctx, cfg, logger)
}

// NewAPI assembles the HTTP API from an already loaded configuration.
func NewAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	resolver, err := NewResolver(cfg, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	module := NewMarketplace(cfg, storage, resolver, logger)

	app := &APIApp{
		server:       httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort)),
		storage:      storage,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}
	if storage.Driver == config.StorageMemory {
		bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
		if err != nil {
			_ = storage.Close()
			return nil, err
		}
		app.relay = &workerapp.OutboxRelay{
			Outbox:    storage.Outbox,
			Publisher: bus,
			Clock:     storage.Clock,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		}
		app.activity = &workerapp.ActivityConsumer{
			Subscriber: bus,
			Logger:     logger,
		}
	}
	return app, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "worker")
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("worker started with memory storage; only this process's outbox is relayed",
			"event", "bootstrap_worker_memory_storage",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	return &WorkerApp{
		storage: storage,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    storage.Outbox,
			Publisher: kafka,
			Clock:     storage.Clock,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		activity: &workerapp.ActivityConsumer{
			Subscriber: kafka,
			Logger:     logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"storage_driver", a.storage.Driver,
	)
	if err := a.startEmbeddedRelay(ctx); err != nil {
		return err
	}
	return a.server.Run(ctx)
}

// startEmbeddedRelay subscribes the activity consumer before the relay
// publishes anything, so no event is relayed to an empty bus.
func (a *APIApp) startEmbeddedRelay(ctx context.Context) error {
	if a.relay == nil {
		return nil
	}
	if a.activity != nil {
		if err := a.activity.Start(ctx); err != nil {
			return err
		}
	}
	go func() {
		if err := runRelayLoop(ctx, *a.relay, a.pollInterval); err != nil {
			a.logger.Error("embedded outbox relay stopped",
				"event", "bootstrap_api_relay_stopped",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}()
	return nil
}

func (a *APIApp) Close() error {
	return a.storage.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.activity.Start(ctx); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	return runRelayLoop(ctx, w.outboxRelay, w.pollInterval)
}

func (w *WorkerApp) Close() error {
	return w.storage.Close()
}

func runRelayLoop(ctx context.Context, relay workerapp.OutboxRelay, interval time.Duration) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := relay.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
