package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	modelmarketplace "aimarket/contexts/asset-exchange/model-marketplace"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/internal/app/bootstrap"
	"aimarket/internal/platform/config"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	cfg         config.Config
	logger      *slog.Logger
	storage     *bootstrap.Storage
	marketplace modelmarketplace.Module
	printer     = message.NewPrinter(language.English)

	storageDriver string
	verbose       bool
)

func Execute() error {
	root := &cobra.Command{
		Use:          "modelctl",
		Short:        "Operate the AI model marketplace ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			if cfg.StorageDriver == config.StorageMemory {
				logger.Warn("memory storage does not persist between modelctl runs",
					"event", "modelctl_memory_storage",
					"module", "cmd/modelctl",
					"layer", "cli",
				)
			}

			opened, err := bootstrap.OpenStorage(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			resolver, err := bootstrap.NewResolver(cfg, logger)
			if err != nil {
				_ = opened.Close()
				return err
			}
			storage = opened
			marketplace = bootstrap.NewMarketplace(cfg, storage, resolver, logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return storage.Close()
		},
	}

	root.PersistentFlags().StringVar(&storageDriver, "storage", "", "override STORAGE_DRIVER (memory, sqlite, postgres)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		mintCmd(),
		publishCmd(),
		listCmd(),
		buyCmd(),
		showCmd(),
		tokensCmd(),
		countCmd(),
		balanceCmd(),
		salesCmd(),
		serveCmd(),
	)
	return root.ExecuteContext(context.Background())
}

// loadConfig resolves configuration and the CLI logger. The --storage flag
// wins over STORAGE_DRIVER.
func loadConfig() error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if storageDriver != "" {
		loaded.StorageDriver = storageDriver
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("service", cfg.ServiceName, "process", "modelctl")
	return nil
}

func parseTokenID(raw string) (entities.TokenID, error) {
	id, err := entities.ParseTokenID(raw)
	if err != nil {
		return 0, fmt.Errorf("token id %q must be a non-negative integer", raw)
	}
	return id, nil
}

func parseAmount(raw string) (entities.Amount, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q must be an integer", raw)
	}
	return entities.Amount(value), nil
}

func formatAmount(amount entities.Amount) string {
	return printer.Sprintf("%d", int64(amount))
}

func printSnapshot(token entities.Token, listing entities.Listing) {
	fmt.Printf("token %s\n", token.TokenID)
	fmt.Printf("  owner:    %s\n", token.Owner)
	fmt.Printf("  uri:      %s\n", token.ContentURI)
	fmt.Printf("  for sale: %t\n", listing.ForSale)
	fmt.Printf("  price:    %s\n", formatAmount(listing.Price))
}
