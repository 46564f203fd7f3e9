package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type PublishModelCommand struct {
	Owner       string
	FileName    string
	ContentType string
	Content     []byte
	Description string
}

type PublishModelResult struct {
	Token entities.Token
}

// PublishModelUseCase resolves an uploaded model to a content URI and mints it.
type PublishModelUseCase struct {
	Resolver ports.ContentResolver
	Mint     MintTokenUseCase
	Logger   *slog.Logger
}

func (u PublishModelUseCase) Execute(ctx context.Context, cmd PublishModelCommand) (PublishModelResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if entities.NormalizeAccount(cmd.Owner) == "" || len(cmd.Content) == 0 {
		return PublishModelResult{}, domainerrors.ErrInvalidInput
	}
	if u.Resolver == nil {
		return PublishModelResult{}, fmt.Errorf("%w: no content resolver configured", domainerrors.ErrContentResolution)
	}

	logger.Info("publish model started",
		"event", "publish_model_started",
		"module", "asset-exchange/model-marketplace",
		"layer", "application",
		"owner", cmd.Owner,
		"file_name", cmd.FileName,
		"size_bytes", len(cmd.Content),
	)

	// Resolution happens before any ledger write; a failure here leaves no state behind.
	contentURI, err := u.Resolver.Resolve(ctx, ports.ModelAsset{
		FileName:    strings.TrimSpace(cmd.FileName),
		ContentType: strings.TrimSpace(cmd.ContentType),
		Content:     cmd.Content,
		Description: strings.TrimSpace(cmd.Description),
	})
	if err != nil {
		logger.Error("publish model content resolution failed",
			"event", "publish_model_resolve_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"owner", cmd.Owner,
			"error", err.Error(),
		)
		return PublishModelResult{}, fmt.Errorf("%w: %w", domainerrors.ErrContentResolution, err)
	}

	minted, err := u.Mint.Execute(ctx, MintTokenCommand{
		Owner:      cmd.Owner,
		ContentURI: contentURI,
	})
	if err != nil {
		return PublishModelResult{}, err
	}
	return PublishModelResult{Token: minted.Token}, nil
}
