package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type MintTokenCommand struct {
	Owner      string
	ContentURI string
}

type MintTokenResult struct {
	Token entities.Token
}

type MintTokenUseCase struct {
	Tokens      ports.TokenRegistry
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates input, then lets the registry allocate the next id and
// persist token, default listing and minted event together.
func (u MintTokenUseCase) Execute(ctx context.Context, cmd MintTokenCommand) (MintTokenResult, error) {
	logger := application.ResolveLogger(u.Logger)
	owner := entities.NormalizeAccount(cmd.Owner)
	contentURI := strings.TrimSpace(cmd.ContentURI)
	if owner == "" || contentURI == "" {
		logger.Warn("mint token rejected",
			"event", "mint_token_invalid_input",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"owner", owner,
		)
		return MintTokenResult{}, domainerrors.ErrInvalidInput
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return MintTokenResult{}, err
	}

	token, err := u.Tokens.MintToken(ctx, ports.MintTokenInput{
		Owner:      owner,
		ContentURI: contentURI,
		EventID:    eventID,
		MintedAt:   now(u.Clock),
	})
	if err != nil {
		level := slog.LevelError
		if isDomainRejection(err) {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "mint token failed",
			"event", "mint_token_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"owner", owner,
			"error", err.Error(),
		)
		return MintTokenResult{}, err
	}

	logger.Info("token minted",
		"event", "model_marketplace_token_minted",
		"module", "asset-exchange/model-marketplace",
		"layer", "application",
		"token_id", token.TokenID.String(),
		"owner", token.Owner,
		"content_uri", token.ContentURI,
	)
	return MintTokenResult{Token: token}, nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
