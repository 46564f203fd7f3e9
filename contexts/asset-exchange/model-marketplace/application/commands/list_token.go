package commands

import (
	"context"
	"errors"
	"log/slog"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type ListTokenCommand struct {
	TokenID entities.TokenID
	Caller  string
	Price   entities.Amount
}

type ListTokenResult struct {
	Listing entities.Listing
}

type ListTokenUseCase struct {
	Ledger      ports.MarketplaceLedger
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u ListTokenUseCase) Execute(ctx context.Context, cmd ListTokenCommand) (ListTokenResult, error) {
	logger := application.ResolveLogger(u.Logger)
	caller := entities.NormalizeAccount(cmd.Caller)
	if caller == "" || cmd.Price <= 0 {
		return ListTokenResult{}, domainerrors.ErrInvalidInput
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return ListTokenResult{}, err
	}

	listing, err := u.Ledger.ListToken(ctx, ports.ListTokenInput{
		TokenID:  cmd.TokenID,
		Caller:   caller,
		Price:    cmd.Price,
		EventID:  eventID,
		ListedAt: now(u.Clock),
	})
	if err != nil {
		level := slog.LevelError
		if isDomainRejection(err) {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "list token failed",
			"event", "list_token_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"token_id", cmd.TokenID.String(),
			"caller", caller,
			"error", err.Error(),
		)
		return ListTokenResult{}, err
	}

	logger.Info("token listed",
		"event", "model_marketplace_token_listed",
		"module", "asset-exchange/model-marketplace",
		"layer", "application",
		"token_id", cmd.TokenID.String(),
		"caller", caller,
		"price", int64(listing.Price),
	)
	return ListTokenResult{Listing: listing}, nil
}

// isDomainRejection separates rule violations (warn) from infrastructure faults (error).
func isDomainRejection(err error) bool {
	return errors.Is(err, domainerrors.ErrTokenNotFound) ||
		errors.Is(err, domainerrors.ErrUnauthorized) ||
		errors.Is(err, domainerrors.ErrInvalidInput) ||
		errors.Is(err, domainerrors.ErrNotForSale) ||
		errors.Is(err, domainerrors.ErrInsufficientPayment) ||
		errors.Is(err, domainerrors.ErrSelfPurchase)
}
