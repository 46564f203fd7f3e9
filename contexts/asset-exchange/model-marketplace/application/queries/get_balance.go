package queries

import (
	"context"
	"log/slog"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type GetBalanceQuery struct {
	Account string
}

type GetBalanceResult struct {
	Account string
	Balance entities.Amount
}

// GetBalanceUseCase reports proceeds credited to an account by settled sales.
type GetBalanceUseCase struct {
	Ledger ports.MarketplaceLedger
	Logger *slog.Logger
}

func (u GetBalanceUseCase) Execute(ctx context.Context, query GetBalanceQuery) (GetBalanceResult, error) {
	account := entities.NormalizeAccount(query.Account)
	if account == "" {
		return GetBalanceResult{}, domainerrors.ErrInvalidInput
	}
	balance, err := u.Ledger.GetBalance(ctx, account)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("get balance failed",
			"event", "get_balance_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"account", account,
			"error", err.Error(),
		)
		return GetBalanceResult{}, err
	}
	return GetBalanceResult{Account: account, Balance: balance}, nil
}
