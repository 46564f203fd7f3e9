package queries

import (
	"context"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type ListSalesQuery struct {
	TokenID entities.TokenID
}

type ListSalesResult struct {
	Items []entities.Receipt
}

// ListSalesUseCase returns receipts for a token, newest first.
type ListSalesUseCase struct {
	Tokens ports.TokenRegistry
	Ledger ports.MarketplaceLedger
}

func (u ListSalesUseCase) Execute(ctx context.Context, query ListSalesQuery) (ListSalesResult, error) {
	if _, err := u.Tokens.GetToken(ctx, query.TokenID); err != nil {
		return ListSalesResult{}, err
	}
	items, err := u.Ledger.ListSales(ctx, query.TokenID)
	if err != nil {
		return ListSalesResult{}, err
	}
	return ListSalesResult{Items: items}, nil
}
