package queries

import (
	"context"
	"log/slog"
	"strings"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

const maxListLimit = 100

type ListTokensQuery struct {
	Owner   string
	ForSale *bool
	Cursor  string
	Limit   int
}

type ListTokensResult struct {
	Items      []entities.Snapshot
	NextCursor string
}

type ListTokensUseCase struct {
	Tokens ports.TokenRegistry
	Logger *slog.Logger
}

func (u ListTokensUseCase) Execute(ctx context.Context, query ListTokensQuery) (ListTokensResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if query.Limit < 0 || query.Limit > maxListLimit {
		return ListTokensResult{}, domainerrors.ErrInvalidInput
	}
	limit := query.Limit
	if limit == 0 {
		limit = 20
	}

	items, next, err := u.Tokens.ListTokens(ctx, ports.TokenListFilter{
		Owner:   strings.TrimSpace(query.Owner),
		ForSale: query.ForSale,
		Cursor:  query.Cursor,
		Limit:   limit,
	})
	if err != nil {
		logger.Error("list tokens failed",
			"event", "list_tokens_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"error", err.Error(),
		)
		return ListTokensResult{}, err
	}
	return ListTokensResult{Items: items, NextCursor: next}, nil
}
