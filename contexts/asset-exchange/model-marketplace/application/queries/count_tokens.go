package queries

import (
	"context"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type CountTokensResult struct {
	Count uint64
}

type CountTokensUseCase struct {
	Tokens ports.TokenRegistry
}

func (u CountTokensUseCase) Execute(ctx context.Context) (CountTokensResult, error) {
	count, err := u.Tokens.CountTokens(ctx)
	if err != nil {
		return CountTokensResult{}, err
	}
	return CountTokensResult{Count: count}, nil
}

type GetCollectionResult struct {
	Collection  entities.Collection
	TotalSupply uint64
}

type GetCollectionUseCase struct {
	Collection entities.Collection
	Tokens     ports.TokenRegistry
}

func (u GetCollectionUseCase) Execute(ctx context.Context) (GetCollectionResult, error) {
	count, err := u.Tokens.CountTokens(ctx)
	if err != nil {
		return GetCollectionResult{}, err
	}
	return GetCollectionResult{Collection: u.Collection, TotalSupply: count}, nil
}
