package queries

import (
	"context"
	"log/slog"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type GetTokenQuery struct {
	TokenID entities.TokenID
}

type GetTokenResult struct {
	Token   entities.Token
	Listing entities.Listing
}

// GetTokenUseCase backs ownerOf, uriOf, priceOf and isForSale. Token and
// listing come from one consistent read, so a purchase is never seen half applied.
type GetTokenUseCase struct {
	Tokens ports.TokenRegistry
	Logger *slog.Logger
}

func (u GetTokenUseCase) Execute(ctx context.Context, query GetTokenQuery) (GetTokenResult, error) {
	logger := application.ResolveLogger(u.Logger)

	snapshot, err := u.Tokens.GetToken(ctx, query.TokenID)
	if err != nil {
		logger.Debug("get token failed",
			"event", "get_token_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"token_id", query.TokenID.String(),
			"error", err.Error(),
		)
		return GetTokenResult{}, err
	}
	return GetTokenResult{Token: snapshot.Token, Listing: snapshot.Listing}, nil
}
