package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/application/commands"
	"aimarket/contexts/asset-exchange/model-marketplace/application/queries"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	httptransport "aimarket/contexts/asset-exchange/model-marketplace/transport/http"
)

const timestampLayout = "2006-01-02T15:04:05Z"

type Handler struct {
	MintToken     commands.MintTokenUseCase
	PublishModel  commands.PublishModelUseCase
	ListToken     commands.ListTokenUseCase
	BuyToken      commands.BuyTokenUseCase
	GetToken      queries.GetTokenUseCase
	ListTokens    queries.ListTokensUseCase
	ListSales     queries.ListSalesUseCase
	GetBalance    queries.GetBalanceUseCase
	GetCollection queries.GetCollectionUseCase
	// GatewayURL is the HTTP prefix ipfs:// content URIs are rewritten onto.
	GatewayURL string
	Logger     *slog.Logger
}

// MintTokenHandler godoc
// @Summary Mint a model token
// @Description Registers a content URI under the caller and assigns the next sequential token id.
// @Tags model-marketplace
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account"
// @Param request body httptransport.MintTokenRequest true "Mint payload"
// @Success 201 {object} httptransport.MintTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/tokens [post]
func (h Handler) MintTokenHandler(
	ctx context.Context,
	owner string,
	req httptransport.MintTokenRequest,
) (httptransport.MintTokenResponse, error) {
	result, err := h.MintToken.Execute(ctx, commands.MintTokenCommand{
		Owner:      owner,
		ContentURI: req.ContentURI,
	})
	if err != nil {
		return httptransport.MintTokenResponse{}, err
	}
	return httptransport.MintTokenResponse{
		Item: h.mapToken(entities.Snapshot{
			Token:   result.Token,
			Listing: entities.NewListing(result.Token.TokenID, result.Token.MintedAt),
		}),
	}, nil
}

// PublishModelHandler godoc
// @Summary Publish a model file
// @Description Stores the uploaded model and its metadata with the content resolver, then mints a token for the metadata URI.
// @Tags model-marketplace
// @Accept mpfd
// @Produce json
// @Param X-User-Id header string true "Caller account"
// @Param file formData file true "Model file"
// @Param description formData string false "Model description"
// @Success 201 {object} httptransport.MintTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/models [post]
func (h Handler) PublishModelHandler(
	ctx context.Context,
	owner string,
	req httptransport.PublishModelRequest,
) (httptransport.MintTokenResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("publish model request received",
		"event", "http_publish_model_received",
		"module", "asset-exchange/model-marketplace",
		"layer", "transport",
		"file_name", req.FileName,
		"file_size", len(req.Content),
	)

	result, err := h.PublishModel.Execute(ctx, commands.PublishModelCommand{
		Owner:       owner,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Content:     req.Content,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.MintTokenResponse{}, err
	}
	return httptransport.MintTokenResponse{
		Item: h.mapToken(entities.Snapshot{
			Token:   result.Token,
			Listing: entities.NewListing(result.Token.TokenID, result.Token.MintedAt),
		}),
	}, nil
}

// GetTokenHandler godoc
// @Summary Get token
// @Description Returns owner, content URI and sale state of one token from a single consistent read.
// @Tags model-marketplace
// @Produce json
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.GetTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/tokens/{token_id} [get]
func (h Handler) GetTokenHandler(ctx context.Context, rawTokenID string) (httptransport.GetTokenResponse, error) {
	tokenID, err := entities.ParseTokenID(rawTokenID)
	if err != nil {
		return httptransport.GetTokenResponse{}, err
	}
	result, err := h.GetToken.Execute(ctx, queries.GetTokenQuery{TokenID: tokenID})
	if err != nil {
		return httptransport.GetTokenResponse{}, err
	}
	return httptransport.GetTokenResponse{
		Item: h.mapToken(entities.Snapshot{Token: result.Token, Listing: result.Listing}),
	}, nil
}

// ListTokensHandler godoc
// @Summary List tokens
// @Description Returns tokens in id order with owner and for-sale filters and cursor pagination.
// @Tags model-marketplace
// @Produce json
// @Param owner query string false "Owner filter"
// @Param for_sale query bool false "Sale state filter"
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} httptransport.ListTokensResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/tokens [get]
func (h Handler) ListTokensHandler(ctx context.Context, req httptransport.ListTokensRequest) (httptransport.ListTokensResponse, error) {
	result, err := h.ListTokens.Execute(ctx, queries.ListTokensQuery{
		Owner:   req.Owner,
		ForSale: req.ForSale,
		Cursor:  req.Cursor,
		Limit:   req.Limit,
	})
	if err != nil {
		return httptransport.ListTokensResponse{}, err
	}
	items := make([]httptransport.TokenDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, h.mapToken(item))
	}
	return httptransport.ListTokensResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

// ListTokenHandler godoc
// @Summary List a token for sale
// @Description Puts the caller's token on sale at the given price, replacing any previous price.
// @Tags model-marketplace
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account"
// @Param token_id path int true "Token id"
// @Param request body httptransport.ListTokenRequest true "Listing payload"
// @Success 200 {object} httptransport.ListTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/tokens/{token_id}/listing [post]
func (h Handler) ListTokenHandler(
	ctx context.Context,
	caller string,
	rawTokenID string,
	req httptransport.ListTokenRequest,
) (httptransport.ListTokenResponse, error) {
	tokenID, err := entities.ParseTokenID(rawTokenID)
	if err != nil {
		return httptransport.ListTokenResponse{}, err
	}
	result, err := h.ListToken.Execute(ctx, commands.ListTokenCommand{
		TokenID: tokenID,
		Caller:  caller,
		Price:   entities.Amount(req.Price),
	})
	if err != nil {
		return httptransport.ListTokenResponse{}, err
	}
	return httptransport.ListTokenResponse{
		Item: httptransport.ListingDTO{
			TokenID:   result.Listing.TokenID.String(),
			Price:     int64(result.Listing.Price),
			ForSale:   result.Listing.ForSale,
			UpdatedAt: formatTime(result.Listing.UpdatedAt),
		},
	}, nil
}

// BuyTokenHandler godoc
// @Summary Buy a listed token
// @Description Pays at least the listed price; the full payment is credited to the seller and ownership moves to the caller.
// @Tags model-marketplace
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Buyer account"
// @Param token_id path int true "Token id"
// @Param request body httptransport.BuyTokenRequest true "Payment"
// @Success 200 {object} httptransport.BuyTokenResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/tokens/{token_id}/purchase [post]
func (h Handler) BuyTokenHandler(
	ctx context.Context,
	buyer string,
	rawTokenID string,
	req httptransport.BuyTokenRequest,
) (httptransport.BuyTokenResponse, error) {
	tokenID, err := entities.ParseTokenID(rawTokenID)
	if err != nil {
		return httptransport.BuyTokenResponse{}, err
	}
	result, err := h.BuyToken.Execute(ctx, commands.BuyTokenCommand{
		TokenID: tokenID,
		Buyer:   buyer,
		Payment: entities.Amount(req.Payment),
	})
	if err != nil {
		return httptransport.BuyTokenResponse{}, err
	}
	return httptransport.BuyTokenResponse{Receipt: mapReceipt(result.Receipt)}, nil
}

// ListSalesHandler godoc
// @Summary List token sales
// @Description Returns settled purchases of one token, newest first.
// @Tags model-marketplace
// @Produce json
// @Param token_id path int true "Token id"
// @Success 200 {object} httptransport.ListSalesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/tokens/{token_id}/sales [get]
func (h Handler) ListSalesHandler(ctx context.Context, rawTokenID string) (httptransport.ListSalesResponse, error) {
	tokenID, err := entities.ParseTokenID(rawTokenID)
	if err != nil {
		return httptransport.ListSalesResponse{}, err
	}
	result, err := h.ListSales.Execute(ctx, queries.ListSalesQuery{TokenID: tokenID})
	if err != nil {
		return httptransport.ListSalesResponse{}, err
	}
	items := make([]httptransport.ReceiptDTO, 0, len(result.Items))
	for _, receipt := range result.Items {
		items = append(items, mapReceipt(receipt))
	}
	return httptransport.ListSalesResponse{Items: items}, nil
}

// GetBalanceHandler godoc
// @Summary Get account proceeds
// @Description Returns the total credited to an account by its sales.
// @Tags model-marketplace
// @Produce json
// @Param account_id path string true "Account"
// @Success 200 {object} httptransport.BalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/accounts/{account_id}/balance [get]
func (h Handler) GetBalanceHandler(ctx context.Context, account string) (httptransport.BalanceResponse, error) {
	result, err := h.GetBalance.Execute(ctx, queries.GetBalanceQuery{Account: account})
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{
		Account: result.Account,
		Balance: int64(result.Balance),
	}, nil
}

// GetCollectionHandler godoc
// @Summary Get collection
// @Description Returns collection name, symbol and the number of minted tokens.
// @Tags model-marketplace
// @Produce json
// @Success 200 {object} httptransport.CollectionResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/collection [get]
func (h Handler) GetCollectionHandler(ctx context.Context) (httptransport.CollectionResponse, error) {
	result, err := h.GetCollection.Execute(ctx)
	if err != nil {
		return httptransport.CollectionResponse{}, err
	}
	return httptransport.CollectionResponse{
		Name:        result.Collection.Name,
		Symbol:      result.Collection.Symbol,
		TotalSupply: result.TotalSupply,
	}, nil
}

func (h Handler) mapToken(snapshot entities.Snapshot) httptransport.TokenDTO {
	return httptransport.TokenDTO{
		TokenID:    snapshot.Token.TokenID.String(),
		Owner:      snapshot.Token.Owner,
		ContentURI: snapshot.Token.ContentURI,
		GatewayURL: entities.GatewayURL(snapshot.Token.ContentURI, h.GatewayURL),
		Price:      int64(snapshot.Listing.Price),
		ForSale:    snapshot.Listing.ForSale,
		State:      string(snapshot.Listing.State()),
		MintedAt:   formatTime(snapshot.Token.MintedAt),
		UpdatedAt:  formatTime(snapshot.Token.UpdatedAt),
	}
}

func mapReceipt(receipt entities.Receipt) httptransport.ReceiptDTO {
	return httptransport.ReceiptDTO{
		ReceiptID:   receipt.ReceiptID,
		TokenID:     receipt.TokenID.String(),
		Buyer:       receipt.Buyer,
		Seller:      receipt.Seller,
		Price:       int64(receipt.Price),
		AmountPaid:  int64(receipt.AmountPaid),
		PurchasedAt: formatTime(receipt.PurchasedAt),
	}
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timestampLayout)
}
