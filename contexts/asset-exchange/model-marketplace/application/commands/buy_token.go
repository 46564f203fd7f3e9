package commands

import (
	"context"
	"log/slog"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type BuyTokenCommand struct {
	TokenID entities.TokenID
	Buyer   string
	Payment entities.Amount
}

type BuyTokenResult struct {
	Receipt entities.Receipt
}

type BuyTokenUseCase struct {
	Ledger            ports.MarketplaceLedger
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	AllowSelfPurchase bool
	Logger            *slog.Logger
}

// Execute runs the purchase in this order:
// 1) input validation
// 2) receipt/event id allocation
// 3) ledger settlement (listing check, payment check, credit, transfer, close)
// as a single atomic store operation.
func (u BuyTokenUseCase) Execute(ctx context.Context, cmd BuyTokenCommand) (BuyTokenResult, error) {
	logger := application.ResolveLogger(u.Logger)
	buyer := entities.NormalizeAccount(cmd.Buyer)
	if buyer == "" || cmd.Payment.IsNegative() {
		return BuyTokenResult{}, domainerrors.ErrInvalidInput
	}

	logger.Info("buy token started",
		"event", "buy_token_started",
		"module", "asset-exchange/model-marketplace",
		"layer", "application",
		"token_id", cmd.TokenID.String(),
		"buyer", buyer,
		"payment", int64(cmd.Payment),
	)

	receiptID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return BuyTokenResult{}, err
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return BuyTokenResult{}, err
	}

	receipt, err := u.Ledger.BuyToken(ctx, ports.BuyTokenInput{
		TokenID:           cmd.TokenID,
		Buyer:             buyer,
		Payment:           cmd.Payment,
		ReceiptID:         receiptID,
		EventID:           eventID,
		PurchasedAt:       now(u.Clock),
		AllowSelfPurchase: u.AllowSelfPurchase,
	})
	if err != nil {
		level := slog.LevelError
		if isDomainRejection(err) {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "buy token failed",
			"event", "buy_token_failed",
			"module", "asset-exchange/model-marketplace",
			"layer", "application",
			"token_id", cmd.TokenID.String(),
			"buyer", buyer,
			"error", err.Error(),
		)
		return BuyTokenResult{}, err
	}

	logger.Info("token purchased",
		"event", "model_marketplace_token_purchased",
		"module", "asset-exchange/model-marketplace",
		"layer", "application",
		"token_id", receipt.TokenID.String(),
		"receipt_id", receipt.ReceiptID,
		"buyer", receipt.Buyer,
		"seller", receipt.Seller,
		"amount_paid", int64(receipt.AmountPaid),
	)
	return BuyTokenResult{Receipt: receipt}, nil
}
