package services

import (
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
)

// PurchasePolicy holds the configurable parts of the buy rules.
type PurchasePolicy struct {
	AllowSelfPurchase bool
}

// Settlement is every state change a purchase produces. Stores must persist
// all of it in one atomic unit.
type Settlement struct {
	Token         entities.Token
	Listing       entities.Listing
	SellerBalance entities.Amount
	Receipt       entities.Receipt
}

// EvaluatePurchase checks, in order: for-sale flag, payment against price,
// then the self-purchase policy.
func EvaluatePurchase(
	snapshot entities.Snapshot,
	buyer string,
	payment entities.Amount,
	policy PurchasePolicy,
) error {
	if !snapshot.Listing.ForSale {
		return domainerrors.ErrNotForSale
	}
	if payment < snapshot.Listing.Price {
		return domainerrors.ErrInsufficientPayment
	}
	if !policy.AllowSelfPurchase && entities.NormalizeAccount(buyer) == snapshot.Token.Owner {
		return domainerrors.ErrSelfPurchase
	}
	return nil
}

// SettlePurchase credits the full payment to the current owner, hands the
// token to the buyer and closes the listing.
func SettlePurchase(
	snapshot entities.Snapshot,
	buyer string,
	payment entities.Amount,
	sellerBalance entities.Amount,
	receiptID string,
	policy PurchasePolicy,
	now time.Time,
) (Settlement, error) {
	buyer = entities.NormalizeAccount(buyer)
	if buyer == "" || payment.IsNegative() || receiptID == "" {
		return Settlement{}, domainerrors.ErrInvalidInput
	}
	if err := EvaluatePurchase(snapshot, buyer, payment, policy); err != nil {
		return Settlement{}, err
	}

	credited, err := sellerBalance.Add(payment)
	if err != nil {
		return Settlement{}, err
	}

	seller := snapshot.Token.Owner
	return Settlement{
		Token:         snapshot.Token.TransferTo(buyer, now),
		Listing:       snapshot.Listing.Close(now),
		SellerBalance: credited,
		Receipt: entities.Receipt{
			ReceiptID:   receiptID,
			TokenID:     snapshot.Token.TokenID,
			Buyer:       buyer,
			Seller:      seller,
			Price:       snapshot.Listing.Price,
			AmountPaid:  payment,
			PurchasedAt: now.UTC(),
		},
	}, nil
}
