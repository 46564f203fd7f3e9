package entities

import "time"

// Receipt records one settled purchase. AmountPaid may exceed Price; the
// difference stays with the seller.
type Receipt struct {
	ReceiptID   string
	TokenID     TokenID
	Buyer       string
	Seller      string
	Price       Amount
	AmountPaid  Amount
	PurchasedAt time.Time
}

// Collection describes the token collection as a whole.
type Collection struct {
	Name   string
	Symbol string
}
