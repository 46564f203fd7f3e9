package entities

import (
	"math"
	"time"

	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
)

// Amount is money in the smallest currency unit. Floating point is never used.
type Amount int64

func (a Amount) IsNegative() bool {
	return a < 0
}

// Add returns a+b, failing instead of wrapping on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, domainerrors.ErrBalanceOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, domainerrors.ErrBalanceOverflow
	}
	return a + b, nil
}

type ListingState string

const (
	ListingStateUnlisted ListingState = "unlisted"
	ListingStateListed   ListingState = "listed"
)

type Listing struct {
	TokenID   TokenID
	Price     Amount
	ForSale   bool
	UpdatedAt time.Time
}

// NewListing is the sale state every token starts with.
func NewListing(id TokenID, at time.Time) Listing {
	return Listing{
		TokenID:   id,
		Price:     0,
		ForSale:   false,
		UpdatedAt: at.UTC(),
	}
}

func (l Listing) State() ListingState {
	if l.ForSale {
		return ListingStateListed
	}
	return ListingStateUnlisted
}

// Relist puts the token on sale at price, overwriting any previous price.
func (l Listing) Relist(price Amount, at time.Time) Listing {
	l.Price = price
	l.ForSale = true
	l.UpdatedAt = at.UTC()
	return l
}

// Close takes the token off sale. The last price is kept for display.
func (l Listing) Close(at time.Time) Listing {
	l.ForSale = false
	l.UpdatedAt = at.UTC()
	return l
}
