package services

import (
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
)

// ApplyListing enforces owner-only listing with a strictly positive price and
// returns the listing to persist.
func ApplyListing(
	snapshot entities.Snapshot,
	caller string,
	price entities.Amount,
	now time.Time,
) (entities.Listing, error) {
	if price <= 0 {
		return entities.Listing{}, domainerrors.ErrInvalidInput
	}
	if entities.NormalizeAccount(caller) != snapshot.Token.Owner {
		return entities.Listing{}, domainerrors.ErrUnauthorized
	}
	return snapshot.Listing.Relist(price, now), nil
}
