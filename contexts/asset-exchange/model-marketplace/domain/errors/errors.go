package errors

import "errors"

var (
	ErrTokenNotFound            = errors.New("token not found")
	ErrUnauthorized             = errors.New("caller is not the token owner")
	ErrInvalidInput             = errors.New("invalid marketplace input")
	ErrNotForSale               = errors.New("token is not for sale")
	ErrInsufficientPayment      = errors.New("payment is below the listing price")
	ErrSelfPurchase             = errors.New("token owner cannot buy own listing")
	ErrBalanceOverflow          = errors.New("account balance overflow")
	ErrContentResolution        = errors.New("content resolution failed")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
