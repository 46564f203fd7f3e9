package entities

import (
	"strconv"
	"strings"
	"time"

	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
)

// TokenID is assigned sequentially at mint, starting at 0.
type TokenID uint64

func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func ParseTokenID(raw string) (TokenID, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrInvalidInput
	}
	return TokenID(value), nil
}

type Token struct {
	TokenID    TokenID
	Owner      string
	ContentURI string
	MintedAt   time.Time
	UpdatedAt  time.Time
}

// NewToken validates mint input. ContentURI is immutable once the token exists.
func NewToken(id TokenID, owner string, contentURI string, mintedAt time.Time) (Token, error) {
	owner = NormalizeAccount(owner)
	contentURI = strings.TrimSpace(contentURI)
	if owner == "" || contentURI == "" {
		return Token{}, domainerrors.ErrInvalidInput
	}
	return Token{
		TokenID:    id,
		Owner:      owner,
		ContentURI: contentURI,
		MintedAt:   mintedAt.UTC(),
		UpdatedAt:  mintedAt.UTC(),
	}, nil
}

// TransferTo returns the token held by newOwner. Callers must have settled payment first.
func (t Token) TransferTo(newOwner string, at time.Time) Token {
	t.Owner = NormalizeAccount(newOwner)
	t.UpdatedAt = at.UTC()
	return t
}

// NormalizeAccount trims surrounding whitespace; account identifiers are otherwise opaque.
func NormalizeAccount(account string) string {
	return strings.TrimSpace(account)
}

// Snapshot is a token and its listing read from the same consistent state.
type Snapshot struct {
	Token   Token
	Listing Listing
}
