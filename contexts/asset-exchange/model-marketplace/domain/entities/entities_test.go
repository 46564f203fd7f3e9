package entities

import (
	"math"
	"testing"
	"time"

	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenNormalizesAndValidates(t *testing.T) {
	at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))

	token, err := NewToken(3, "  alice ", " ipfs://x ", at)
	require.NoError(t, err)
	assert.Equal(t, "alice", token.Owner)
	assert.Equal(t, "ipfs://x", token.ContentURI)
	assert.Equal(t, time.UTC, token.MintedAt.Location())

	_, err = NewToken(0, "", "ipfs://x", at)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = NewToken(0, "alice", "", at)
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestParseTokenID(t *testing.T) {
	id, err := ParseTokenID(" 17 ")
	require.NoError(t, err)
	assert.Equal(t, TokenID(17), id)
	assert.Equal(t, "17", id.String())

	for _, raw := range []string{"", "-1", "abc", "1.5"} {
		_, err := ParseTokenID(raw)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput, raw)
	}
}

func TestAmountAddDetectsOverflow(t *testing.T) {
	sum, err := Amount(40).Add(2)
	require.NoError(t, err)
	assert.Equal(t, Amount(42), sum)

	_, err = Amount(math.MaxInt64).Add(1)
	require.ErrorIs(t, err, domainerrors.ErrBalanceOverflow)
	_, err = Amount(math.MinInt64).Add(-1)
	require.ErrorIs(t, err, domainerrors.ErrBalanceOverflow)
}

func TestListingLifecycle(t *testing.T) {
	at := time.Now()
	listing := NewListing(5, at)
	assert.False(t, listing.ForSale)
	assert.Equal(t, ListingStateUnlisted, listing.State())

	listed := listing.Relist(90, at)
	assert.True(t, listed.ForSale)
	assert.Equal(t, Amount(90), listed.Price)
	assert.Equal(t, ListingStateListed, listed.State())

	closed := listed.Close(at)
	assert.False(t, closed.ForSale)
	assert.Equal(t, Amount(90), closed.Price)
}

func TestGatewayURL(t *testing.T) {
	assert.Equal(t, "https://ipfs.io/ipfs/bafy", GatewayURL("ipfs://bafy", "https://ipfs.io/ipfs/"))
	assert.Equal(t, "https://gw.example/ipfs/bafy", GatewayURL("ipfs://bafy", "https://gw.example/ipfs"))
	assert.Equal(t, "https://cdn.example/m.bin", GatewayURL("https://cdn.example/m.bin", "https://ipfs.io/ipfs/"))
	assert.Equal(t, "ipfs://bafy", GatewayURL("ipfs://bafy", ""))
	assert.Empty(t, GatewayURL("blake2b://abc", "https://ipfs.io/ipfs/"))
}

func TestNewModelMetadataDefaults(t *testing.T) {
	meta := NewModelMetadata("", "", "application/octet-stream", 12, IPFSURI("cid"))
	assert.Equal(t, defaultModelName, meta.Name)
	assert.Equal(t, defaultModelDescription, meta.Description)
	assert.Equal(t, "ipfs://cid", meta.Image)
	assert.Equal(t, 12, meta.Properties.FileSize)
}
