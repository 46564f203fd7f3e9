package ports

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
)

// DecodeTokenCursor returns the first token id of the requested page.
// Malformed cursors, and ids no store can hold, restart from the beginning.
func DecodeTokenCursor(cursor string) entities.TokenID {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	value, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || value > math.MaxInt64 {
		return 0
	}
	return entities.TokenID(value)
}

func EncodeTokenCursor(next entities.TokenID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(next.String()))
}
