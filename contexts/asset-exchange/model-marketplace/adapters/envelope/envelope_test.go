package envelope

import (
	"encoding/json"
	"testing"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchasedEnvelope(t *testing.T) {
	at := time.Date(2026, time.April, 9, 8, 7, 6, 0, time.UTC)
	message, err := Purchased("evt-9", entities.Receipt{
		ReceiptID:   "r-9",
		TokenID:     12,
		Buyer:       "bob",
		Seller:      "alice",
		Price:       100,
		AmountPaid:  120,
		PurchasedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-9", message.OutboxID)
	assert.Equal(t, ports.EventTypeTokenPurchased, message.EventType)
	assert.Equal(t, "12", message.PartitionKey)

	var envelope ports.EventEnvelope
	require.NoError(t, json.Unmarshal(message.Payload, &envelope))
	assert.Equal(t, "model-marketplace-service", envelope.SourceService)
	assert.Equal(t, "token_id", envelope.PartitionKeyPath)
	assert.True(t, envelope.OccurredAt.Equal(at))

	var data map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "12", data["token_id"])
	assert.Equal(t, "bob", data["buyer"])
	assert.EqualValues(t, 120, data["amount_paid"])
}

func TestListedEnvelopeCarriesSeller(t *testing.T) {
	message, err := Listed("evt-2", "alice", entities.Listing{TokenID: 3, Price: 50, ForSale: true, UpdatedAt: time.Now()})
	require.NoError(t, err)

	var envelope ports.EventEnvelope
	require.NoError(t, json.Unmarshal(message.Payload, &envelope))
	assert.JSONEq(t, `{"token_id":"3","seller":"alice","price":50}`, string(envelope.Data))
}
