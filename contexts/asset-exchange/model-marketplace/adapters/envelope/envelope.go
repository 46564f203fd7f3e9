// Package envelope builds the outbox rows every ledger store writes next to
// its state changes, so all stores publish byte-compatible events.
package envelope

import (
	"encoding/json"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

const (
	sourceService    = "model-marketplace-service"
	schemaVersion    = 1
	partitionKeyPath = "token_id"
)

type mintedData struct {
	TokenID    string `json:"token_id"`
	Owner      string `json:"owner"`
	ContentURI string `json:"content_uri"`
}

type listedData struct {
	TokenID string `json:"token_id"`
	Seller  string `json:"seller"`
	Price   int64  `json:"price"`
}

type purchasedData struct {
	TokenID    string `json:"token_id"`
	ReceiptID  string `json:"receipt_id"`
	Buyer      string `json:"buyer"`
	Seller     string `json:"seller"`
	Price      int64  `json:"price"`
	AmountPaid int64  `json:"amount_paid"`
}

func Minted(eventID string, token entities.Token) (ports.OutboxMessage, error) {
	return build(eventID, ports.EventTypeTokenMinted, token.TokenID, token.MintedAt, mintedData{
		TokenID:    token.TokenID.String(),
		Owner:      token.Owner,
		ContentURI: token.ContentURI,
	})
}

func Listed(eventID string, seller string, listing entities.Listing) (ports.OutboxMessage, error) {
	return build(eventID, ports.EventTypeTokenListed, listing.TokenID, listing.UpdatedAt, listedData{
		TokenID: listing.TokenID.String(),
		Seller:  seller,
		Price:   int64(listing.Price),
	})
}

func Purchased(eventID string, receipt entities.Receipt) (ports.OutboxMessage, error) {
	return build(eventID, ports.EventTypeTokenPurchased, receipt.TokenID, receipt.PurchasedAt, purchasedData{
		TokenID:    receipt.TokenID.String(),
		ReceiptID:  receipt.ReceiptID,
		Buyer:      receipt.Buyer,
		Seller:     receipt.Seller,
		Price:      int64(receipt.Price),
		AmountPaid: int64(receipt.AmountPaid),
	})
}

func build(
	eventID string,
	eventType string,
	tokenID entities.TokenID,
	occurredAt time.Time,
	data any,
) (ports.OutboxMessage, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	payload, err := json.Marshal(ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    schemaVersion,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     tokenID.String(),
		Data:             raw,
	})
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		OutboxID:     eventID,
		EventType:    eventType,
		PartitionKey: tokenID.String(),
		Payload:      payload,
		CreatedAt:    occurredAt.UTC(),
	}, nil
}
