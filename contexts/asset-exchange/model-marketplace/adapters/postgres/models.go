package postgresadapter

import (
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type tokenModel struct {
	TokenID    int64     `gorm:"column:token_id;primaryKey;autoIncrement:false"`
	Owner      string    `gorm:"column:owner;index"`
	ContentURI string    `gorm:"column:content_uri"`
	MintedAt   time.Time `gorm:"column:minted_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (tokenModel) TableName() string {
	return "model_tokens"
}

func tokenModelFromEntity(token entities.Token) tokenModel {
	return tokenModel{
		TokenID:    int64(token.TokenID),
		Owner:      token.Owner,
		ContentURI: token.ContentURI,
		MintedAt:   token.MintedAt.UTC(),
		UpdatedAt:  token.UpdatedAt.UTC(),
	}
}

type listingModel struct {
	TokenID   int64     `gorm:"column:token_id;primaryKey;autoIncrement:false"`
	Price     int64     `gorm:"column:price"`
	ForSale   bool      `gorm:"column:for_sale;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string {
	return "model_listings"
}

func listingModelFromEntity(listing entities.Listing) listingModel {
	return listingModel{
		TokenID:   int64(listing.TokenID),
		Price:     int64(listing.Price),
		ForSale:   listing.ForSale,
		UpdatedAt: listing.UpdatedAt.UTC(),
	}
}

type sequenceModel struct {
	Name   string `gorm:"column:name;primaryKey"`
	NextID int64  `gorm:"column:next_id"`
}

func (sequenceModel) TableName() string {
	return "model_token_sequence"
}

type balanceModel struct {
	Account   string    `gorm:"column:account;primaryKey"`
	Amount    int64     `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (balanceModel) TableName() string {
	return "model_balances"
}

type saleModel struct {
	ReceiptID   string    `gorm:"column:receipt_id;primaryKey"`
	TokenID     int64     `gorm:"column:token_id;index"`
	Buyer       string    `gorm:"column:buyer"`
	Seller      string    `gorm:"column:seller"`
	Price       int64     `gorm:"column:price"`
	AmountPaid  int64     `gorm:"column:amount_paid"`
	PurchasedAt time.Time `gorm:"column:purchased_at"`
}

func (saleModel) TableName() string {
	return "model_sales"
}

func saleModelFromEntity(receipt entities.Receipt) saleModel {
	return saleModel{
		ReceiptID:   receipt.ReceiptID,
		TokenID:     int64(receipt.TokenID),
		Buyer:       receipt.Buyer,
		Seller:      receipt.Seller,
		Price:       int64(receipt.Price),
		AmountPaid:  int64(receipt.AmountPaid),
		PurchasedAt: receipt.PurchasedAt.UTC(),
	}
}

func (m saleModel) toEntity() entities.Receipt {
	return entities.Receipt{
		ReceiptID:   m.ReceiptID,
		TokenID:     entities.TokenID(m.TokenID),
		Buyer:       m.Buyer,
		Seller:      m.Seller,
		Price:       entities.Amount(m.Price),
		AmountPaid:  entities.Amount(m.AmountPaid),
		PurchasedAt: m.PurchasedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "model_marketplace_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// snapshotRow is the scan target of the token/listing join.
type snapshotRow struct {
	TokenID          int64     `gorm:"column:token_id"`
	Owner            string    `gorm:"column:owner"`
	ContentURI       string    `gorm:"column:content_uri"`
	MintedAt         time.Time `gorm:"column:minted_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
	Price            int64     `gorm:"column:price"`
	ForSale          bool      `gorm:"column:for_sale"`
	ListingUpdatedAt time.Time `gorm:"column:listing_updated_at"`
}

func (r snapshotRow) toEntity() entities.Snapshot {
	tokenID := entities.TokenID(r.TokenID)
	return entities.Snapshot{
		Token: entities.Token{
			TokenID:    tokenID,
			Owner:      r.Owner,
			ContentURI: r.ContentURI,
			MintedAt:   r.MintedAt.UTC(),
			UpdatedAt:  r.UpdatedAt.UTC(),
		},
		Listing: entities.Listing{
			TokenID:   tokenID,
			Price:     entities.Amount(r.Price),
			ForSale:   r.ForSale,
			UpdatedAt: r.ListingUpdatedAt.UTC(),
		},
	}
}
