package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/adapters/envelope"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/services"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"

	tokenSequenceName = "model_tokens"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the marketplace tables and seeds the id counter.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(
		&tokenModel{},
		&listingModel{},
		&sequenceModel{},
		&balanceModel{},
		&saleModel{},
		&outboxModel{},
	); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sequenceModel{Name: tokenSequenceName, NextID: 0}).
		Error
}

func (r *Repository) MintToken(ctx context.Context, input ports.MintTokenInput) (entities.Token, error) {
	var minted entities.Token
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&sequenceModel{Name: tokenSequenceName, NextID: 0}).
			Error; err != nil {
			return err
		}

		// The counter row lock serializes mints; a database SEQUENCE would leave
		// gaps on rollback and break id density.
		var sequence sequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", tokenSequenceName).
			First(&sequence).
			Error; err != nil {
			return err
		}

		token, err := entities.NewToken(entities.TokenID(sequence.NextID), input.Owner, input.ContentURI, input.MintedAt)
		if err != nil {
			return err
		}
		message, err := envelope.Minted(input.EventID, token)
		if err != nil {
			return err
		}

		tokenRow := tokenModelFromEntity(token)
		if err := tx.Create(&tokenRow).Error; err != nil {
			return classifyWriteError(err)
		}
		listingRow := listingModelFromEntity(entities.NewListing(token.TokenID, input.MintedAt))
		if err := tx.Create(&listingRow).Error; err != nil {
			return classifyWriteError(err)
		}
		if err := tx.Model(&sequenceModel{}).
			Where("name = ?", tokenSequenceName).
			Update("next_id", sequence.NextID+1).
			Error; err != nil {
			return err
		}
		if err := createOutbox(tx, message); err != nil {
			return err
		}
		minted = token
		return nil
	})
	if err != nil {
		return entities.Token{}, err
	}

	r.logger.Debug("token minted in postgres",
		"event", "postgres_mint_token",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"token_id", minted.TokenID.String(),
	)
	return minted, nil
}

func (r *Repository) GetToken(ctx context.Context, tokenID entities.TokenID) (entities.Snapshot, error) {
	var row snapshotRow
	// One statement reads token and listing from the same snapshot.
	err := snapshotQuery(r.db.WithContext(ctx)).
		Where("t.token_id = ?", int64(tokenID)).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Snapshot{}, domainerrors.ErrTokenNotFound
		}
		return entities.Snapshot{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CountTokens(ctx context.Context) (uint64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&tokenModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (r *Repository) ListTokens(ctx context.Context, filter ports.TokenListFilter) ([]entities.Snapshot, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	tx := snapshotQuery(r.db.WithContext(ctx)).
		Where("t.token_id >= ?", int64(ports.DecodeTokenCursor(filter.Cursor)))
	if filter.Owner != "" {
		tx = tx.Where("t.owner = ?", filter.Owner)
	}
	if filter.ForSale != nil {
		tx = tx.Where("l.for_sale = ?", *filter.ForSale)
	}

	var rows []snapshotRow
	if err := tx.Order("t.token_id ASC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = ports.EncodeTokenCursor(entities.TokenID(rows[limit].TokenID))
		rows = rows[:limit]
	}
	items := make([]entities.Snapshot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

func (r *Repository) ListToken(ctx context.Context, input ports.ListTokenInput) (entities.Listing, error) {
	var listed entities.Listing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snapshot, err := lockSnapshot(tx, input.TokenID)
		if err != nil {
			return err
		}
		listing, err := services.ApplyListing(snapshot, input.Caller, input.Price, input.ListedAt)
		if err != nil {
			return err
		}
		message, err := envelope.Listed(input.EventID, snapshot.Token.Owner, listing)
		if err != nil {
			return err
		}
		if err := saveListing(tx, listing); err != nil {
			return err
		}
		if err := createOutbox(tx, message); err != nil {
			return err
		}
		listed = listing
		return nil
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return listed, nil
}

func (r *Repository) BuyToken(ctx context.Context, input ports.BuyTokenInput) (entities.Receipt, error) {
	var receipt entities.Receipt
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row locks on token and listing make a second concurrent buyer wait
		// here and then observe the closed listing.
		snapshot, err := lockSnapshot(tx, input.TokenID)
		if err != nil {
			return err
		}
		if err := services.EvaluatePurchase(
			snapshot,
			input.Buyer,
			input.Payment,
			services.PurchasePolicy{AllowSelfPurchase: input.AllowSelfPurchase},
		); err != nil {
			return err
		}

		sellerBalance, err := lockBalance(tx, snapshot.Token.Owner, input.PurchasedAt)
		if err != nil {
			return err
		}
		settlement, err := services.SettlePurchase(
			snapshot,
			input.Buyer,
			input.Payment,
			sellerBalance,
			input.ReceiptID,
			services.PurchasePolicy{AllowSelfPurchase: input.AllowSelfPurchase},
			input.PurchasedAt,
		)
		if err != nil {
			return err
		}
		message, err := envelope.Purchased(input.EventID, settlement.Receipt)
		if err != nil {
			return err
		}

		if err := tx.Model(&balanceModel{}).
			Where("account = ?", settlement.Receipt.Seller).
			Updates(map[string]any{
				"amount":     int64(settlement.SellerBalance),
				"updated_at": input.PurchasedAt.UTC(),
			}).Error; err != nil {
			return err
		}
		if err := transferOwner(tx, settlement.Token); err != nil {
			return err
		}
		if err := saveListing(tx, settlement.Listing); err != nil {
			return err
		}
		saleRow := saleModelFromEntity(settlement.Receipt)
		if err := tx.Create(&saleRow).Error; err != nil {
			return classifyWriteError(err)
		}
		if err := createOutbox(tx, message); err != nil {
			return err
		}
		receipt = settlement.Receipt
		return nil
	})
	if err != nil {
		return entities.Receipt{}, err
	}

	r.logger.Debug("purchase settled in postgres",
		"event", "postgres_buy_token",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"token_id", receipt.TokenID.String(),
		"receipt_id", receipt.ReceiptID,
	)
	return receipt, nil
}

func (r *Repository) GetBalance(ctx context.Context, account string) (entities.Amount, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entities.Amount(row.Amount), nil
}

func (r *Repository) ListSales(ctx context.Context, tokenID entities.TokenID) ([]entities.Receipt, error) {
	var rows []saleModel
	if err := r.db.WithContext(ctx).
		Where("token_id = ?", int64(tokenID)).
		Order("purchased_at DESC").
		Order("receipt_id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Receipt, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func snapshotQuery(db *gorm.DB) *gorm.DB {
	return db.Table("model_tokens AS t").
		Select("t.token_id, t.owner, t.content_uri, t.minted_at, t.updated_at, " +
			"l.price, l.for_sale, l.updated_at AS listing_updated_at").
		Joins("JOIN model_listings AS l ON l.token_id = t.token_id")
}

func lockSnapshot(tx *gorm.DB, tokenID entities.TokenID) (entities.Snapshot, error) {
	var row snapshotRow
	err := snapshotQuery(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("t.token_id = ?", int64(tokenID)).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Snapshot{}, domainerrors.ErrTokenNotFound
		}
		return entities.Snapshot{}, err
	}
	return row.toEntity(), nil
}

// lockBalance makes sure the seller row exists before locking it; locking a
// missing row would let two first-time credits overwrite each other.
func lockBalance(tx *gorm.DB, account string, at time.Time) (entities.Amount, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&balanceModel{Account: account, Amount: 0, UpdatedAt: at.UTC()}).
		Error; err != nil {
		return 0, err
	}
	var row balanceModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account = ?", account).
		First(&row).
		Error; err != nil {
		return 0, err
	}
	return entities.Amount(row.Amount), nil
}

// transferOwner is only called from BuyToken after the seller has been credited.
func transferOwner(tx *gorm.DB, token entities.Token) error {
	result := tx.Model(&tokenModel{}).
		Where("token_id = ?", int64(token.TokenID)).
		Updates(map[string]any{
			"owner":      token.Owner,
			"updated_at": token.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTokenNotFound
	}
	return nil
}

func saveListing(tx *gorm.DB, listing entities.Listing) error {
	result := tx.Model(&listingModel{}).
		Where("token_id = ?", int64(listing.TokenID)).
		Updates(map[string]any{
			"price":      int64(listing.Price),
			"for_sale":   listing.ForSale,
			"updated_at": listing.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func createOutbox(tx *gorm.DB, message ports.OutboxMessage) error {
	row := outboxModel{
		OutboxID:     message.OutboxID,
		EventType:    message.EventType,
		PartitionKey: message.PartitionKey,
		Payload:      message.Payload,
		Status:       outboxStatusPending,
		CreatedAt:    message.CreatedAt.UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		return classifyWriteError(err)
	}
	return nil
}

func classifyWriteError(err error) error {
	if isUniqueViolation(err) {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
