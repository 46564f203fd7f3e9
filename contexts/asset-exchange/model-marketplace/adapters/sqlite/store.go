// Package sqlite persists the token registry and marketplace ledger in a
// single SQLite file for CLI and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"aimarket/contexts/asset-exchange/model-marketplace/adapters/envelope"
	"aimarket/contexts/asset-exchange/model-marketplace/adapters/sqlite/migrations"
	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/services"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
	"aimarket/internal/platform/storage/sqlitemigrate"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// Store expects a handle opened with immediate transactions (see
// db.OpenSQLite): writers serialize at BEGIN, so the id counter, listing
// checks and balance credits never race.
type Store struct {
	sqlDB  *sql.DB
	logger *slog.Logger
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// New applies the ledger migrations to sqlDB and returns a store over it.
// The caller owns sqlDB and closes it.
func New(ctx context.Context, sqlDB *sql.DB, logger *slog.Logger) (*Store, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sqlite db is required")
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, "."); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, logger: application.ResolveLogger(logger)}, nil
}

func (s *Store) MintToken(ctx context.Context, input ports.MintTokenInput) (entities.Token, error) {
	var minted entities.Token
	err := s.withTx(ctx, "mint token", func(tx *sql.Tx) error {
		// Tokens are never deleted, so the row count is the next dense id.
		var count int64
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM model_tokens").Scan(&count); err != nil {
			return err
		}
		token, err := entities.NewToken(entities.TokenID(count), input.Owner, input.ContentURI, input.MintedAt)
		if err != nil {
			return err
		}
		message, err := envelope.Minted(input.EventID, token)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_tokens (token_id, owner, content_uri, minted_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			int64(token.TokenID), token.Owner, token.ContentURI, toMillis(token.MintedAt), toMillis(token.UpdatedAt),
		); err != nil {
			return classifyWriteError(err)
		}
		listing := entities.NewListing(token.TokenID, input.MintedAt)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_listings (token_id, price, for_sale, updated_at) VALUES (?, ?, ?, ?)`,
			int64(listing.TokenID), int64(listing.Price), listing.ForSale, toMillis(listing.UpdatedAt),
		); err != nil {
			return classifyWriteError(err)
		}
		if err := insertOutbox(ctx, tx, message); err != nil {
			return err
		}
		minted = token
		return nil
	})
	if err != nil {
		return entities.Token{}, err
	}
	return minted, nil
}

func (s *Store) GetToken(ctx context.Context, tokenID entities.TokenID) (entities.Snapshot, error) {
	return getSnapshot(ctx, s.sqlDB, tokenID)
}

func (s *Store) CountTokens(ctx context.Context) (uint64, error) {
	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM model_tokens").Scan(&count); err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return uint64(count), nil
}

func (s *Store) ListTokens(ctx context.Context, filter ports.TokenListFilter) ([]entities.Snapshot, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := snapshotSelect + " WHERE t.token_id >= ?"
	args := []any{int64(ports.DecodeTokenCursor(filter.Cursor))}
	if filter.Owner != "" {
		query += " AND t.owner = ?"
		args = append(args, filter.Owner)
	}
	if filter.ForSale != nil {
		query += " AND l.for_sale = ?"
		args = append(args, *filter.ForSale)
	}
	query += " ORDER BY t.token_id ASC LIMIT ?"
	args = append(args, limit+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	items := make([]entities.Snapshot, 0, limit)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan token: %w", err)
		}
		items = append(items, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("list tokens: %w", err)
	}

	nextCursor := ""
	if len(items) > limit {
		nextCursor = ports.EncodeTokenCursor(items[limit].Token.TokenID)
		items = items[:limit]
	}
	return items, nextCursor, nil
}

func (s *Store) ListToken(ctx context.Context, input ports.ListTokenInput) (entities.Listing, error) {
	var listed entities.Listing
	err := s.withTx(ctx, "list token", func(tx *sql.Tx) error {
		snapshot, err := getSnapshot(ctx, tx, input.TokenID)
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
		if err := updateListing(ctx, tx, listing); err != nil {
			return err
		}
		if err := insertOutbox(ctx, tx, message); err != nil {
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

func (s *Store) BuyToken(ctx context.Context, input ports.BuyTokenInput) (entities.Receipt, error) {
	var receipt entities.Receipt
	err := s.withTx(ctx, "buy token", func(tx *sql.Tx) error {
		snapshot, err := getSnapshot(ctx, tx, input.TokenID)
		if err != nil {
			return err
		}
		var sellerBalance int64
		err = tx.QueryRowContext(ctx,
			"SELECT amount FROM model_balances WHERE account = ?", snapshot.Token.Owner,
		).Scan(&sellerBalance)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		settlement, err := services.SettlePurchase(
			snapshot,
			input.Buyer,
			input.Payment,
			entities.Amount(sellerBalance),
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

		if _, err := tx.ExecContext(ctx, `
INSERT INTO model_balances (account, amount, updated_at) VALUES (?, ?, ?)
ON CONFLICT (account) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
			settlement.Receipt.Seller, int64(settlement.SellerBalance), toMillis(input.PurchasedAt),
		); err != nil {
			return err
		}
		if err := transferOwner(ctx, tx, settlement.Token); err != nil {
			return err
		}
		if err := updateListing(ctx, tx, settlement.Listing); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO model_sales (receipt_id, token_id, buyer, seller, price, amount_paid, purchased_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			settlement.Receipt.ReceiptID,
			int64(settlement.Receipt.TokenID),
			settlement.Receipt.Buyer,
			settlement.Receipt.Seller,
			int64(settlement.Receipt.Price),
			int64(settlement.Receipt.AmountPaid),
			toMillis(settlement.Receipt.PurchasedAt),
		); err != nil {
			return classifyWriteError(err)
		}
		if err := insertOutbox(ctx, tx, message); err != nil {
			return err
		}
		receipt = settlement.Receipt
		return nil
	})
	if err != nil {
		return entities.Receipt{}, err
	}

	s.logger.Debug("purchase settled in sqlite",
		"event", "sqlite_buy_token",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"token_id", receipt.TokenID.String(),
		"receipt_id", receipt.ReceiptID,
	)
	return receipt, nil
}

func (s *Store) GetBalance(ctx context.Context, account string) (entities.Amount, error) {
	var amount int64
	err := s.sqlDB.QueryRowContext(ctx, "SELECT amount FROM model_balances WHERE account = ?", account).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return entities.Amount(amount), nil
}

func (s *Store) ListSales(ctx context.Context, tokenID entities.TokenID) ([]entities.Receipt, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT receipt_id, token_id, buyer, seller, price, amount_paid, purchased_at
FROM model_sales WHERE token_id = ?
ORDER BY purchased_at DESC, rowid DESC`, int64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	items := make([]entities.Receipt, 0)
	for rows.Next() {
		var (
			receipt     entities.Receipt
			id          int64
			price, paid int64
			purchasedAt int64
		)
		if err := rows.Scan(&receipt.ReceiptID, &id, &receipt.Buyer, &receipt.Seller, &price, &paid, &purchasedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		receipt.TokenID = entities.TokenID(id)
		receipt.Price = entities.Amount(price)
		receipt.AmountPaid = entities.Amount(paid)
		receipt.PurchasedAt = fromMillis(purchasedAt)
		items = append(items, receipt)
	}
	return items, rows.Err()
}

func (s *Store) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT outbox_id, event_type, partition_key, payload, created_at
FROM model_marketplace_outbox WHERE status = ?
ORDER BY created_at ASC, rowid ASC LIMIT ?`, outboxStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox: %w", err)
	}
	defer rows.Close()

	items := make([]ports.OutboxMessage, 0, limit)
	for rows.Next() {
		var (
			message   ports.OutboxMessage
			createdAt int64
		)
		if err := rows.Scan(&message.OutboxID, &message.EventType, &message.PartitionKey, &message.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		message.CreatedAt = fromMillis(createdAt)
		items = append(items, message)
	}
	return items, rows.Err()
}

func (s *Store) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result, err := s.sqlDB.ExecContext(ctx,
		"UPDATE model_marketplace_outbox SET status = ?, sent_at = ? WHERE outbox_id = ?",
		outboxStatusSent, toMillis(sentAt), outboxID,
	)
	if err != nil {
		return fmt.Errorf("mark outbox sent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", operation, err)
	}
	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback %s: %v", err, operation, rollbackErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", operation, err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const snapshotSelect = `
SELECT t.token_id, t.owner, t.content_uri, t.minted_at, t.updated_at, l.price, l.for_sale, l.updated_at
FROM model_tokens AS t JOIN model_listings AS l ON l.token_id = t.token_id`

func getSnapshot(ctx context.Context, q queryer, tokenID entities.TokenID) (entities.Snapshot, error) {
	snapshot, err := scanSnapshot(q.QueryRowContext(ctx, snapshotSelect+" WHERE t.token_id = ?", int64(tokenID)))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Snapshot{}, domainerrors.ErrTokenNotFound
	}
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("get token: %w", err)
	}
	return snapshot, nil
}

func scanSnapshot(row rowScanner) (entities.Snapshot, error) {
	var (
		id                  int64
		owner, contentURI   string
		mintedAt, updatedAt int64
		price               int64
		forSale             bool
		listingUpdatedAt    int64
	)
	if err := row.Scan(&id, &owner, &contentURI, &mintedAt, &updatedAt, &price, &forSale, &listingUpdatedAt); err != nil {
		return entities.Snapshot{}, err
	}
	tokenID := entities.TokenID(id)
	return entities.Snapshot{
		Token: entities.Token{
			TokenID:    tokenID,
			Owner:      owner,
			ContentURI: contentURI,
			MintedAt:   fromMillis(mintedAt),
			UpdatedAt:  fromMillis(updatedAt),
		},
		Listing: entities.Listing{
			TokenID:   tokenID,
			Price:     entities.Amount(price),
			ForSale:   forSale,
			UpdatedAt: fromMillis(listingUpdatedAt),
		},
	}, nil
}

func transferOwner(ctx context.Context, tx *sql.Tx, token entities.Token) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE model_tokens SET owner = ?, updated_at = ? WHERE token_id = ?",
		token.Owner, toMillis(token.UpdatedAt), int64(token.TokenID),
	)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return domainerrors.ErrTokenNotFound
	}
	return nil
}

func updateListing(ctx context.Context, tx *sql.Tx, listing entities.Listing) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE model_listings SET price = ?, for_sale = ?, updated_at = ? WHERE token_id = ?",
		int64(listing.Price), listing.ForSale, toMillis(listing.UpdatedAt), int64(listing.TokenID),
	)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func insertOutbox(ctx context.Context, tx *sql.Tx, message ports.OutboxMessage) error {
	if _, err := tx.ExecContext(ctx, `
INSERT INTO model_marketplace_outbox (outbox_id, event_type, partition_key, payload, status, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		message.OutboxID,
		message.EventType,
		message.PartitionKey,
		message.Payload,
		outboxStatusPending,
		toMillis(message.CreatedAt),
	); err != nil {
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
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

var (
	_ ports.TokenRegistry     = (*Store)(nil)
	_ ports.MarketplaceLedger = (*Store)(nil)
	_ ports.OutboxRepository  = (*Store)(nil)
)
