package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"txwatch/internal/core/logger"
	"txwatch/internal/core/models"
	"txwatch/internal/core/repository"
)

// transactionStore persists transactions through database/sql. Queries are
// written with `?` placeholders and rebound per driver, so the same store
// runs on the embedded sqlite3 file as well as on postgres.
type transactionStore struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewTransactionStore(db *sqlx.DB, log logger.Logger) (repository.TransactionRepository, error) {
	store := &transactionStore{db: db, log: log}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migrate transactions schema: %w", err)
	}
	return store, nil
}

func (s *transactionStore) migrate() error {
	// sqlite needs a column type it recognizes as a time for round-tripping,
	// postgres needs the zone kept.
	timestampType := "TIMESTAMP"
	if s.db.DriverName() == "postgres" {
		timestampType = "TIMESTAMPTZ"
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			timestamp %s NOT NULL,
			merchant TEXT NOT NULL,
			location TEXT NOT NULL,
			category TEXT NOT NULL,
			is_fraud BOOLEAN NOT NULL,
			created_at %s NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
	`, timestampType, timestampType)

	_, err := s.db.Exec(schema)
	return err
}

func (s *transactionStore) Save(ctx context.Context, tx models.Transaction) error {
	query := s.db.Rebind(`INSERT INTO transactions
		(id, user_id, amount, currency, timestamp, merchant, location, category, is_fraud, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Amount,
		tx.Currency,
		tx.Timestamp,
		tx.Merchant,
		tx.Location,
		tx.Category,
		tx.IsFraud,
		time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateID, tx.ID)
		}
		s.log.Error("Failed to save transaction",
			logger.StringField("id", tx.ID),
			logger.ErrorField("error", err),
		)
		return fmt.Errorf("save transaction: %w", err)
	}

	return nil
}

func (s *transactionStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0)
	query := `SELECT id, user_id, amount, currency, timestamp, merchant, location, category, is_fraud
		FROM transactions
		ORDER BY created_at, id`

	if err := s.db.SelectContext(ctx, &txs, query); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txs, nil
}

func (s *transactionStore) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	query := s.db.Rebind(`SELECT id, user_id, amount, currency, timestamp, merchant, location, category, is_fraud
		FROM transactions
		WHERE id = ?`)

	if err := s.db.GetContext(ctx, &tx, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return &tx, nil
}

func (s *transactionStore) GetByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0)
	query := s.db.Rebind(`SELECT id, user_id, amount, currency, timestamp, merchant, location, category, is_fraud
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at, id`)

	if err := s.db.SelectContext(ctx, &txs, query, userID); err != nil {
		return nil, fmt.Errorf("list transactions for user %s: %w", userID, err)
	}

	return txs, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
