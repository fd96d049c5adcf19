package repository

import (
	"context"
	"errors"

	"txwatch/internal/core/models"
)

var (
	// ErrNotFound is returned when no transaction carries the requested id.
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicateID is returned when a save collides with a stored id.
	ErrDuplicateID = errors.New("transaction id already exists")
)

// TransactionRepository is an append-only store of transactions.
// Implementations never expose an update or delete operation.
type TransactionRepository interface {
	Save(ctx context.Context, tx models.Transaction) error
	GetAll(ctx context.Context) ([]models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetByUser(ctx context.Context, userID string) ([]models.Transaction, error)
}
