package repository

import (
	"context"
	"sync"

	"txwatch/internal/core/models"
)

// Memory is a mutex-guarded in-process TransactionRepository that
// preserves insertion order. It backs the unit tests; the service
// itself runs on the SQL store.
type Memory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.Transaction
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]models.Transaction)}
}

func (m *Memory) Save(ctx context.Context, tx models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[tx.ID]; exists {
		return ErrDuplicateID
	}
	m.byID[tx.ID] = tx
	m.order = append(m.order, tx.ID)
	return nil
}

func (m *Memory) GetAll(ctx context.Context) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Transaction, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &tx, nil
}

func (m *Memory) GetByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Transaction, 0)
	for _, id := range m.order {
		if tx := m.byID[id]; tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}
