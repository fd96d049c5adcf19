package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"txwatch/internal/core/fraud"
	"txwatch/internal/core/models"
	"txwatch/internal/core/repository"
	"txwatch/internal/core/simulator"
	"txwatch/internal/core/usecase"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []models.Transaction
}

func (f *fakeDispatcher) Dispatch(tx models.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tx)
}

func (f *fakeDispatcher) snapshot() []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Transaction(nil), f.calls...)
}

func newTransactionUsecase() (usecase.TransactionUsecase, *repository.Memory, *fakeDispatcher) {
	repo := repository.NewMemory()
	dispatcher := &fakeDispatcher{}
	uc := usecase.NewTransactionUsecase(repo, dispatcher, simulator.New(1), zap.NewNop())
	return uc, repo, dispatcher
}

func TestSubmitAssignsIDAndComputesFlag(t *testing.T) {
	uc, repo, dispatcher := newTransactionUsecase()

	stored, err := uc.Submit(context.Background(), models.Transaction{
		UserID:   "42",
		Amount:   100,
		Currency: "ZAR",
		Merchant: "Checkers",
		Location: "Cape Town",
		Category: "Groceries",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.IsFraud)
	assert.Empty(t, dispatcher.snapshot())

	persisted, err := repo.GetByID(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, *stored, *persisted)
}

func TestSubmitKeepsClientSuppliedID(t *testing.T) {
	uc, _, _ := newTransactionUsecase()

	stored, err := uc.Submit(context.Background(), models.Transaction{
		ID:       "client-1",
		UserID:   "42",
		Amount:   10,
		Location: "Durban",
	})
	require.NoError(t, err)
	assert.Equal(t, "client-1", stored.ID)
}

func TestSubmitOverridesClientFlag(t *testing.T) {
	uc, _, dispatcher := newTransactionUsecase()

	stored, err := uc.Submit(context.Background(), models.Transaction{
		UserID:   "42",
		Amount:   100,
		Location: "Cape Town",
		IsFraud:  true,
	})
	require.NoError(t, err)

	assert.False(t, stored.IsFraud)
	assert.Empty(t, dispatcher.snapshot())
}

func TestSubmitFlagsAndDispatchesAlert(t *testing.T) {
	uc, _, dispatcher := newTransactionUsecase()

	stored, err := uc.Submit(context.Background(), models.Transaction{
		UserID:   "42",
		Amount:   10000.01,
		Location: "Cape Town",
	})
	require.NoError(t, err)
	assert.True(t, stored.IsFraud)

	calls := dispatcher.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, stored.ID, calls[0].ID)
	assert.True(t, calls[0].IsFraud)
}

func TestSubmitDuplicateIDRejected(t *testing.T) {
	uc, _, _ := newTransactionUsecase()
	ctx := context.Background()

	_, err := uc.Submit(ctx, models.Transaction{ID: "tx-1", UserID: "42", Amount: 10, Location: "Durban"})
	require.NoError(t, err)

	_, err = uc.Submit(ctx, models.Transaction{ID: "tx-1", UserID: "7", Amount: 20, Location: "Durban"})
	require.ErrorIs(t, err, usecase.ErrDuplicateID)
}

func TestGetNotFound(t *testing.T) {
	uc, _, _ := newTransactionUsecase()

	_, err := uc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestListReturnsInsertionOrder(t *testing.T) {
	uc, _, _ := newTransactionUsecase()
	ctx := context.Background()

	for _, id := range []string{"tx-c", "tx-a", "tx-b"} {
		_, err := uc.Submit(ctx, models.Transaction{ID: id, UserID: "42", Amount: 10, Location: "Durban"})
		require.NoError(t, err)
	}

	all, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "tx-c", all[0].ID)
	assert.Equal(t, "tx-a", all[1].ID)
	assert.Equal(t, "tx-b", all[2].ID)
}

func TestSimulatePersistsWithoutAlerts(t *testing.T) {
	uc, repo, dispatcher := newTransactionUsecase()
	ctx := context.Background()

	n, err := uc.Simulate(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 25)

	for _, tx := range all {
		assert.NotEmpty(t, tx.ID)
		assert.Equal(t, fraud.Evaluate(tx), tx.IsFraud)
	}

	// Simulated data never triggers notifications.
	assert.Empty(t, dispatcher.snapshot())
}

func TestSimulateZero(t *testing.T) {
	uc, repo, _ := newTransactionUsecase()

	n, err := uc.Simulate(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
