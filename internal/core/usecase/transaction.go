package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"txwatch/internal/core/fraud"
	"txwatch/internal/core/logger"
	"txwatch/internal/core/models"
	"txwatch/internal/core/repository"
	"txwatch/internal/core/simulator"
)

// AlertDispatcher receives transactions the fraud rule flagged, after
// they are persisted. Implementations must not block.
type AlertDispatcher interface {
	Dispatch(tx models.Transaction)
}

type TransactionUsecase interface {
	Submit(ctx context.Context, tx models.Transaction) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Simulate(ctx context.Context, n int) (int, error)
}

type transactionUsecase struct {
	repo       repository.TransactionRepository
	dispatcher AlertDispatcher
	sim        *simulator.Simulator
	log        logger.Logger
}

func NewTransactionUsecase(repo repository.TransactionRepository, dispatcher AlertDispatcher, sim *simulator.Simulator, log logger.Logger) TransactionUsecase {
	return &transactionUsecase{
		repo:       repo,
		dispatcher: dispatcher,
		sim:        sim,
		log:        log,
	}
}

func (uc *transactionUsecase) Submit(ctx context.Context, tx models.Transaction) (*models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	// The stored flag comes from the rule alone; any client value is discarded.
	tx.IsFraud = fraud.Evaluate(tx)

	if err := uc.repo.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	uc.log.Info("Transaction recorded",
		logger.StringField("id", tx.ID),
		logger.StringField("user_id", tx.UserID),
		logger.Float64Field("amount", tx.Amount),
		logger.BoolField("is_fraud", tx.IsFraud),
	)

	if tx.IsFraud {
		uc.dispatcher.Dispatch(tx)
	}

	return &tx, nil
}

func (uc *transactionUsecase) List(ctx context.Context) ([]models.Transaction, error) {
	txs, err := uc.repo.GetAll(ctx)
	if err != nil {
		uc.log.Error("Failed to list transactions", logger.ErrorField("error", err))
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (uc *transactionUsecase) Get(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// Simulate generates and stores n synthetic transactions. Each one goes
// through the usual flagging rule, but no alerts are dispatched for
// simulated data.
func (uc *transactionUsecase) Simulate(ctx context.Context, n int) (int, error) {
	stored := 0
	for _, tx := range uc.sim.Generate(n) {
		tx.ID = uuid.NewString()
		tx.IsFraud = fraud.Evaluate(tx)
		if err := uc.repo.Save(ctx, tx); err != nil {
			return stored, fmt.Errorf("save simulated transaction: %w", err)
		}
		stored++
	}

	uc.log.Info("Simulation finished", logger.IntField("count", stored))
	return stored, nil
}
