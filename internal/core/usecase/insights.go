package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"txwatch/internal/core/logger"
	"txwatch/internal/core/models"
	"txwatch/internal/core/repository"
)

// recurringVisits is the exclusive lower bound for a merchant to count
// as recurring: strictly more visits than this qualify.
const recurringVisits = 2

type InsightsUsecase interface {
	ForUser(ctx context.Context, userID string) (*models.SpendingInsights, error)
}

type insightsUsecase struct {
	repo repository.TransactionRepository
	log  logger.Logger
}

func NewInsightsUsecase(repo repository.TransactionRepository, log logger.Logger) InsightsUsecase {
	return &insightsUsecase{repo: repo, log: log}
}

// ForUser aggregates the user's whole history. An unknown user is not an
// error: the result is a zero-valued summary.
func (uc *insightsUsecase) ForUser(ctx context.Context, userID string) (*models.SpendingInsights, error) {
	txs, err := uc.repo.GetByUser(ctx, userID)
	if err != nil {
		uc.log.Error("Failed to load user history",
			logger.StringField("user_id", userID),
			logger.ErrorField("error", err),
		)
		return nil, fmt.Errorf("load history for user %s: %w", userID, err)
	}

	// Sums run on decimals so that accumulated cents survive the trip
	// through float64 amounts.
	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	visits := make(map[string]int)

	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		total = total.Add(amount)
		byCategory[tx.Category] = byCategory[tx.Category].Add(amount)
		visits[tx.Merchant]++
	}

	insights := &models.SpendingInsights{
		UserID:             userID,
		TotalSpent:         total.InexactFloat64(),
		ByCategory:         make(map[string]float64, len(byCategory)),
		RecurringMerchants: make([]string, 0),
		Advice:             advice(byCategory),
	}

	for category, amount := range byCategory {
		insights.ByCategory[category] = amount.InexactFloat64()
	}

	for merchant, count := range visits {
		if count > recurringVisits {
			insights.RecurringMerchants = append(insights.RecurringMerchants, merchant)
		}
	}
	sort.Strings(insights.RecurringMerchants)

	return insights, nil
}

// advice names the category carrying the most spend. Ties go to the
// lexicographically smallest name so the output is deterministic.
func advice(byCategory map[string]decimal.Decimal) string {
	if len(byCategory) == 0 {
		return "No spending recorded yet. Log a few transactions to unlock insights."
	}

	top := ""
	topAmount := decimal.Zero
	for category, amount := range byCategory {
		if top == "" || amount.GreaterThan(topAmount) || (amount.Equal(topAmount) && category < top) {
			top = category
			topAmount = amount
		}
	}

	return fmt.Sprintf("You spend the most on %s. Consider setting a monthly %s budget.", top, top)
}
