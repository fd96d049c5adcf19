package models

// SpendingInsights summarizes the spending history of one user.
type SpendingInsights struct {
	UserID             string             `json:"user_id"`
	TotalSpent         float64            `json:"total_spent"`
	ByCategory         map[string]float64 `json:"by_category"`
	RecurringMerchants []string           `json:"recurring_merchants"`
	Advice             string             `json:"advice"`
}
