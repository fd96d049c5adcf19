package fraud

import "txwatch/internal/core/models"

// AmountThreshold is the largest amount that passes unflagged.
// Strictly greater values mark the transaction as suspicious.
const AmountThreshold = 10000.0

var allowedLocations = map[string]struct{}{
	"Cape Town":    {},
	"Johannesburg": {},
	"Durban":       {},
}

// LocationAllowed reports whether location is on the trusted list.
// Matching is exact and case-sensitive.
func LocationAllowed(location string) bool {
	_, ok := allowedLocations[location]
	return ok
}

// Evaluate applies the flagging rule to a single transaction,
// independent of any other stored data.
func Evaluate(tx models.Transaction) bool {
	if tx.Amount > AmountThreshold {
		return true
	}
	return !LocationAllowed(tx.Location)
}
