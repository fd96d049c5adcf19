package models

import "time"

// Transaction is a single spending record. Records are append-only:
// once stored they are never updated or deleted.
type Transaction struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Currency  string    `json:"currency" db:"currency"` // ISO 4217: "ZAR", "USD"
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Merchant  string    `json:"merchant" db:"merchant"`
	Location  string    `json:"location" db:"location"`
	Category  string    `json:"category" db:"category"`
	IsFraud   bool      `json:"is_fraud" db:"is_fraud"` // always recomputed on the server
}
