package simulator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"txwatch/internal/core/fraud"
	"txwatch/internal/core/simulator"
)

func TestGenerateCount(t *testing.T) {
	sim := simulator.New(1)

	txs := sim.Generate(5)
	require.Len(t, txs, 5)

	empty := sim.Generate(0)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGenerateFieldDomains(t *testing.T) {
	merchants := []string{"Checkers", "Woolworths", "Takealot", "Engen", "Uber", "Mr Price"}
	locations := []string{"Cape Town", "Johannesburg", "Durban", "Lagos"}
	categories := []string{"Groceries", "Transport", "Entertainment", "Utilities", "Clothing"}

	sim := simulator.New(42)
	for _, tx := range sim.Generate(200) {
		assert.Empty(t, tx.ID)
		assert.False(t, tx.IsFraud)
		assert.NotEmpty(t, tx.UserID)
		assert.GreaterOrEqual(t, tx.Amount, 10.0)
		assert.LessOrEqual(t, tx.Amount, 15000.0)
		assert.Equal(t, "ZAR", tx.Currency)
		assert.False(t, tx.Timestamp.IsZero())
		assert.Contains(t, merchants, tx.Merchant)
		assert.Contains(t, locations, tx.Location)
		assert.Contains(t, categories, tx.Category)
	}
}

func TestGenerateCoversUntrustedLocations(t *testing.T) {
	sim := simulator.New(7)

	seenUntrusted := false
	for _, tx := range sim.Generate(200) {
		if !fraud.LocationAllowed(tx.Location) {
			seenUntrusted = true
			break
		}
	}
	assert.True(t, seenUntrusted, "expected at least one location off the trusted list")
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a := simulator.New(99).Generate(10)
	b := simulator.New(99).Generate(10)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].UserID, b[i].UserID)
		assert.Equal(t, a[i].Amount, b[i].Amount)
		assert.Equal(t, a[i].Merchant, b[i].Merchant)
		assert.Equal(t, a[i].Location, b[i].Location)
		assert.Equal(t, a[i].Category, b[i].Category)
	}
}
