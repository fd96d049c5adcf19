package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"txwatch/internal/core/models"
)

func submitTransaction(t *testing.T, router *mux.Router, userID string, amount float64, merchant, category string) {
	t.Helper()

	payload := validPayload()
	payload["user_id"] = userID
	payload["amount"] = amount
	payload["merchant"] = merchant
	payload["category"] = category

	recorder := postJSON(t, router, "/transactions", payload)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestInsightsForUser(t *testing.T) {
	router := newTestRouter(t)

	submitTransaction(t, router, "42", 100, "Checkers", "Groceries")
	submitTransaction(t, router, "42", 200, "Checkers", "Groceries")
	submitTransaction(t, router, "42", 200, "Checkers", "Groceries")
	submitTransaction(t, router, "42", 50, "Uber", "Transport")
	submitTransaction(t, router, "other", 999, "Takealot", "Entertainment")

	recorder := doRequest(router, http.MethodGet, "/insights/42", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var insights models.SpendingInsights
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &insights))
	assert.Equal(t, "42", insights.UserID)
	assert.Equal(t, 550.0, insights.TotalSpent)
	assert.Equal(t, map[string]float64{"Groceries": 500, "Transport": 50}, insights.ByCategory)
	assert.Equal(t, []string{"Checkers"}, insights.RecurringMerchants)
	assert.Contains(t, insights.Advice, "Groceries")
}

func TestInsightsEmptyHistory(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/insights/nobody", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	// Empty collections serialize as [] and {}, never null.
	body := recorder.Body.String()
	assert.Contains(t, body, `"recurring_merchants":[]`)
	assert.Contains(t, body, `"by_category":{}`)

	var insights models.SpendingInsights
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &insights))
	assert.Equal(t, 0.0, insights.TotalSpent)
	assert.NotEmpty(t, insights.Advice)
}
