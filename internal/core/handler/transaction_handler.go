package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"txwatch/internal/core/logger"
	"txwatch/internal/core/models"
	"txwatch/internal/core/usecase"
)

const maxBodyBytes = 1 << 20

// timestampLayouts lists the accepted timestamp formats. Zone-less values
// are interpreted as UTC.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// TransactionHandler serves the transaction log endpoints.
type TransactionHandler struct {
	usecase usecase.TransactionUsecase
	log     logger.Logger
}

func NewTransactionHandler(usecase usecase.TransactionUsecase, log logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		usecase: usecase,
		log:     log,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.Submit).Methods("POST")
	router.HandleFunc("/transactions", h.List).Methods("GET")
	router.HandleFunc("/transactions/{id}", h.GetByID).Methods("GET")
	router.HandleFunc("/simulate", h.Simulate).Methods("POST")
}

// ValidationError describes a request that decoded fine but failed a
// shape check. Fields carry structured context for the log line.
type ValidationError struct {
	Message string
	Fields  []logger.Field
}

// transactionRequest mirrors the wire payload. Pointer fields make a
// missing key distinguishable from a zero value. A client-supplied
// is_fraud key is accepted and silently discarded.
type transactionRequest struct {
	ID        string   `json:"id"`
	UserID    *string  `json:"user_id"`
	Amount    *float64 `json:"amount"`
	Currency  *string  `json:"currency"`
	Timestamp *string  `json:"timestamp"`
	Merchant  *string  `json:"merchant"`
	Location  *string  `json:"location"`
	Category  *string  `json:"category"`
}

func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, validationErr := h.buildTransaction(req)
	if validationErr != nil {
		h.log.Warn(validationErr.Message, validationErr.Fields...)
		respondWithError(w, http.StatusUnprocessableEntity, validationErr.Message)
		return
	}

	stored, err := h.usecase.Submit(r.Context(), *tx)
	if err != nil {
		h.handleSubmitError(w, tx, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stored)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.usecase.List(r.Context())
	if err != nil {
		h.log.Error("Failed to list transactions", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	respondWithJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	transaction, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error("Failed to get transaction",
			logger.StringField("id", id),
			logger.ErrorField("error", err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to get transaction")
		return
	}

	respondWithJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	count := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.log.Warn("Invalid simulation count", logger.StringField("n", raw))
			respondWithError(w, http.StatusUnprocessableEntity, "n must be a non-negative integer")
			return
		}
		count = parsed
	}

	simulated, err := h.usecase.Simulate(r.Context(), count)
	if err != nil {
		h.log.Error("Simulation failed", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Simulation failed")
		return
	}

	respondWithJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("%d transactions simulated.", simulated),
	})
}

func (h *TransactionHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*transactionRequest, error) {
	var req transactionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode request body", logger.ErrorField("error", err))
		return nil, fmt.Errorf("invalid request payload")
	}
	defer r.Body.Close()

	return &req, nil
}

// buildTransaction performs shape validation only. Business rules such as
// fraud evaluation stay in the usecase.
func (h *TransactionHandler) buildTransaction(req *transactionRequest) (*models.Transaction, *ValidationError) {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"user_id", req.UserID},
		{"currency", req.Currency},
		{"timestamp", req.Timestamp},
		{"merchant", req.Merchant},
		{"location", req.Location},
		{"category", req.Category},
	} {
		if field.value == nil || *field.value == "" {
			return nil, requiredField(field.name)
		}
	}

	if req.Amount == nil {
		return nil, requiredField("amount")
	}
	if *req.Amount < 0 {
		return nil, &ValidationError{
			Message: "amount must not be negative",
			Fields:  []logger.Field{logger.Float64Field("amount", *req.Amount)},
		}
	}

	timestamp, err := parseTimestamp(*req.Timestamp)
	if err != nil {
		return nil, &ValidationError{
			Message: "timestamp is not a valid ISO-8601 date-time",
			Fields: []logger.Field{
				logger.StringField("timestamp", *req.Timestamp),
				logger.ErrorField("error", err),
			},
		}
	}

	return &models.Transaction{
		ID:        req.ID,
		UserID:    *req.UserID,
		Amount:    *req.Amount,
		Currency:  *req.Currency,
		Timestamp: timestamp,
		Merchant:  *req.Merchant,
		Location:  *req.Location,
		Category:  *req.Category,
	}, nil
}

func (h *TransactionHandler) handleSubmitError(w http.ResponseWriter, tx *models.Transaction, err error) {
	switch {
	case errors.Is(err, usecase.ErrDuplicateID):
		h.log.Warn("Duplicate transaction id", logger.StringField("id", tx.ID))
		respondWithError(w, http.StatusConflict, "Transaction id already exists")
	default:
		h.log.Error("Failed to store transaction",
			logger.StringField("id", tx.ID),
			logger.StringField("user_id", tx.UserID),
			logger.ErrorField("error", err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to store transaction")
	}
}

func requiredField(name string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("%s is required", name),
		Fields:  []logger.Field{logger.StringField("field", name)},
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
