package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"txwatch/internal/core/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log logger.Logger
}

func NewHealthHandler(db Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:  db,
		log: log,
	}
}

func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error("Health check failed", logger.ErrorField("error", err))
		respondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
