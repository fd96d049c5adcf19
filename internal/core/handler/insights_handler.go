package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"txwatch/internal/core/logger"
	"txwatch/internal/core/usecase"
)

// InsightsHandler serves aggregated spending summaries.
type InsightsHandler struct {
	usecase usecase.InsightsUsecase
	log     logger.Logger
}

func NewInsightsHandler(usecase usecase.InsightsUsecase, log logger.Logger) *InsightsHandler {
	return &InsightsHandler{
		usecase: usecase,
		log:     log,
	}
}

func (h *InsightsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/insights/{user_id}", h.ForUser).Methods("GET")
}

func (h *InsightsHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	insights, err := h.usecase.ForUser(r.Context(), userID)
	if err != nil {
		h.log.Error("Failed to compute insights",
			logger.StringField("user_id", userID),
			logger.ErrorField("error", err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute insights")
		return
	}

	respondWithJSON(w, http.StatusOK, insights)
}
