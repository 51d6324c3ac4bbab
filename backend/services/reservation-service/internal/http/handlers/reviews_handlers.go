package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/service"
)

// ReviewsHandlers lists and accepts station reviews.
type ReviewsHandlers struct {
	reviews *service.ReviewService
	logger  *zap.Logger
}

// NewReviewsHandlers returns handler.
func NewReviewsHandlers(reviews *service.ReviewService, logger *zap.Logger) *ReviewsHandlers {
	return &ReviewsHandlers{reviews: reviews, logger: logger}
}

// List handles GET /api/stations/{id}/reviews.
func (h *ReviewsHandlers) List(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reviews.Summary(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Create handles POST /api/stations/{id}/reviews.
func (h *ReviewsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var form service.ReviewForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviews.Add(r.Context(), actorID(r), r.PathValue("id"), form)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
