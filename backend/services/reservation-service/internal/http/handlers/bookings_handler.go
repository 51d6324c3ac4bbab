package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/service"
)

// BookingsHandler accepts booking submissions.
type BookingsHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

// NewBookingsHandler returns handler.
func NewBookingsHandler(bookings *service.BookingService, logger *zap.Logger) *BookingsHandler {
	return &BookingsHandler{bookings: bookings, logger: logger}
}

// Create handles POST /api/stations/{id}/bookings.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form service.BookingForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookings.Book(r.Context(), actorID(r), r.PathValue("id"), form)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}
