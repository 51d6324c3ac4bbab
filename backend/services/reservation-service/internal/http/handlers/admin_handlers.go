package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/service"
)

// AdminHandlers serves the operator dashboard.
type AdminHandlers struct {
	admin  *service.AdminService
	logger *zap.Logger
}

// NewAdminHandlers returns handler.
func NewAdminHandlers(admin *service.AdminService, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{admin: admin, logger: logger}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(actorID(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Bookings handles GET /api/admin/bookings.
func (h *AdminHandlers) Bookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.admin.Bookings(actorID(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// AddStation handles POST /api/admin/stations.
func (h *AdminHandlers) AddStation(w http.ResponseWriter, r *http.Request) {
	var form service.StationForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	station, err := h.admin.AddStation(r.Context(), actorID(r), form)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// DeleteStation handles DELETE /api/admin/stations/{id}.
func (h *AdminHandlers) DeleteStation(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteStation(r.Context(), actorID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleStation handles POST /api/admin/stations/{id}/toggle.
func (h *AdminHandlers) ToggleStation(w http.ResponseWriter, r *http.Request) {
	station, err := h.admin.ToggleStationStatus(r.Context(), actorID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// SetConnector handles POST /api/admin/stations/{id}/connectors/{type} with {"available": bool}.
func (h *AdminHandlers) SetConnector(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Available *bool `json:"available"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Available == nil {
		writeServiceError(w, h.logger, service.ValidationErrors{"available": "Please choose availability"})
		return
	}

	station, err := h.admin.SetConnectorAvailability(r.Context(), actorID(r), r.PathValue("id"), r.PathValue("type"), *req.Available)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}
