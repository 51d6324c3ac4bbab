package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/service"
)

// StationReader is the read side of the catalog.
type StationReader interface {
	Stations() []models.Station
	Station(id string) (models.Station, error)
}

// StationsHandlers serves the station finder and detail pages.
type StationsHandlers struct {
	catalog StationReader
	logger  *zap.Logger
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(catalog StationReader, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{catalog: catalog, logger: logger}
}

type stationsResponse struct {
	Stations []models.Station `json:"stations"`
	Count    int              `json:"count"`
}

type stationDetailResponse struct {
	Station   models.Station `json:"station"`
	TimeSlots []string       `json:"timeSlots"`
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := service.ParseSearchQuery(r.URL.Query())
	stations := service.Search(h.catalog.Stations(), query)
	writeJSON(w, http.StatusOK, stationsResponse{Stations: stations, Count: len(stations)})
}

// Filters handles GET /api/stations/filters.
func (h *StationsHandlers) Filters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.Filters(h.catalog.Stations()))
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.catalog.Station(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stationDetailResponse{Station: station, TimeSlots: service.TimeSlots()})
}

// Quote handles GET /api/stations/{id}/quote?connector=&time=&duration=&batterySize=.
// Missing selections yield the empty quote. Unparsable, non-finite or negative numbers are
// validation errors.
func (h *StationsHandlers) Quote(w http.ResponseWriter, r *http.Request) {
	station, err := h.catalog.Station(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	q := r.URL.Query()
	fields := service.ValidationErrors{}
	duration, ok := parseOptionalFloat(q.Get("duration"))
	if !ok {
		fields["duration"] = "Duration must be a non-negative number"
	}
	batterySize, ok := parseOptionalFloat(q.Get("batterySize"))
	if !ok {
		fields["batterySize"] = "Battery size must be a non-negative number"
	}
	if len(fields) > 0 {
		writeServiceError(w, h.logger, fields)
		return
	}

	result := service.Quote(station, strings.TrimSpace(q.Get("connector")), strings.TrimSpace(q.Get("time")), duration, batterySize)
	writeJSON(w, http.StatusOK, result)
}

func parseOptionalFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
