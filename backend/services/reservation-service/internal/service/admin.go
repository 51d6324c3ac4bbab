package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/models"
)

const (
	defaultOperatingHours = "24/7"
	defaultStationPoints  = 5
)

var (
	newStationID = func() string {
		return "station-" + uuid.NewString()
	}
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Stats is the operator dashboard summary.
type Stats struct {
	TotalStations      int     `json:"totalStations"`
	OnlineStations     int     `json:"onlineStations"`
	TotalUsers         int     `json:"totalUsers"`
	TotalBookings      int     `json:"totalBookings"`
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalLoyaltyPoints int     `json:"totalLoyaltyPoints"`
}

// ComputeStats folds stations and users into dashboard totals.
func ComputeStats(stations []models.Station, users []models.User) Stats {
	stats := Stats{
		TotalStations: len(stations),
		TotalUsers:    len(users),
	}
	for _, st := range stations {
		if st.Status == models.StationOnline {
			stats.OnlineStations++
		}
	}
	for _, u := range users {
		stats.TotalBookings += len(u.Bookings)
		stats.TotalLoyaltyPoints += u.LoyaltyPoints
		for _, b := range u.Bookings {
			stats.TotalRevenue += b.TotalCost
		}
	}
	return stats
}

// StationForm describes a station added by an operator.
type StationForm struct {
	Name           string             `json:"name"`
	Address        string             `json:"address"`
	Coordinates    models.Coordinates `json:"coordinates"`
	Connectors     []models.Connector `json:"connectors"`
	Amenities      []string           `json:"amenities"`
	OperatingHours string             `json:"operatingHours"`
	Status         string             `json:"status"`
	LoyaltyPoints  *int               `json:"loyaltyPoints"`
	PeakHours      *models.PeakHours  `json:"peakHours"`
}

// ValidateStation checks an operator station form.
func ValidateStation(form StationForm) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(form.Name) == "" {
		errs.add("name", "Please enter a station name")
	}
	if strings.TrimSpace(form.Address) == "" {
		errs.add("address", "Please enter an address")
	}
	for _, c := range form.Connectors {
		if strings.TrimSpace(c.Type) == "" || c.Price <= 0 {
			errs.add("connectors", "Every connector needs a type and a positive price")
			break
		}
	}
	if status := strings.TrimSpace(form.Status); status != "" && !models.StationStatus(status).Valid() {
		errs.add("status", "Status must be online, maintenance or offline")
	}
	if form.LoyaltyPoints != nil && *form.LoyaltyPoints < 0 {
		errs.add("loyaltyPoints", "Loyalty points cannot be negative")
	}
	if p := form.PeakHours; p != nil {
		if !clockPattern.MatchString(p.Start) || !clockPattern.MatchString(p.End) || p.Start > p.End {
			errs.add("peakHours", "Peak hours need HH:MM start and end with start before end")
		} else if p.Multiplier < 1 {
			errs.add("peakHours", "Peak multiplier must be at least 1")
		}
	}
	return errs
}

// AdminService runs operator actions. Station changes live in memory only.
type AdminService struct {
	store  *catalog.Store
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewAdminService builds service.
func NewAdminService(store *catalog.Store, events EventPublisher, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:  store,
		events: publisherOrNop(events),
		logger: logger,
		now:    time.Now,
	}
}

// Authorize resolves actorID and requires the admin role.
func (s *AdminService) Authorize(actorID string) (models.User, error) {
	if strings.TrimSpace(actorID) == "" {
		return models.User{}, ErrUnauthenticated
	}
	user, err := s.store.User(actorID)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}
	if !user.IsAdmin() {
		return models.User{}, ErrForbidden
	}
	return user, nil
}

// Stats returns dashboard totals.
func (s *AdminService) Stats(actorID string) (Stats, error) {
	if _, err := s.Authorize(actorID); err != nil {
		return Stats{}, err
	}
	return ComputeStats(s.store.Stations(), s.store.Users()), nil
}

// Bookings returns every user's bookings, newest first.
func (s *AdminService) Bookings(actorID string) ([]models.Booking, error) {
	if _, err := s.Authorize(actorID); err != nil {
		return nil, err
	}
	var all []models.Booking
	for _, u := range s.store.Users() {
		all = append(all, u.Bookings...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if all == nil {
		all = []models.Booking{}
	}
	return all, nil
}

// ToggleStationStatus flips online and offline; a station under maintenance comes back online.
func (s *AdminService) ToggleStationStatus(ctx context.Context, actorID, stationID string) (models.Station, error) {
	return s.mutateStation(actorID, stationID, func(st *models.Station) error {
		if st.Status == models.StationOnline {
			st.Status = models.StationOffline
		} else {
			st.Status = models.StationOnline
		}
		return nil
	})
}

// SetConnectorAvailability overrides availability of every connector of the given type.
func (s *AdminService) SetConnectorAvailability(ctx context.Context, actorID, stationID, connectorType string, available bool) (models.Station, error) {
	return s.mutateStation(actorID, stationID, func(st *models.Station) error {
		found := false
		for i := range st.Connectors {
			if st.Connectors[i].Type == connectorType {
				st.Connectors[i].Available = available
				found = true
			}
		}
		if !found {
			return ValidationErrors{"connector": "Station has no connector of this type"}
		}
		return nil
	})
}

func (s *AdminService) mutateStation(actorID, stationID string, fn func(st *models.Station) error) (models.Station, error) {
	if _, err := s.Authorize(actorID); err != nil {
		return models.Station{}, err
	}

	var station models.Station
	err := s.store.Update(func(tx *catalog.Tx) error {
		st, err := tx.Station(stationID)
		if err != nil {
			return err
		}
		if err := fn(&st); err != nil {
			return err
		}
		station = st
		return tx.PutStation(st)
	})
	if err != nil {
		return models.Station{}, err
	}

	s.logger.Info("station updated",
		zap.String("station_id", station.ID),
		zap.String("status", string(station.Status)),
		zap.Int("available_connectors", station.AvailableConnectors()),
		zap.String("actor_id", actorID),
	)
	publishChange(s.events, s.store, s.now(), EventStationUpdated, station)
	return station, nil
}

// AddStation appends a new station to the catalog.
func (s *AdminService) AddStation(ctx context.Context, actorID string, form StationForm) (models.Station, error) {
	if _, err := s.Authorize(actorID); err != nil {
		return models.Station{}, err
	}
	if err := ValidateStation(form).errOrNil(); err != nil {
		return models.Station{}, err
	}

	station := models.Station{
		ID:             newStationID(),
		Name:           strings.TrimSpace(form.Name),
		Address:        strings.TrimSpace(form.Address),
		Coordinates:    form.Coordinates,
		Connectors:     append([]models.Connector{}, form.Connectors...),
		Amenities:      append([]string{}, form.Amenities...),
		OperatingHours: strings.TrimSpace(form.OperatingHours),
		Status:         models.StationStatus(strings.TrimSpace(form.Status)),
		LoyaltyPoints:  defaultStationPoints,
		PeakHours:      form.PeakHours,
	}
	if station.OperatingHours == "" {
		station.OperatingHours = defaultOperatingHours
	}
	if station.Status == "" {
		station.Status = models.StationOnline
	}
	if form.LoyaltyPoints != nil {
		station.LoyaltyPoints = *form.LoyaltyPoints
	}

	if err := s.store.Update(func(tx *catalog.Tx) error { return tx.AddStation(station) }); err != nil {
		return models.Station{}, err
	}

	s.logger.Info("station added", zap.String("station_id", station.ID), zap.String("actor_id", actorID))
	publishChange(s.events, s.store, s.now(), EventStationUpdated, station)
	return station.Clone(), nil
}

// DeleteStation removes a station from the catalog.
func (s *AdminService) DeleteStation(ctx context.Context, actorID, stationID string) error {
	if _, err := s.Authorize(actorID); err != nil {
		return err
	}
	if err := s.store.Update(func(tx *catalog.Tx) error { return tx.DeleteStation(stationID) }); err != nil {
		return err
	}

	s.logger.Info("station deleted", zap.String("station_id", stationID), zap.String("actor_id", actorID))
	publishChange(s.events, s.store, s.now(), EventStationDeleted, map[string]string{"id": stationID})
	return nil
}
