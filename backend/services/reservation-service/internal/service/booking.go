package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/models"
)

const (
	dateLayout = "2006-01-02"

	minDurationHours  = 0.5
	maxDurationHours  = 8.0
	durationStepHours = 0.5
)

var newBookingID = func() string {
	return "booking-" + uuid.NewString()
}

// BookingForm is the booking request as submitted by the driver.
type BookingForm struct {
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	ConnectorType string         `json:"connectorType"`
	Duration      float64        `json:"duration"`
	Vehicle       models.Vehicle `json:"vehicle"`
}

// ValidateBooking checks the form against the station and reports every violation.
func ValidateBooking(form BookingForm, station models.Station, now time.Time) ValidationErrors {
	errs := ValidationErrors{}

	if date := strings.TrimSpace(form.Date); date == "" {
		errs.add("date", "Please select a date")
	} else if day, err := time.ParseInLocation(dateLayout, date, now.Location()); err != nil {
		errs.add("date", "Date must be formatted as YYYY-MM-DD")
	} else if day.Before(startOfDay(now)) {
		errs.add("date", "Date cannot be in the past")
	}

	if t := strings.TrimSpace(form.Time); t == "" {
		errs.add("time", "Please select a time")
	} else if !isTimeSlot(t) {
		errs.add("time", "Please select one of the offered time slots")
	}

	if ct := strings.TrimSpace(form.ConnectorType); ct == "" {
		errs.add("connector", "Please select a connector")
	} else if _, ok := station.AvailableConnector(ct); !ok {
		errs.add("connector", "Selected connector is not available")
	}

	switch {
	case form.Duration == 0:
		errs.add("duration", "Please select a duration")
	case form.Duration < minDurationHours || form.Duration > maxDurationHours:
		errs.add("duration", "Duration must be between 0.5 and 8 hours")
	case math.Mod(form.Duration, durationStepHours) != 0:
		errs.add("duration", "Duration must be a multiple of 30 minutes")
	}

	if strings.TrimSpace(form.Vehicle.Make) == "" {
		errs.add("make", "Please enter vehicle make")
	}
	if strings.TrimSpace(form.Vehicle.Model) == "" {
		errs.add("model", "Please enter vehicle model")
	}
	if form.Vehicle.BatterySize <= 0 {
		errs.add("batterySize", "Please enter battery size")
	}
	if form.Vehicle.CurrentCharge < 0 || form.Vehicle.CurrentCharge > 100 {
		errs.add("currentCharge", "Current charge must be between 0-100%")
	}

	if station.Status != models.StationOnline {
		errs.add("station", "Station is not accepting bookings")
	}
	return errs
}

// SubmitBooking validates the form, prices the session and returns the new booking together
// with an updated copy of user. The input user is never modified; a nil user fails with
// ErrUnauthenticated.
func SubmitBooking(form BookingForm, station models.Station, user *models.User, now time.Time) (models.Booking, models.User, error) {
	if user == nil {
		return models.Booking{}, models.User{}, ErrUnauthenticated
	}
	if err := ValidateBooking(form, station, now).errOrNil(); err != nil {
		return models.Booking{}, models.User{}, err
	}

	connectorType := strings.TrimSpace(form.ConnectorType)
	connector, _ := station.AvailableConnector(connectorType)
	pricing := Price(PriceInput{
		ConnectorPrice: connector.Price,
		PeakHours:      station.PeakHours,
		Time:           strings.TrimSpace(form.Time),
		Duration:       form.Duration,
		BatterySize:    form.Vehicle.BatterySize,
	})

	vehicle := form.Vehicle
	vehicle.Make = strings.TrimSpace(vehicle.Make)
	vehicle.Model = strings.TrimSpace(vehicle.Model)

	booking := models.Booking{
		ID:                  newBookingID(),
		StationID:           station.ID,
		StationName:         station.Name,
		ConnectorType:       connectorType,
		Date:                strings.TrimSpace(form.Date),
		Time:                strings.TrimSpace(form.Time),
		Duration:            form.Duration,
		Vehicle:             vehicle,
		TotalCost:           pricing.Total,
		Status:              models.BookingConfirmed,
		LoyaltyPointsEarned: pricing.LoyaltyPointsEarned(),
		CreatedAt:           now.UTC(),
	}

	updated := user.Clone()
	updated.Bookings = append(updated.Bookings, booking)
	updated.LoyaltyPoints += booking.LoyaltyPointsEarned
	return booking, updated, nil
}

// BookingService commits bookings against the catalog.
type BookingService struct {
	store    *catalog.Store
	accounts AccountStore
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService builds service.
func NewBookingService(store *catalog.Store, accounts AccountStore, events EventPublisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:    store,
		accounts: accountsOrNop(accounts),
		events:   publisherOrNop(events),
		logger:   logger,
		now:      time.Now,
	}
}

// Book validates and commits a booking for userID at stationID. The booking append and the
// loyalty increment are applied in one catalog update, then the full user record is persisted.
func (s *BookingService) Book(ctx context.Context, userID, stationID string, form BookingForm) (models.Booking, error) {
	now := s.now()

	var (
		booking models.Booking
		updated models.User
	)
	err := s.store.Update(func(tx *catalog.Tx) error {
		station, err := tx.Station(stationID)
		if err != nil {
			return err
		}
		user, err := lookupUser(tx, userID)
		if err != nil {
			return err
		}
		booking, updated, err = SubmitBooking(form, station, &user, now)
		if err != nil {
			return err
		}
		return tx.PutUser(updated)
	})
	if err != nil {
		return models.Booking{}, err
	}

	s.logger.Info("booking committed",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", updated.ID),
		zap.String("station_id", booking.StationID),
		zap.Float64("total_cost", booking.TotalCost),
		zap.Int("loyalty_points_earned", booking.LoyaltyPointsEarned),
	)

	if err := s.accounts.SaveUser(ctx, updated); err != nil {
		s.logger.Error("failed to persist user snapshot", zap.String("user_id", updated.ID), zap.Error(err))
	}
	publishChange(s.events, s.store, now, EventBookingCreated, booking)
	return booking, nil
}

// lookupUser resolves the acting user; missing identities are reported as unauthenticated.
func lookupUser(tx *catalog.Tx, userID string) (models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return models.User{}, ErrUnauthenticated
	}
	user, err := tx.User(userID)
	if errors.Is(err, catalog.ErrUserNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	return user, err
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
