package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/models"
)

var testNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func fixtureStations() []models.Station {
	return []models.Station{
		{
			ID:      "st-downtown",
			Name:    "Downtown Hub",
			Address: "12 MG Road, Bengaluru",
			Connectors: []models.Connector{
				{Type: "CCS2", Power: "50kW", Price: 10, Available: true},
				{Type: "Type2", Power: "22kW", Price: 8, Available: false},
			},
			Amenities:     []string{"WiFi", "Parking", "Restaurant"},
			Status:        models.StationOnline,
			LoyaltyPoints: 5,
			PeakHours:     &models.PeakHours{Start: "08:00", End: "10:00", Multiplier: 1.5},
		},
		{
			ID:      "st-airport",
			Name:    "Airport Fast Charge",
			Address: "Terminal 2, Kempegowda Airport",
			Connectors: []models.Connector{
				{Type: "CHAdeMO", Power: "50kW", Price: 18, Available: true},
				{Type: "CCS2", Power: "150kW", Price: 16, Available: false},
			},
			Amenities: []string{"Parking"},
			Status:    models.StationMaintenance,
		},
		{
			ID:      "st-mall",
			Name:    "Phoenix Mall",
			Address: "Whitefield Main Road",
			Connectors: []models.Connector{
				{Type: "Type2", Power: "22kW", Price: 12, Available: true},
			},
			Amenities: []string{"WiFi", "Restaurant"},
			Status:    models.StationOffline,
		},
	}
}

func fixtureUsers() []models.User {
	return []models.User{
		{ID: "u-driver", Name: "Asha", Email: "asha@example.com", Role: models.RoleUser, LoyaltyPoints: 40},
		{ID: "u-admin", Name: "Ravi", Email: "ravi@example.com", Role: models.RoleAdmin},
	}
}

func newFixtureStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.New(fixtureStations(), fixtureUsers())
	require.NoError(t, err)
	return store
}

func validForm() BookingForm {
	return BookingForm{
		Date:          "2026-10-18",
		Time:          "09:00",
		ConnectorType: "CCS2",
		Duration:      2,
		Vehicle: models.Vehicle{
			Make:          "Tata",
			Model:         "Nexon EV",
			BatterySize:   50,
			CurrentCharge: 20,
		},
	}
}

func stubIDs(t *testing.T) {
	t.Helper()
	origBooking, origReview, origStation, origUser := newBookingID, newReviewID, newStationID, newUserID
	n := 0
	next := func(prefix string) func() string {
		return func() string {
			n++
			return prefix + "-" + strconv.Itoa(n)
		}
	}
	newBookingID = next("booking")
	newReviewID = next("review")
	newStationID = next("station")
	newUserID = next("user")
	t.Cleanup(func() {
		newBookingID, newReviewID, newStationID, newUserID = origBooking, origReview, origStation, origUser
	})
}

type recordingAccounts struct {
	mu    sync.Mutex
	saved []models.User
	err   error
}

func (r *recordingAccounts) SaveUser(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, user)
	return r.err
}

func (r *recordingAccounts) LoadUsers(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.User(nil), r.saved...), nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingEvents) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

var errSnapshot = errors.New("snapshot store down")

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
