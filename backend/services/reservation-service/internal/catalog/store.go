package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/rating"
)

var (
	// ErrStationNotFound indicates an unknown station id.
	ErrStationNotFound = errors.New("catalog: station not found")
	// ErrUserNotFound indicates an unknown user id or email.
	ErrUserNotFound = errors.New("catalog: user not found")
	// ErrDuplicateID is returned when a record id is already taken.
	ErrDuplicateID = errors.New("catalog: duplicate id")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("catalog: duplicate email")
	// ErrInvalidReview is returned for feed reviews rated outside 1..5.
	ErrInvalidReview = errors.New("catalog: review rating out of range")
)

// Store owns stations, users and per-station review sets for the lifetime of the process.
// Reads hand out deep copies; writes go through Update.
type Store struct {
	mu         sync.RWMutex
	stations   []models.Station
	stationIdx map[string]int
	users      []models.User
	userIdx    map[string]int
	reviews    map[string][]models.Review
}

// New builds a store from feed records. Station review sets are rebuilt from the users'
// review history and each station's rating and review count are derived from them.
func New(stations []models.Station, users []models.User) (*Store, error) {
	s := &Store{
		stations:   make([]models.Station, 0, len(stations)),
		stationIdx: make(map[string]int, len(stations)),
		users:      make([]models.User, 0, len(users)),
		userIdx:    make(map[string]int, len(users)),
		reviews:    make(map[string][]models.Review),
	}

	for _, st := range stations {
		if strings.TrimSpace(st.ID) == "" {
			return nil, errors.New("catalog: station id is empty")
		}
		if _, ok := s.stationIdx[st.ID]; ok {
			return nil, fmt.Errorf("%w: station %s", ErrDuplicateID, st.ID)
		}
		s.stationIdx[st.ID] = len(s.stations)
		s.stations = append(s.stations, st.Clone())
	}

	emails := make(map[string]string, len(users))
	for _, u := range users {
		if strings.TrimSpace(u.ID) == "" {
			return nil, errors.New("catalog: user id is empty")
		}
		if _, ok := s.userIdx[u.ID]; ok {
			return nil, fmt.Errorf("%w: user %s", ErrDuplicateID, u.ID)
		}
		key := normalizeEmail(u.Email)
		if key != "" {
			if other, ok := emails[key]; ok {
				return nil, fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateEmail, u.Email, other, u.ID)
			}
			emails[key] = u.ID
		}
		s.userIdx[u.ID] = len(s.users)
		s.users = append(s.users, u.Clone())
		for _, r := range u.Reviews {
			if r.Rating < rating.MinStars || r.Rating > rating.MaxStars {
				return nil, fmt.Errorf("%w: review %s by %s has rating %d", ErrInvalidReview, r.ID, u.ID, r.Rating)
			}
			if _, ok := s.stationIdx[r.StationID]; ok {
				s.reviews[r.StationID] = append(s.reviews[r.StationID], r)
			}
		}
	}

	for i := range s.stations {
		applySummary(&s.stations[i], s.reviews[s.stations[i].ID])
	}
	return s, nil
}

// Stations returns all stations in catalog order.
func (s *Store) Stations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Station, len(s.stations))
	for i, st := range s.stations {
		out[i] = st.Clone()
	}
	return out
}

// Station returns a station by id.
func (s *Store) Station(id string) (models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.stationIdx[id]
	if !ok {
		return models.Station{}, ErrStationNotFound
	}
	return s.stations[idx].Clone(), nil
}

// StationReviews returns the review set of a station in insertion order.
func (s *Store) StationReviews(id string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.stationIdx[id]; !ok {
		return nil, ErrStationNotFound
	}
	return append([]models.Review(nil), s.reviews[id]...), nil
}

// Users returns all users in feed order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out
}

// User returns a user by id.
func (s *Store) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.userIdx[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return s.users[idx].Clone(), nil
}

// UserByEmail looks a user up by case-insensitive email.
func (s *Store) UserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.findByEmail(normalizeEmail(email))
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *Store) findByEmail(key string) (models.User, bool) {
	if key == "" {
		return models.User{}, false
	}
	for _, u := range s.users {
		if normalizeEmail(u.Email) == key {
			return u, true
		}
	}
	return models.User{}, false
}

// Update runs fn against a staged view of the catalog. Staged changes are applied together
// when fn returns nil and discarded otherwise.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s)
	if err := fn(tx); err != nil {
		return err
	}
	tx.apply()
	return nil
}

func applySummary(st *models.Station, reviews []models.Review) {
	summary := rating.Aggregate(reviews)
	st.Rating = summary.Average
	st.ReviewCount = summary.Total
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
