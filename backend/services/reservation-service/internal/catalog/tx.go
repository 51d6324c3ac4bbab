package catalog

import (
	"errors"
	"fmt"
	"strings"

	"ecocharge/backend/services/reservation-service/internal/models"
)

// Tx is a copy-on-write view used inside Store.Update. It is only valid inside the callback.
type Tx struct {
	store *Store

	stations      map[string]models.Station
	addedStations []string
	deleted       map[string]bool

	users      map[string]models.User
	addedUsers []string

	reviews map[string][]models.Review
}

func newTx(s *Store) *Tx {
	return &Tx{
		store:    s,
		stations: make(map[string]models.Station),
		deleted:  make(map[string]bool),
		users:    make(map[string]models.User),
		reviews:  make(map[string][]models.Review),
	}
}

// Station returns the staged or committed station.
func (tx *Tx) Station(id string) (models.Station, error) {
	if tx.deleted[id] {
		return models.Station{}, ErrStationNotFound
	}
	if st, ok := tx.stations[id]; ok {
		return st.Clone(), nil
	}
	idx, ok := tx.store.stationIdx[id]
	if !ok {
		return models.Station{}, ErrStationNotFound
	}
	return tx.store.stations[idx].Clone(), nil
}

func (tx *Tx) stationExists(id string) bool {
	_, err := tx.Station(id)
	return err == nil
}

// StationReviews returns committed plus staged reviews of a station.
func (tx *Tx) StationReviews(id string) ([]models.Review, error) {
	if !tx.stationExists(id) {
		return nil, ErrStationNotFound
	}
	out := append([]models.Review(nil), tx.store.reviews[id]...)
	return append(out, tx.reviews[id]...), nil
}

// PutStation replaces an existing station.
func (tx *Tx) PutStation(st models.Station) error {
	if !tx.stationExists(st.ID) {
		return ErrStationNotFound
	}
	tx.stations[st.ID] = st.Clone()
	return nil
}

// AddStation appends a new station to the catalog.
func (tx *Tx) AddStation(st models.Station) error {
	if strings.TrimSpace(st.ID) == "" {
		return errors.New("catalog: station id is empty")
	}
	if _, committed := tx.store.stationIdx[st.ID]; committed || tx.stationExists(st.ID) {
		return fmt.Errorf("%w: station %s", ErrDuplicateID, st.ID)
	}
	tx.stations[st.ID] = st.Clone()
	tx.addedStations = append(tx.addedStations, st.ID)
	return nil
}

// DeleteStation removes a station and its review set. Authored reviews stay in user history.
func (tx *Tx) DeleteStation(id string) error {
	if !tx.stationExists(id) {
		return ErrStationNotFound
	}
	tx.deleted[id] = true
	delete(tx.stations, id)
	delete(tx.reviews, id)
	return nil
}

// AddReview appends a review to its station's set and refreshes the station aggregate.
func (tx *Tx) AddReview(r models.Review) (models.Station, error) {
	st, err := tx.Station(r.StationID)
	if err != nil {
		return models.Station{}, err
	}
	tx.reviews[r.StationID] = append(tx.reviews[r.StationID], r)

	all, err := tx.StationReviews(r.StationID)
	if err != nil {
		return models.Station{}, err
	}
	applySummary(&st, all)
	tx.stations[st.ID] = st
	return st.Clone(), nil
}

// User returns the staged or committed user.
func (tx *Tx) User(id string) (models.User, error) {
	if u, ok := tx.users[id]; ok {
		return u.Clone(), nil
	}
	idx, ok := tx.store.userIdx[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return tx.store.users[idx].Clone(), nil
}

// UserByEmail searches staged users first, then committed ones.
func (tx *Tx) UserByEmail(email string) (models.User, error) {
	key := normalizeEmail(email)
	if key == "" {
		return models.User{}, ErrUserNotFound
	}
	for _, u := range tx.users {
		if normalizeEmail(u.Email) == key {
			return u.Clone(), nil
		}
	}
	if u, ok := tx.store.findByEmail(key); ok {
		if staged, replaced := tx.users[u.ID]; !replaced || normalizeEmail(staged.Email) == key {
			return u.Clone(), nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// PutUser inserts or replaces a user, keeping emails unique.
func (tx *Tx) PutUser(u models.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("catalog: user id is empty")
	}
	if other, err := tx.UserByEmail(u.Email); err == nil && other.ID != u.ID {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, u.Email)
	}
	if _, err := tx.User(u.ID); errors.Is(err, ErrUserNotFound) {
		tx.addedUsers = append(tx.addedUsers, u.ID)
	}
	tx.users[u.ID] = u.Clone()
	return nil
}

func (tx *Tx) apply() {
	s := tx.store

	for id, st := range tx.stations {
		if idx, ok := s.stationIdx[id]; ok {
			s.stations[idx] = st
		}
	}
	for _, id := range tx.addedStations {
		if st, ok := tx.stations[id]; ok {
			s.stationIdx[id] = len(s.stations)
			s.stations = append(s.stations, st)
		}
	}
	for id, rs := range tx.reviews {
		s.reviews[id] = append(s.reviews[id], rs...)
	}
	if len(tx.deleted) > 0 {
		kept := s.stations[:0]
		for _, st := range s.stations {
			if tx.deleted[st.ID] {
				delete(s.reviews, st.ID)
				continue
			}
			kept = append(kept, st)
		}
		s.stations = kept
		s.stationIdx = make(map[string]int, len(kept))
		for i, st := range kept {
			s.stationIdx[st.ID] = i
		}
	}

	for id, u := range tx.users {
		if idx, ok := s.userIdx[id]; ok {
			s.users[idx] = u
		}
	}
	for _, id := range tx.addedUsers {
		s.userIdx[id] = len(s.users)
		s.users = append(s.users, tx.users[id])
	}
}
