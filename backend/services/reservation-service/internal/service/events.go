package service

import (
	"time"

	"ecocharge/backend/services/reservation-service/internal/catalog"
)

// EventType names a catalog change pushed to the admin feed.
type EventType string

const (
	EventBookingCreated EventType = "booking.created"
	EventReviewCreated  EventType = "review.created"
	EventStationUpdated EventType = "station.updated"
	EventStationDeleted EventType = "station.deleted"
	EventStats          EventType = "stats"
)

// Event is a single feed message.
type Event struct {
	Type    EventType `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// EventPublisher fans events out to observers.
type EventPublisher interface {
	Publish(event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// publishChange emits the change followed by fresh dashboard stats.
func publishChange(p EventPublisher, store *catalog.Store, now time.Time, typ EventType, payload any) {
	p.Publish(Event{Type: typ, At: now, Payload: payload})
	p.Publish(Event{Type: EventStats, At: now, Payload: ComputeStats(store.Stations(), store.Users())})
}
