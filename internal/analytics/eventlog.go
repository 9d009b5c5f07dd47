// Package analytics derives the admin dashboard snapshot from bookings
// and the floor plan, and keeps the per-restaurant live event feed.
package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anmarochka/resto-booking/internal/model"
)

// maxEventsPerRestaurant caps the per-restaurant feed; the oldest entries
// are dropped first.
const maxEventsPerRestaurant = 50

// EventLog is the append-only, capped live feed.  It is owned by the
// application context and injected where needed; per-test instances reset
// naturally.  Newest entries come first.
type EventLog struct {
	mu     sync.Mutex
	byRest map[string][]model.AnalyticsEvent
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{byRest: make(map[string][]model.AnalyticsEvent)}
}

// Append records an event for a restaurant, assigning id and timestamp
// when absent, and trims the feed to the newest 50 entries.
func (l *EventLog) Append(ev model.AnalyticsEvent) model.AnalyticsEvent {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	list := append([]model.AnalyticsEvent{ev}, l.byRest[ev.RestaurantID]...)
	if len(list) > maxEventsPerRestaurant {
		list = list[:maxEventsPerRestaurant]
	}
	l.byRest[ev.RestaurantID] = list
	return ev
}

// Recent returns up to n newest events for a restaurant, newest first.
func (l *EventLog) Recent(restaurantID string, n int) []model.AnalyticsEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.byRest[restaurantID]
	if n > len(list) {
		n = len(list)
	}
	return append([]model.AnalyticsEvent(nil), list[:n]...)
}

// Len reports the current feed size for a restaurant.
func (l *EventLog) Len(restaurantID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byRest[restaurantID])
}
