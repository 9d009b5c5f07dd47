// Package queue publishes booking lifecycle events to RabbitMQ and runs
// the background consumer that appends them to the booking audit log.
// The in-memory live feed is populated by the booking service directly,
// not through the broker.
package queue

// BookingEvent is the wire form of one lifecycle event on the
// booking.events queue. It carries enough for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type BookingEvent struct {
	EventID      string `json:"event_id"`
	RestaurantID string `json:"restaurant_id"`
	BookingID    string `json:"booking_id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	CreatedAt    string `json:"created_at"`
}
