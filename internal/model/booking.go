package model

import "time"

// BookingStatus is the lifecycle state of a booking.  Bookings are created
// pending or confirmed, move pending→confirmed→completed, and any active
// state may be cancelled.  Cancelled and completed are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Terminal reports whether no further transition is allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step.  Self-transitions are rejected along with anything out of terminal
// states; completed is only reachable from confirmed.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s.Terminal() || s == next {
		return false
	}
	switch next {
	case BookingConfirmed:
		return s == BookingPending
	case BookingCompleted:
		return s == BookingConfirmed
	case BookingCancelled:
		return true
	default:
		return false
	}
}

// Booking records a reservation of one table on one date/time.  Date and
// Time are kept as the normalized strings the whole application works
// with ("YYYY-MM-DD" and "HH:MM"); only Status may change after creation.
//
// Fields:
//  ID           – unique identifier (uuid string).
//  UserID       – account that owns the booking; 0 for admin-entered ones.
//  RestaurantID – restaurant being booked.
//  TableID      – reserved table.
//  Date         – ISO calendar date, local to the restaurant.
//  Time         – start of the slot, HH:MM.
//  Guests       – positive guest count.
//  Status       – lifecycle state, see BookingStatus.
//  CreatedAt    – creation timestamp.
//  UserName     – guest name for admin-entered manual bookings.
//  UserPhone    – guest phone for admin-entered manual bookings.
type Booking struct {
	ID           string        `json:"id"`
	UserID       uint64        `json:"userId"`
	RestaurantID string        `json:"restaurantId"`
	TableID      string        `json:"tableId"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Guests       int           `json:"guests"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UserName     string        `json:"userName,omitempty"`
	UserPhone    string        `json:"userPhone,omitempty"`
}
