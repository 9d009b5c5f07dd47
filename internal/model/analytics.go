package model

import "time"

// EventType names the four booking lifecycle events the dashboard shows.
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingConfirmed EventType = "booking_confirmed"
	EventBookingCancelled EventType = "booking_cancelled"
	EventBookingCompleted EventType = "booking_completed"
)

// AnalyticsEvent is one entry of the per-restaurant live feed.  The log is
// append-only, capped to the most recent 50 entries, newest first.
type AnalyticsEvent struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Type         EventType `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
	BookingID    string    `json:"bookingId,omitempty"`
}

// DayStat is one bar of the trailing-7-days histogram.
type DayStat struct {
	Label    string `json:"label"`
	Bookings int    `json:"bookings"`
	Guests   int    `json:"guests"`
}

// TimePoint is the load at one probed time of day, 0..1.
type TimePoint struct {
	Time string  `json:"time"`
	Load float64 `json:"load"`
}

// ZoneShare is one category's share of non-cancelled bookings.
type ZoneShare struct {
	CategoryID string  `json:"categoryId"`
	Label      string  `json:"label"`
	Percent    float64 `json:"percent"`
}

// Totals carries the all-time aggregates of the dashboard footer.
type Totals struct {
	TotalBookings     int     `json:"totalBookings"`
	AvgGuests         float64 `json:"avgGuests"`
	AttendancePercent int     `json:"attendancePercent"`
}

// AnalyticsSnapshot is the dashboard aggregate.  It is recomputed on
// demand from bookings, the floor plan and the event log; it is never
// stored.
type AnalyticsSnapshot struct {
	Connected         bool             `json:"connected"`
	BookingsToday     int              `json:"bookingsToday"`
	CurrentGuestsLoad int              `json:"currentGuestsLoad"`
	PeakTime          string           `json:"peakTime"`
	ActiveBookings    int              `json:"activeBookings"`
	Events            []AnalyticsEvent `json:"events"`
	BookingsByDay     []DayStat        `json:"bookingsByDay"`
	TimeDistribution  []TimePoint      `json:"timeDistribution"`
	ZonePopularity    []ZoneShare      `json:"zonePopularity"`
	Totals            Totals           `json:"totals"`
}
