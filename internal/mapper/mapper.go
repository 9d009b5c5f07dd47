// Package mapper translates backend wire shapes (restaurants, zones,
// tables, reservations) into the normalized entities the rest of the
// application works with, and back again for write payloads.  Mappers are
// pure; anything missing a required field fails with ErrMalformedRecord
// instead of silently substituting defaults for ids or statuses.
package mapper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anmarochka/resto-booking/internal/model"
)

// ErrMalformedRecord indicates a wire record missing a required field.
// Use errors.Is to detect it; the wrapped message names the field.
var ErrMalformedRecord = errors.New("malformed record")

func malformed(field string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedRecord, field)
}

// RestaurantRow mirrors the backend's restaurant resource.
type RestaurantRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	RatingValue  float64 `json:"rating_value"`
	WorkTimeFrom string  `json:"work_time_from"`
	WorkTimeTo   string  `json:"work_time_to"`
	ImageURL     string  `json:"image_url"`
	CuisineName  string  `json:"cuisine_name"`
}

// ZoneRow mirrors the backend's hall/zone resource.
type ZoneRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ColorCode string `json:"color_code"`
	SortOrder int    `json:"sort_order"`
}

// TableRow mirrors the backend's table resource.  Status carries the
// backend's two states, available or occupied.
type TableRow struct {
	ID            string `json:"id"`
	HallID        string `json:"hallId"`
	TableNumber   int    `json:"tableNumber"`
	Seats         int    `json:"seats"`
	PositionIndex int    `json:"positionIndex"`
	Status        string `json:"status"`
}

// ReservationRow mirrors the backend's reservation resource.
type ReservationRow struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	HallID       string `json:"hall_id"`
	TableID      string `json:"table_id"`
	UserID       uint64 `json:"user_id"`
	Date         string `json:"date"`
	TimeFrom     string `json:"time_from"`
	TimeTo       string `json:"time_to"`
	GuestsCount  int    `json:"guests_count"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	GuestName    string `json:"guest_name"`
	GuestPhone   string `json:"guest_phone"`
}

// ReservationPayload is the write shape for creating a reservation.  The
// two-hour default window is derived from the start time via AddHours.
type ReservationPayload struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	HallID       string `json:"hallId"`
	TableID      string `json:"tableId"`
	Date         string `json:"date"`
	TimeFrom     string `json:"timeFrom"`
	TimeTo       string `json:"timeTo"`
	GuestsCount  int    `json:"guestsCount"`
	GuestName    string `json:"guestName,omitempty"`
	GuestPhone   string `json:"guestPhone,omitempty"`
}

const defaultOpeningHours = "12:00-23:00"

// ToHHMM normalizes a raw time value to "HH:MM".  Values carrying a
// date-time separator lose the date portion; anything else keeps its
// first five characters.
func ToHHMM(raw string) string {
	if raw == "" {
		return ""
	}
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		if len(raw) >= i+6 {
			return raw[i+1 : i+6]
		}
		return raw[i+1:]
	}
	if len(raw) >= 5 {
		return raw[:5]
	}
	return raw
}

// ToISODate normalizes a raw date value to "YYYY-MM-DD" by the same
// truncation rule as ToHHMM.
func ToISODate(raw string) string {
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		return raw[:i]
	}
	if len(raw) >= 10 {
		return raw[:10]
	}
	return raw
}

// AddHours adds n hours to an "HH:MM" time of day.  Sums that would reach
// or cross midnight are clamped to "23:59" instead of rolling over to a
// new date; reservation slots never span midnight.  Unparsable input is
// returned unchanged.
func AddHours(hhmm string, n int) string {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return hhmm
	}
	total := h*60 + m + n*60
	if total >= 24*60 {
		return "23:59"
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ToRestaurant maps a restaurant row.  ID and name are required.
func ToRestaurant(r RestaurantRow) (model.Restaurant, error) {
	if r.ID == "" {
		return model.Restaurant{}, malformed("restaurant id")
	}
	if r.Name == "" {
		return model.Restaurant{}, malformed("restaurant name")
	}
	hours := defaultOpeningHours
	from, to := ToHHMM(r.WorkTimeFrom), ToHHMM(r.WorkTimeTo)
	if from != "" && to != "" {
		hours = from + "-" + to
	}
	return model.Restaurant{
		ID:           r.ID,
		Name:         r.Name,
		Cuisine:      r.CuisineName,
		Image:        r.ImageURL,
		Rating:       r.RatingValue,
		Address:      r.Address,
		OpeningHours: hours,
	}, nil
}

// ToCategory maps a zone row onto a floor category.
func ToCategory(z ZoneRow) (model.Category, error) {
	if z.ID == "" {
		return model.Category{}, malformed("zone id")
	}
	return model.Category{
		ID:              z.ID,
		Title:           z.Name,
		BackgroundColor: z.ColorCode,
		Order:           z.SortOrder,
	}, nil
}

// ToTable maps a table row.  The backend's occupied state becomes
// reserved; any other value is treated as available only when the status
// is one of the two known states.
func ToTable(t TableRow) (model.Table, error) {
	if t.ID == "" {
		return model.Table{}, malformed("table id")
	}
	var status model.TableStatus
	switch t.Status {
	case "occupied":
		status = model.TableReserved
	case "available":
		status = model.TableAvailable
	default:
		return model.Table{}, malformed("table status")
	}
	return model.Table{
		ID:            t.ID,
		Number:        t.TableNumber,
		Capacity:      t.Seats,
		Shape:         model.ShapeCircle,
		Status:        status,
		Zone:          t.HallID,
		HallID:        t.HallID,
		PositionIndex: t.PositionIndex,
	}, nil
}

// FromTable is the inverse of ToTable for write payloads.  Shape is not
// representable on the wire and defaults deterministically on read.
func FromTable(t model.Table) TableRow {
	status := "available"
	if t.Status == model.TableReserved {
		status = "occupied"
	}
	hallID := t.HallID
	if hallID == "" {
		hallID = t.Zone
	}
	return TableRow{
		ID:            t.ID,
		HallID:        hallID,
		TableNumber:   t.Number,
		Seats:         t.Capacity,
		PositionIndex: t.PositionIndex,
		Status:        status,
	}
}

// ToBooking maps a reservation row.  ID, restaurant, table and a known
// status are required; date and start time are normalized.
func ToBooking(r ReservationRow) (model.Booking, error) {
	if r.ID == "" {
		return model.Booking{}, malformed("reservation id")
	}
	if r.RestaurantID == "" {
		return model.Booking{}, malformed("reservation restaurant_id")
	}
	if r.TableID == "" {
		return model.Booking{}, malformed("reservation table_id")
	}
	status := model.BookingStatus(r.Status)
	switch status {
	case model.BookingPending, model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted:
	default:
		return model.Booking{}, malformed("reservation status")
	}
	createdAt, _ := parseTimestamp(r.CreatedAt)
	return model.Booking{
		ID:           r.ID,
		UserID:       r.UserID,
		RestaurantID: r.RestaurantID,
		TableID:      r.TableID,
		Date:         ToISODate(r.Date),
		Time:         ToHHMM(r.TimeFrom),
		Guests:       r.GuestsCount,
		Status:       status,
		CreatedAt:    createdAt,
		UserName:     r.GuestName,
		UserPhone:    r.GuestPhone,
	}, nil
}

// FromBooking builds the creation payload for a booking, deriving the
// two-hour reservation window from the start time.
func FromBooking(b model.Booking, hallID string) ReservationPayload {
	return ReservationPayload{
		RestaurantID: b.RestaurantID,
		HallID:       hallID,
		TableID:      b.TableID,
		Date:         b.Date,
		TimeFrom:     b.Time,
		TimeTo:       AddHours(b.Time, 2),
		GuestsCount:  b.Guests,
		GuestName:    b.UserName,
		GuestPhone:   b.UserPhone,
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}
