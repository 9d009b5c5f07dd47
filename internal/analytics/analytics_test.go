package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anmarochka/resto-booking/internal/model"
)

func testState() *model.FloorPlanState {
	return &model.FloorPlanState{
		Categories: []model.Category{
			{ID: "window", Title: "У окна", Order: 1},
			{ID: "main", Title: "Основной зал", Order: 2},
		},
		Tables: []model.Table{
			{ID: "t1", Number: 1, Zone: "window"},
			{ID: "t2", Number: 2, Zone: "main"},
			{ID: "t3", Number: 3, Zone: "main"},
		},
		OrderByCategory: map[string][]string{
			"window": {"t1"},
			"main":   {"t2", "t3"},
		},
	}
}

func TestComputeSnapshotEmpty(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	snap := ComputeSnapshot("r1", nil, testState(), NewEventLog(), now)

	if snap.BookingsToday != 0 || snap.CurrentGuestsLoad != 0 || snap.ActiveBookings != 0 {
		t.Fatalf("expected zero counters, got %+v", snap)
	}
	if snap.PeakTime != "19:00" {
		t.Fatalf("peak time fallback = %q, want 19:00", snap.PeakTime)
	}
	if snap.Totals.AttendancePercent != 100 {
		t.Fatalf("attendance = %d, want 100", snap.Totals.AttendancePercent)
	}
	if snap.Totals.AvgGuests != 0 {
		t.Fatalf("avg guests = %v, want 0", snap.Totals.AvgGuests)
	}
	if len(snap.BookingsByDay) != 7 {
		t.Fatalf("bookingsByDay length = %d, want 7", len(snap.BookingsByDay))
	}
	for _, z := range snap.ZonePopularity {
		if z.Percent != 0 {
			t.Fatalf("zone %s percent = %v with no bookings", z.CategoryID, z.Percent)
		}
	}
	for _, p := range snap.TimeDistribution {
		if p.Load != 0 {
			t.Fatalf("probe %s load = %v with no bookings", p.Time, p.Load)
		}
	}
}

func TestComputeSnapshotLoadWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")
	bookings := []model.Booking{
		{ID: "b1", RestaurantID: "r1", TableID: "t1", Date: today, Time: "18:00", Guests: 2, Status: model.BookingConfirmed},
		{ID: "b2", RestaurantID: "r1", TableID: "t2", Date: today, Time: "21:00", Guests: 4, Status: model.BookingConfirmed},
		{ID: "b3", RestaurantID: "r1", TableID: "t3", Date: today, Time: "21:01", Guests: 6, Status: model.BookingConfirmed},
		{ID: "b4", RestaurantID: "r1", TableID: "t1", Date: today, Time: "19:30", Guests: 3, Status: model.BookingPending},
		{ID: "b5", RestaurantID: "r2", TableID: "t1", Date: today, Time: "19:00", Guests: 8, Status: model.BookingConfirmed},
	}
	snap := ComputeSnapshot("r1", bookings, testState(), nil, now)

	// 18:00 and 21:00 sit exactly on the 120 minute edge; 21:01 is out,
	// the pending booking does not count, nor does the other restaurant.
	if snap.CurrentGuestsLoad != 6 {
		t.Fatalf("currentGuestsLoad = %d, want 6", snap.CurrentGuestsLoad)
	}
	if snap.BookingsToday != 4 {
		t.Fatalf("bookingsToday = %d, want 4", snap.BookingsToday)
	}
	if snap.ActiveBookings != 4 {
		t.Fatalf("activeBookings = %d, want 4", snap.ActiveBookings)
	}
}

func TestComputeSnapshotPeakTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")
	old := now.AddDate(0, 0, -9).Format("2006-01-02")
	bookings := []model.Booking{
		{ID: "b1", RestaurantID: "r1", TableID: "t1", Date: today, Time: "18:00", Guests: 2, Status: model.BookingConfirmed},
		{ID: "b2", RestaurantID: "r1", TableID: "t2", Date: today, Time: "20:00", Guests: 5, Status: model.BookingConfirmed},
		{ID: "b3", RestaurantID: "r1", TableID: "t3", Date: today, Time: "18:00", Guests: 2, Status: model.BookingPending},
		{ID: "b4", RestaurantID: "r1", TableID: "t1", Date: old, Time: "21:00", Guests: 50, Status: model.BookingConfirmed},
	}
	snap := ComputeSnapshot("r1", bookings, testState(), nil, now)
	if snap.PeakTime != "20:00" {
		t.Fatalf("peakTime = %q, want 20:00", snap.PeakTime)
	}
}

func TestComputeSnapshotZonesAndTotals(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")
	bookings := []model.Booking{
		{ID: "b1", RestaurantID: "r1", TableID: "t1", Date: today, Time: "19:00", Guests: 2, Status: model.BookingConfirmed},
		{ID: "b2", RestaurantID: "r1", TableID: "t2", Date: today, Time: "19:00", Guests: 4, Status: model.BookingConfirmed},
		{ID: "b3", RestaurantID: "r1", TableID: "t2", Date: today, Time: "19:00", Guests: 3, Status: model.BookingCancelled},
		{ID: "b4", RestaurantID: "r1", TableID: "t3", Date: today, Time: "19:00", Guests: 6, Status: model.BookingCompleted},
	}
	snap := ComputeSnapshot("r1", bookings, testState(), nil, now)

	if len(snap.ZonePopularity) != 2 {
		t.Fatalf("zone count = %d, want 2", len(snap.ZonePopularity))
	}
	window, main := snap.ZonePopularity[0], snap.ZonePopularity[1]
	if window.CategoryID != "window" || main.CategoryID != "main" {
		t.Fatalf("zones out of display order: %+v", snap.ZonePopularity)
	}
	// 3 non-cancelled bookings: 1 window, 2 main.
	if got := fmt.Sprintf("%.1f", window.Percent); got != "33.3" {
		t.Fatalf("window share = %v", window.Percent)
	}
	if got := fmt.Sprintf("%.1f", main.Percent); got != "66.7" {
		t.Fatalf("main share = %v", main.Percent)
	}

	if snap.Totals.TotalBookings != 4 {
		t.Fatalf("totalBookings = %d", snap.Totals.TotalBookings)
	}
	if snap.Totals.AvgGuests != 3.8 {
		t.Fatalf("avgGuests = %v, want 3.8", snap.Totals.AvgGuests)
	}
	// 1 of 4 cancelled: attendance 100-25 = 75.
	if snap.Totals.AttendancePercent != 75 {
		t.Fatalf("attendance = %d, want 75", snap.Totals.AttendancePercent)
	}
}

func TestComputeSnapshotTimeDistribution(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")
	bookings := []model.Booking{
		{ID: "b1", RestaurantID: "r1", TableID: "t1", Date: today, Time: "19:00", Guests: 10, Status: model.BookingConfirmed},
		{ID: "b2", RestaurantID: "r1", TableID: "t2", Date: today, Time: "20:00", Guests: 30, Status: model.BookingConfirmed},
		{ID: "b3", RestaurantID: "r1", TableID: "t3", Date: today, Time: "18:30", Guests: 5, Status: model.BookingPending},
	}
	snap := ComputeSnapshot("r1", bookings, testState(), nil, now)

	want := map[string]float64{"18:30": 0, "19:00": 0.5, "20:00": 1}
	for _, p := range snap.TimeDistribution {
		if p.Load != want[p.Time] {
			t.Fatalf("probe %s load = %v, want %v", p.Time, p.Load, want[p.Time])
		}
	}
}

func TestEventLogCapAndOrder(t *testing.T) {
	log := NewEventLog()
	for i := 0; i < 60; i++ {
		log.Append(model.AnalyticsEvent{
			RestaurantID: "r1",
			Type:         model.EventBookingCreated,
			Title:        fmt.Sprintf("ev-%d", i),
		})
	}
	if log.Len("r1") != 50 {
		t.Fatalf("len = %d, want 50", log.Len("r1"))
	}
	recent := log.Recent("r1", 8)
	if len(recent) != 8 {
		t.Fatalf("recent = %d entries, want 8", len(recent))
	}
	if recent[0].Title != "ev-59" {
		t.Fatalf("newest entry = %q, want ev-59", recent[0].Title)
	}
	if recent[0].ID == "" || recent[0].CreatedAt.IsZero() {
		t.Fatalf("id/timestamp not assigned: %+v", recent[0])
	}
	if got := log.Recent("r2", 8); len(got) != 0 {
		t.Fatalf("unrelated restaurant has %d events", len(got))
	}
}

func TestRefresherStops(t *testing.T) {
	fired := make(chan struct{}, 16)
	r := NewRefresher(5*time.Millisecond, func(ctx context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	done := make(chan struct{})
	go func() {
		r.Start(context.Background())
		close(done)
	}()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("refresher never ticked")
	}
	r.Stop()
	r.Stop() // idempotent
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestSnapshotCacheFreshness(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	c := NewSnapshotCache(30 * time.Second)

	if _, ok := c.Get("r1", now); ok {
		t.Fatal("empty cache must miss")
	}

	c.Put("r1", model.AnalyticsSnapshot{BookingsToday: 3}, now)
	snap, ok := c.Get("r1", now.Add(29*time.Second))
	if !ok || snap.BookingsToday != 3 {
		t.Fatalf("expected fresh hit, got ok=%v snap=%+v", ok, snap)
	}
	if _, ok := c.Get("r1", now.Add(31*time.Second)); ok {
		t.Fatal("stale entry must miss")
	}
	if _, ok := c.Get("r2", now); ok {
		t.Fatal("unknown restaurant must miss")
	}
}
