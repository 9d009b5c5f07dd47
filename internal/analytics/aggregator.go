package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/anmarochka/resto-booking/internal/model"
)

// timeProbes are the fixed times of day sampled for the load curve; a
// probe is considered full at 20 confirmed guests.
var timeProbes = []string{"18:30", "19:00", "20:00"}

const probeFullGuests = 20

// snapshotEvents is how many feed entries the snapshot exposes.
const snapshotEvents = 8

var weekdayRU = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// ComputeSnapshot derives the dashboard aggregate for one restaurant.  It
// is a pure function of its inputs and the given instant; nothing is
// cached or stored.  Bookings not belonging to the restaurant are
// ignored, so callers may pass an unfiltered collection.
func ComputeSnapshot(restaurantID string, bookings []model.Booking, state *model.FloorPlanState, log *EventLog, now time.Time) model.AnalyticsSnapshot {
	var own []model.Booking
	for _, b := range bookings {
		if b.RestaurantID == restaurantID {
			own = append(own, b)
		}
	}

	today := isoDate(now)
	bookingsToday := 0
	active := 0
	for _, b := range own {
		if b.Date == today {
			bookingsToday++
		}
		if b.Status == model.BookingConfirmed || b.Status == model.BookingPending {
			active++
		}
	}

	// Current load: confirmed bookings today within ±120 minutes of now.
	// The difference is an absolute minute count, deliberately not
	// wraparound-aware at midnight.
	nowMinutes := now.Hour()*60 + now.Minute()
	load := 0
	for _, b := range own {
		if b.Status != model.BookingConfirmed || b.Date != today {
			continue
		}
		m, ok := minutesOfDay(b.Time)
		if !ok {
			continue
		}
		diff := m - nowMinutes
		if diff < 0 {
			diff = -diff
		}
		if diff <= 120 {
			load += b.Guests
		}
	}

	last7 := make([]time.Time, 7)
	last7Set := make(map[string]bool, 7)
	for i := 0; i < 7; i++ {
		d := now.AddDate(0, 0, -(6 - i))
		last7[i] = d
		last7Set[isoDate(d)] = true
	}

	// Peak time over the trailing 7 days by summed guests; ties keep the
	// first time encountered in iteration order.
	guestsByTime := make(map[string]int)
	var timeOrder []string
	for _, b := range own {
		if !last7Set[b.Date] {
			continue
		}
		if _, seen := guestsByTime[b.Time]; !seen {
			timeOrder = append(timeOrder, b.Time)
		}
		guestsByTime[b.Time] += b.Guests
	}
	peakTime := ""
	best := -1
	for _, t := range timeOrder {
		if guestsByTime[t] > best {
			best = guestsByTime[t]
			peakTime = t
		}
	}
	if peakTime == "" {
		if len(own) > 0 {
			peakTime = own[0].Time
		} else {
			peakTime = "19:00"
		}
	}

	byDay := make([]model.DayStat, 0, 7)
	for _, d := range last7 {
		iso := isoDate(d)
		stat := model.DayStat{Label: weekdayRU[int(d.Weekday())]}
		for _, b := range own {
			if b.Date == iso {
				stat.Bookings++
				stat.Guests += b.Guests
			}
		}
		byDay = append(byDay, stat)
	}

	dist := make([]model.TimePoint, 0, len(timeProbes))
	for _, probe := range timeProbes {
		guests := 0
		for _, b := range own {
			if b.Status == model.BookingConfirmed && b.Time == probe {
				guests += b.Guests
			}
		}
		l := float64(guests) / probeFullGuests
		if l > 1 {
			l = 1
		}
		dist = append(dist, model.TimePoint{Time: probe, Load: l})
	}

	snapshot := model.AnalyticsSnapshot{
		Connected:         true,
		BookingsToday:     bookingsToday,
		CurrentGuestsLoad: load,
		PeakTime:          peakTime,
		ActiveBookings:    active,
		BookingsByDay:     byDay,
		TimeDistribution:  dist,
		ZonePopularity:    zonePopularity(own, state),
		Totals:            totals(own),
	}
	if log != nil {
		snapshot.Events = log.Recent(restaurantID, snapshotEvents)
	}
	return snapshot
}

// zonePopularity resolves each non-cancelled booking's table to its zone
// and reports every category's percentage share, in display order.  With
// zero eligible bookings every category reports 0%, never NaN.
func zonePopularity(own []model.Booking, state *model.FloorPlanState) []model.ZoneShare {
	if state == nil {
		return nil
	}
	zoneByTable := make(map[string]string, len(state.Tables))
	for _, t := range state.Tables {
		zoneByTable[t.ID] = t.Zone
	}
	counts := make(map[string]int)
	total := 0
	for _, b := range own {
		if b.Status == model.BookingCancelled {
			continue
		}
		zone, ok := zoneByTable[b.TableID]
		if !ok {
			continue
		}
		counts[zone]++
		total++
	}

	cats := append([]model.Category(nil), state.Categories...)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })

	out := make([]model.ZoneShare, 0, len(cats))
	for _, c := range cats {
		percent := 0.0
		if total > 0 {
			percent = clampPercent(float64(counts[c.ID]) / float64(total) * 100)
		}
		out = append(out, model.ZoneShare{CategoryID: c.ID, Label: c.Title, Percent: percent})
	}
	return out
}

func totals(own []model.Booking) model.Totals {
	total := len(own)
	if total == 0 {
		return model.Totals{AttendancePercent: 100}
	}
	guests := 0
	cancelled := 0
	for _, b := range own {
		guests += b.Guests
		if b.Status == model.BookingCancelled {
			cancelled++
		}
	}
	avg := math.Round(float64(guests)/float64(total)*10) / 10
	cancelRate := clampPercent(float64(cancelled) / float64(total) * 100)
	attendance := clampPercent(100 - cancelRate)
	return model.Totals{
		TotalBookings:     total,
		AvgGuests:         avg,
		AttendancePercent: int(math.Round(attendance)),
	}
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func isoDate(t time.Time) string { return t.Format("2006-01-02") }

func minutesOfDay(hhmm string) (int, bool) {
	if len(hhmm) < 5 || hhmm[2] != ':' {
		return 0, false
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
