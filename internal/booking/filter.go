// Package booking implements the booking lifecycle and the admin-facing
// query/filter engine: status filtering, free-text search, chronological
// ordering and the Russian guest-count labels.
package booking

import (
	"sort"
	"strconv"
	"strings"

	"github.com/anmarochka/resto-booking/internal/model"
)

// FilterOptions narrows a booking listing.  Status is an exact match or
// "all"/"" for pass-through; Query is a case-insensitive substring match.
type FilterOptions struct {
	Status string
	Query  string
}

// Filter returns the bookings ordered most-recent-first and narrowed by
// status and free text.  The query matches guest name, phone, time, date,
// the resolved table number (when the table collection can resolve it)
// and the raw table id; an empty query matches everything.
func Filter(bookings []model.Booking, opts FilterOptions, tables []model.Table) []model.Booking {
	numberByTable := make(map[string]int, len(tables))
	for _, t := range tables {
		numberByTable[t.ID] = t.Number
	}

	out := append([]model.Booking(nil), bookings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	q := strings.ToLower(strings.TrimSpace(opts.Query))
	status := opts.Status
	if status == "all" {
		status = ""
	}

	filtered := out[:0]
	for _, b := range out {
		if status != "" && string(b.Status) != status {
			continue
		}
		if q != "" && !matchesQuery(b, q, numberByTable) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

func matchesQuery(b model.Booking, q string, numberByTable map[string]int) bool {
	if strings.Contains(strings.ToLower(b.UserName), q) ||
		strings.Contains(strings.ToLower(b.UserPhone), q) ||
		strings.Contains(strings.ToLower(b.Time), q) ||
		strings.Contains(strings.ToLower(b.Date), q) ||
		strings.Contains(strings.ToLower(b.TableID), q) {
		return true
	}
	if n, ok := numberByTable[b.TableID]; ok && strings.Contains(strconv.Itoa(n), q) {
		return true
	}
	return false
}

// FormatGuests renders a guest count with the correct Russian plural
// form: 1 человек, 2 человека, 5 человек, 21 человек.
func FormatGuests(n int) string {
	mod10, mod100 := n%10, n%100
	word := "человек"
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		word = "человека"
	}
	return strconv.Itoa(n) + " " + word
}

// ValidatePhone keeps digits and a leading "+" and accepts the result
// when at least 7 characters remain.  This is the sole gate for the
// admin manual-entry form.
func ValidatePhone(phone string) bool {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.Len() >= 7
}
