package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/anmarochka/resto-booking/internal/booking"
	"github.com/anmarochka/resto-booking/internal/mapper"
	"github.com/anmarochka/resto-booking/internal/model"
)

// BookingRepo persists bookings in the reservations table.  It satisfies
// booking.Store and reports booking.ErrNotFound for missing ids so the
// service layer never sees sql sentinels.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, restaurant_id, table_id, date, time_from,
	guests_count, status, created_at, guest_name, guest_phone`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var (
		rec   mapper.ReservationRow
		name  sql.NullString
		phone sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.RestaurantID, &rec.TableID,
		&rec.Date, &rec.TimeFrom, &rec.GuestsCount, &rec.Status,
		&rec.CreatedAt, &name, &phone); err != nil {
		return model.Booking{}, err
	}
	rec.GuestName = name.String
	rec.GuestPhone = phone.String
	return mapper.ToBooking(rec)
}

// Insert stores a new booking.  The id is assigned by the caller.  A
// table that already has an active booking for the same date and start
// time is rejected with ErrConflict.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const qTaken = `SELECT COUNT(*) FROM reservations
	                WHERE table_id = ? AND date = ? AND time_from = ?
	                  AND status IN ('pending', 'confirmed')`
	var taken int
	if err := r.db.QueryRowContext(ctx, qTaken, b.TableID, b.Date, b.Time).Scan(&taken); err != nil {
		return err
	}
	if taken > 0 {
		return ErrConflict
	}

	const q = `INSERT INTO reservations
	           (id, user_id, restaurant_id, table_id, date, time_from, time_to,
	            guests_count, status, created_at, guest_name, guest_phone)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.UserID, b.RestaurantID, b.TableID, b.Date, b.Time,
		mapper.AddHours(b.Time, 2), b.Guests, string(b.Status),
		b.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		nullIfEmpty(b.UserName), nullIfEmpty(b.UserPhone))
	return err
}

// Get fetches one booking by id.
func (r *BookingRepo) Get(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM reservations WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatus sets the booking status.  Zero rows affected means the
// booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM reservations WHERE user_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

// ListByRestaurant returns every booking of a restaurant, newest first.
func (r *BookingRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM reservations WHERE restaurant_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, restaurantID)
}

func (r *BookingRepo) list(ctx context.Context, q string, arg any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
