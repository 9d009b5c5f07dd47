// Package repository contains data access logic separated from HTTP handlers.
// Repositories scan rows into wire records and hand them to the mapper, so
// nullable columns and legacy status spellings never leak past this layer.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/anmarochka/resto-booking/internal/mapper"
	"github.com/anmarochka/resto-booking/internal/model"
)

// ErrRestaurantNotFound is returned when a restaurant cannot be found in the DB.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantRepo encapsulates all database queries related to restaurants.
// It depends on a sql.DB connection which should be configured elsewhere.
type RestaurantRepo struct {
	db *sql.DB
}

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

const restaurantColumns = `r.id, r.name, r.description, c.name, r.image_url,
	r.rating, r.price_range, r.address, r.phone, r.work_time_from, r.work_time_to`

func scanRestaurant(row interface{ Scan(...any) error }) (model.Restaurant, error) {
	var (
		rec     mapper.RestaurantRow
		desc    sql.NullString
		cuisine sql.NullString
		image   sql.NullString
		rating  sql.NullFloat64
		price   sql.NullString
		phone   sql.NullString
		from    sql.NullString
		to      sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.Name, &desc, &cuisine, &image,
		&rating, &price, &rec.Address, &phone, &from, &to); err != nil {
		return model.Restaurant{}, err
	}
	rec.CuisineName = cuisine.String
	rec.ImageURL = image.String
	rec.RatingValue = rating.Float64
	rec.WorkTimeFrom = from.String
	rec.WorkTimeTo = to.String

	rest, err := mapper.ToRestaurant(rec)
	if err != nil {
		return model.Restaurant{}, err
	}
	rest.Description = desc.String
	rest.PriceRange = price.String
	rest.Phone = phone.String
	return rest, nil
}

// ListAll returns every restaurant ordered by name, for the public
// browsing endpoints.
func (r *RestaurantRepo) ListAll(ctx context.Context) ([]model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + `
	           FROM restaurants r
	           LEFT JOIN cuisines c ON c.id = r.cuisine_id
	           ORDER BY r.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a restaurant by id, returning ErrRestaurantNotFound
// when no row exists.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (model.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + `
	           FROM restaurants r
	           LEFT JOIN cuisines c ON c.id = r.cuisine_id
	           WHERE r.id = ?`
	rest, err := scanRestaurant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Restaurant{}, ErrRestaurantNotFound
		}
		return model.Restaurant{}, err
	}
	return rest, nil
}

// RestaurantName resolves an id to a display name for live-feed messages.
// A missing restaurant yields ErrRestaurantNotFound.
func (r *RestaurantRepo) RestaurantName(ctx context.Context, id string) (string, error) {
	const q = `SELECT name FROM restaurants WHERE id = ?`
	var name string
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRestaurantNotFound
		}
		return "", err
	}
	return name, nil
}
