package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/mapper"
	"github.com/anmarochka/resto-booking/internal/model"
)

// FloorPlanRepo is the SQL implementation of floorplan.Store.  A plan is
// three sub-resources: the halls (zones), the tables, and the per-zone
// display order.  Each sub-resource is written independently, so a save
// can partially succeed; the caller keeps its dirty state and retries
// when floorplan.ErrSaveFailed comes back.
type FloorPlanRepo struct {
	db *sql.DB
}

func NewFloorPlanRepo(db *sql.DB) *FloorPlanRepo { return &FloorPlanRepo{db: db} }

// Load assembles the plan from halls, tables and table_order.  A
// restaurant without any halls gets the seeded default layout.
func (r *FloorPlanRepo) Load(ctx context.Context, restaurantID string) (*model.FloorPlanState, error) {
	cats, err := r.loadCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return floorplan.DefaultState(), nil
	}
	tables, err := r.loadTables(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	order, err := r.loadOrder(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	state := &model.FloorPlanState{Categories: cats, Tables: tables, OrderByCategory: order}
	floorplan.Normalize(state)
	return state, nil
}

func (r *FloorPlanRepo) loadCategories(ctx context.Context, restaurantID string) ([]model.Category, error) {
	const q = `SELECT id, name, color_code, sort_order
	           FROM halls WHERE restaurant_id = ? ORDER BY sort_order`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var z mapper.ZoneRow
		var color sql.NullString
		if err := rows.Scan(&z.ID, &z.Name, &color, &z.SortOrder); err != nil {
			return nil, err
		}
		z.ColorCode = color.String
		c, err := mapper.ToCategory(z)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *FloorPlanRepo) loadTables(ctx context.Context, restaurantID string) ([]model.Table, error) {
	const q = `SELECT t.id, t.hall_id, t.table_number, t.seats, t.position_index, t.status
	           FROM tables t
	           JOIN halls h ON h.id = t.hall_id
	           WHERE h.restaurant_id = ?
	           ORDER BY t.table_number`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Table
	for rows.Next() {
		var rec mapper.TableRow
		if err := rows.Scan(&rec.ID, &rec.HallID, &rec.TableNumber, &rec.Seats,
			&rec.PositionIndex, &rec.Status); err != nil {
			return nil, err
		}
		t, err := mapper.ToTable(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *FloorPlanRepo) loadOrder(ctx context.Context, restaurantID string) (map[string][]string, error) {
	const q = `SELECT o.hall_id, o.table_id
	           FROM table_order o
	           JOIN halls h ON h.id = o.hall_id
	           WHERE h.restaurant_id = ?
	           ORDER BY o.hall_id, o.rank`
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var hallID, tableID string
		if err := rows.Scan(&hallID, &tableID); err != nil {
			return nil, err
		}
		out[hallID] = append(out[hallID], tableID)
	}
	return out, rows.Err()
}

// Save replaces the stored plan sub-resource by sub-resource.  Zones go
// first because tables reference them; the order list goes last.  The
// first failing write aborts the rest and surfaces as ErrSaveFailed,
// leaving whatever already landed in place.
func (r *FloorPlanRepo) Save(ctx context.Context, restaurantID string, state *model.FloorPlanState) error {
	floorplan.Normalize(state)
	if err := r.saveCategories(ctx, restaurantID, state.Categories); err != nil {
		return fmt.Errorf("%w: zones: %v", floorplan.ErrSaveFailed, err)
	}
	if err := r.saveTables(ctx, restaurantID, state); err != nil {
		return fmt.Errorf("%w: tables: %v", floorplan.ErrSaveFailed, err)
	}
	if err := r.saveOrder(ctx, restaurantID, state.OrderByCategory); err != nil {
		return fmt.Errorf("%w: order: %v", floorplan.ErrSaveFailed, err)
	}
	return nil
}

func (r *FloorPlanRepo) saveCategories(ctx context.Context, restaurantID string, cats []model.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	keep := make([]string, 0, len(cats))
	for _, c := range cats {
		keep = append(keep, c.ID)
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO halls (id, restaurant_id, name, color_code, sort_order)
			 VALUES (?, ?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE name = VALUES(name),
			   color_code = VALUES(color_code), sort_order = VALUES(sort_order)`,
			c.ID, restaurantID, c.Title, c.BackgroundColor, c.Order); err != nil {
			return err
		}
	}
	err = r.deleteOthers(ctx, tx, `DELETE FROM halls WHERE restaurant_id = ?`, restaurantID, keep)
	return err
}

func (r *FloorPlanRepo) saveTables(ctx context.Context, restaurantID string, state *model.FloorPlanState) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	keep := make([]string, 0, len(state.Tables))
	for _, t := range state.Tables {
		rec := mapper.FromTable(t)
		keep = append(keep, rec.ID)
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO tables (id, hall_id, table_number, seats, position_index, status)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE hall_id = VALUES(hall_id),
			   table_number = VALUES(table_number), seats = VALUES(seats),
			   position_index = VALUES(position_index), status = VALUES(status)`,
			rec.ID, rec.HallID, rec.TableNumber, rec.Seats, rec.PositionIndex, rec.Status); err != nil {
			return err
		}
	}
	err = r.deleteOthers(ctx, tx,
		`DELETE t FROM tables t JOIN halls h ON h.id = t.hall_id WHERE h.restaurant_id = ?`,
		restaurantID, keep)
	return err
}

func (r *FloorPlanRepo) saveOrder(ctx context.Context, restaurantID string, order map[string][]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE o FROM table_order o JOIN halls h ON h.id = o.hall_id WHERE h.restaurant_id = ?`,
		restaurantID); err != nil {
		return err
	}
	for hallID, ids := range order {
		for rank, tableID := range ids {
			// RANK is reserved since MySQL 8.0.2; the bare column name
			// must be quoted.
			if _, err = tx.ExecContext(ctx,
				"INSERT INTO table_order (hall_id, table_id, `rank`) VALUES (?, ?, ?)",
				hallID, tableID, rank+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// deleteOthers removes rows scoped to the restaurant whose id is not in
// keep.  An empty keep list deletes them all.
func (r *FloorPlanRepo) deleteOthers(ctx context.Context, tx *sql.Tx, base, restaurantID string, keep []string) error {
	if len(keep) == 0 {
		_, err := tx.ExecContext(ctx, base, restaurantID)
		return err
	}
	args := make([]any, 0, len(keep)+1)
	args = append(args, restaurantID)
	placeholders := make([]string, len(keep))
	for i, id := range keep {
		placeholders[i] = "?"
		args = append(args, id)
	}
	alias := "id"
	if strings.Contains(base, " t ") {
		alias = "t.id"
	}
	q := base + " AND " + alias + " NOT IN (" + strings.Join(placeholders, ",") + ")"
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}
