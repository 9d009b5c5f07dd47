package floorplan

import (
	"context"
	"errors"

	"github.com/anmarochka/resto-booking/internal/model"
)

// ErrSaveFailed wraps any failure while persisting a floor plan.  The
// triple is written as independent sub-resources, so a partial failure
// may leave the external store inconsistent; callers keep their local
// edits dirty and retry.
var ErrSaveFailed = errors.New("floor plan save failed")

// Store loads and persists a restaurant's floor-plan triple.  Load must
// return a usable (normalized) state even when the backing document is
// missing or malformed.
type Store interface {
	Load(ctx context.Context, restaurantID string) (*model.FloorPlanState, error)
	Save(ctx context.Context, restaurantID string, state *model.FloorPlanState) error
}
