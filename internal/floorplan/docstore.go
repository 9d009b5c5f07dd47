package floorplan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/anmarochka/resto-booking/internal/model"
)

const docKeyPrefix = "floorplan:"

// DocStore persists each restaurant's floor plan as a single JSON
// document keyed by restaurant id.  With a Redis client the documents
// survive restarts; without one it degrades to an in-process map, which
// is enough for standalone/demo mode.  Missing or malformed documents
// fall back to the built-in default plan.
type DocStore struct {
	rdb *redis.Client

	mu   sync.Mutex
	mem  map[string][]byte
}

// NewDocStore creates a document store.  rdb may be nil.
func NewDocStore(rdb *redis.Client) *DocStore {
	return &DocStore{rdb: rdb, mem: make(map[string][]byte)}
}

// Load fetches and normalizes the plan for a restaurant, falling back to
// DefaultState when the document is absent or does not parse.
func (d *DocStore) Load(ctx context.Context, restaurantID string) (*model.FloorPlanState, error) {
	raw, ok := d.read(ctx, restaurantID)
	if !ok {
		return DefaultState(), nil
	}
	var state model.FloorPlanState
	if err := json.Unmarshal(raw, &state); err != nil || len(state.Categories) == 0 {
		return DefaultState(), nil
	}
	Normalize(&state)
	return &state, nil
}

// Save writes the normalized plan back as one JSON blob.
func (d *DocStore) Save(ctx context.Context, restaurantID string, state *model.FloorPlanState) error {
	Normalize(state)
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := d.write(ctx, restaurantID, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

func (d *DocStore) read(ctx context.Context, restaurantID string) ([]byte, bool) {
	if d.rdb != nil {
		raw, err := d.rdb.Get(ctx, docKeyPrefix+restaurantID).Bytes()
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	raw, ok := d.mem[restaurantID]
	return raw, ok
}

func (d *DocStore) write(ctx context.Context, restaurantID string, raw []byte) error {
	if d.rdb != nil {
		return d.rdb.Set(ctx, docKeyPrefix+restaurantID, raw, 0).Err()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mem[restaurantID] = raw
	return nil
}
