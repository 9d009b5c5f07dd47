package floorplan

import (
	"context"
	"sync"
)

// Manager owns the per-restaurant editing sessions.  Sessions are created
// lazily from the store and kept until reset, so an admin's unsaved edits
// survive across requests.  All engine state lives here, injected where
// needed, never in package-level variables.
type Manager struct {
	store Store

	mu       sync.Mutex
	sessions map[string]*Editor
}

// NewManager creates a session manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store, sessions: make(map[string]*Editor)}
}

// With runs fn against the restaurant's editor under the manager lock,
// loading the session from the store on first use.
func (m *Manager) With(ctx context.Context, restaurantID string, fn func(e *Editor) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[restaurantID]
	if !ok {
		state, err := m.store.Load(ctx, restaurantID)
		if err != nil {
			return err
		}
		e = NewEditor(state)
		m.sessions[restaurantID] = e
	}
	return fn(e)
}

// Save persists the restaurant's session through the store.
func (m *Manager) Save(ctx context.Context, restaurantID string) error {
	return m.With(ctx, restaurantID, func(e *Editor) error {
		return e.Save(ctx, m.store, restaurantID)
	})
}

// Reset discards the session so the next access reloads from the store.
func (m *Manager) Reset(restaurantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, restaurantID)
}
