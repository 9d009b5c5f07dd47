package floorplan

import (
	"context"
	"errors"
	"testing"

	"github.com/anmarochka/resto-booking/internal/model"
)

// checkOrderInvariant verifies that every table appears exactly once in
// its own zone's order list and in no other list.
func checkOrderInvariant(t *testing.T, e *Editor) {
	t.Helper()
	s := e.State()
	seen := make(map[string]string)
	for catID, ids := range s.OrderByCategory {
		for _, id := range ids {
			if prev, ok := seen[id]; ok {
				t.Fatalf("table %s listed in both %s and %s", id, prev, catID)
			}
			seen[id] = catID
		}
	}
	for _, tab := range s.Tables {
		if seen[tab.ID] != tab.Zone {
			t.Fatalf("table %s (zone %s) listed under %q", tab.ID, tab.Zone, seen[tab.ID])
		}
	}
	if len(seen) != len(s.Tables) {
		t.Fatalf("order lists hold %d ids, want %d", len(seen), len(s.Tables))
	}
}

func TestAddTableNumbersAndInvariant(t *testing.T) {
	e := NewEditor(&model.FloorPlanState{Categories: []model.Category{{ID: "main", Title: "Основной зал", Order: 1}}})

	first, err := e.AddTable("main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Number != 1 {
		t.Fatalf("first table must get number 1, got %d", first.Number)
	}
	if first.Capacity != 2 || first.Shape != model.ShapeCircle || first.Status != model.TableAvailable {
		t.Fatalf("unexpected defaults: %+v", first)
	}
	second, _ := e.AddTable("main")
	if second.Number != 2 {
		t.Fatalf("expected number 2, got %d", second.Number)
	}
	if e.Selected() != second.ID {
		t.Fatalf("new table must be selected")
	}
	if !e.Dirty() {
		t.Fatalf("adding a table must mark the session dirty")
	}
	checkOrderInvariant(t, e)
}

func TestAddTableWithoutCategories(t *testing.T) {
	e := NewEditor(&model.FloorPlanState{})
	if _, err := e.AddTable(""); !errors.Is(err, ErrNoCategory) {
		t.Fatalf("expected ErrNoCategory, got %v", err)
	}
}

func TestDeleteTableClearsEverywhere(t *testing.T) {
	e := NewEditor(DefaultState())
	e.Select("t5")
	e.DeleteTable("t5")
	s := e.State()
	for _, tab := range s.Tables {
		if tab.ID == "t5" {
			t.Fatalf("table must be gone")
		}
	}
	for catID, ids := range s.OrderByCategory {
		for _, id := range ids {
			if id == "t5" {
				t.Fatalf("order list %s still references deleted table", catID)
			}
		}
	}
	if e.Selected() != "" {
		t.Fatalf("selection must clear when the selected table is deleted")
	}
	checkOrderInvariant(t, e)
}

func TestMoveTableToCategoryWithAnchor(t *testing.T) {
	e := NewEditor(DefaultState())
	// Drop t1 (window) onto t8 (vip): insert before the anchor.
	e.MoveTableToCategory("t1", "vip", "t8")
	s := e.State()
	want := []string{"t7", "t1", "t8", "t9"}
	got := s.OrderByCategory["vip"]
	if len(got) != len(want) {
		t.Fatalf("vip order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vip order = %v, want %v", got, want)
		}
	}
	checkOrderInvariant(t, e)
}

func TestMoveTableMissingAnchorAppends(t *testing.T) {
	e := NewEditor(DefaultState())
	e.MoveTableToCategory("t1", "vip", "nope")
	s := e.State()
	vip := s.OrderByCategory["vip"]
	if vip[len(vip)-1] != "t1" {
		t.Fatalf("missing anchor must append, got %v", vip)
	}
	checkOrderInvariant(t, e)
}

func TestApplyMoveReconciliation(t *testing.T) {
	e := NewEditor(DefaultState())

	// Drop onto own category background: move to end.
	e.ApplyMove(MoveRequest{TableID: "t1", FromCategoryID: "window", ToCategoryID: "window"})
	win := e.State().OrderByCategory["window"]
	if win[len(win)-1] != "t1" {
		t.Fatalf("same-category drop must move to end, got %v", win)
	}

	// Drop onto another category's table: insert before it.
	e.ApplyMove(MoveRequest{TableID: "t2", FromCategoryID: "window", ToCategoryID: "main", BeforeTableID: "t4"})
	main := e.State().OrderByCategory["main"]
	if main[0] != "t2" {
		t.Fatalf("anchored drop must insert before anchor, got %v", main)
	}

	// Unresolvable payload: ignored, no mutation.
	before := e.State()
	e.ApplyMove(MoveRequest{TableID: "ghost", ToCategoryID: "main"})
	after := e.State()
	if len(after.Tables) != len(before.Tables) || len(after.OrderByCategory["main"]) != len(before.OrderByCategory["main"]) {
		t.Fatalf("unknown payload must not mutate state")
	}
	checkOrderInvariant(t, e)
}

func TestAddCategoryEmptyTitleIsNoop(t *testing.T) {
	e := NewEditor(DefaultState())
	if id := e.AddCategory("   ", "oklch(1 0 0)"); id != "" {
		t.Fatalf("blank title must be rejected silently, got id %q", id)
	}
	if len(e.State().Categories) != 3 {
		t.Fatalf("category count must be unchanged")
	}
}

func TestAddCategoryAssignsNextOrder(t *testing.T) {
	e := NewEditor(DefaultState())
	id := e.AddCategory("Терраса", "oklch(0.9 0.01 120)")
	if id == "" {
		t.Fatalf("expected a category id")
	}
	s := e.State()
	var created model.Category
	for _, c := range s.Categories {
		if c.ID == id {
			created = c
		}
	}
	if created.Order != 4 {
		t.Fatalf("expected order 4, got %d", created.Order)
	}
	if ids, ok := s.OrderByCategory[id]; !ok || len(ids) != 0 {
		t.Fatalf("new category must start with an empty order list")
	}
}

func TestDeleteLastCategoryIsRefused(t *testing.T) {
	e := NewEditor(&model.FloorPlanState{Categories: []model.Category{{ID: "main", Title: "Основной зал", Order: 1}}})
	if err := e.DeleteCategory("main"); !errors.Is(err, ErrLastCategory) {
		t.Fatalf("expected ErrLastCategory, got %v", err)
	}
	if len(e.State().Categories) != 1 {
		t.Fatalf("category count must be unchanged")
	}
}

func TestDeleteCategoryRehomesTables(t *testing.T) {
	e := NewEditor(DefaultState())
	e.Select("t7") // t7 lives in vip
	if err := e.DeleteCategory("vip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := e.State()
	if len(s.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(s.Categories))
	}
	for _, tab := range s.Tables {
		if tab.Zone == "vip" {
			t.Fatalf("table %s still points at deleted category", tab.ID)
		}
	}
	// Fallback is the lowest-order remaining category.
	for _, tab := range s.Tables {
		if tab.ID == "t7" && tab.Zone != "window" {
			t.Fatalf("t7 must fall back to window, got %s", tab.Zone)
		}
	}
	if e.Selected() != "" {
		t.Fatalf("selection must clear when its category is deleted")
	}
	checkOrderInvariant(t, e)
}

func TestMoveCategoryBoundariesAndRenormalization(t *testing.T) {
	e := NewEditor(DefaultState())

	e.MoveCategory("window", MoveUp)   // topmost: no-op
	e.MoveCategory("vip", MoveDown)    // bottommost: no-op
	s := e.State()
	orders := map[string]int{}
	for _, c := range s.Categories {
		orders[c.ID] = c.Order
	}
	if orders["window"] != 1 || orders["main"] != 2 || orders["vip"] != 3 {
		t.Fatalf("boundary moves must be no-ops, got %v", orders)
	}

	e.MoveCategory("vip", MoveUp)
	s = e.State()
	orders = map[string]int{}
	seen := map[int]bool{}
	for _, c := range s.Categories {
		orders[c.ID] = c.Order
		if seen[c.Order] {
			t.Fatalf("duplicate order %d", c.Order)
		}
		seen[c.Order] = true
	}
	if orders["vip"] != 2 || orders["main"] != 3 {
		t.Fatalf("swap with neighbor failed: %v", orders)
	}
	for i := 1; i <= len(s.Categories); i++ {
		if !seen[i] {
			t.Fatalf("orders must stay contiguous 1..N, missing %d", i)
		}
	}
}

func TestOrderedTablesRepairOnRead(t *testing.T) {
	// Build a deliberately stale state: t3 missing from the order list.
	state := DefaultState()
	state.OrderByCategory["window"] = []string{"t2", "t1"}
	e := &Editor{state: state}

	got := e.OrderedTablesForCategory("window")
	if len(got) != 3 {
		t.Fatalf("view must never drop a table, got %d", len(got))
	}
	if got[0].ID != "t2" || got[1].ID != "t1" || got[2].ID != "t3" {
		t.Fatalf("expected listed order then strays by number, got %v", []string{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestNormalizeDropsForeignAndDanglingIDs(t *testing.T) {
	state := DefaultState()
	state.OrderByCategory["window"] = []string{"t1", "t1", "t9", "ghost", "t2", "t3"}
	Normalize(state)
	win := state.OrderByCategory["window"]
	want := []string{"t1", "t2", "t3"}
	if len(win) != len(want) {
		t.Fatalf("window order = %v, want %v", win, want)
	}
	for i := range want {
		if win[i] != want[i] {
			t.Fatalf("window order = %v, want %v", win, want)
		}
	}
}

type stubStore struct {
	saved  *model.FloorPlanState
	failed bool
}

func (s *stubStore) Load(_ context.Context, _ string) (*model.FloorPlanState, error) {
	return DefaultState(), nil
}

func (s *stubStore) Save(_ context.Context, _ string, state *model.FloorPlanState) error {
	if s.failed {
		return ErrSaveFailed
	}
	s.saved = state
	return nil
}

func TestSaveClearsDirtyOnlyOnSuccess(t *testing.T) {
	e := NewEditor(DefaultState())
	if _, err := e.AddTable(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing := &stubStore{failed: true}
	if err := e.Save(context.Background(), failing, "r1"); !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("expected ErrSaveFailed, got %v", err)
	}
	if !e.Dirty() {
		t.Fatalf("failed save must keep local edits dirty")
	}

	ok := &stubStore{}
	if err := e.Save(context.Background(), ok, "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Dirty() {
		t.Fatalf("successful save must clear the dirty flag")
	}
	if ok.saved == nil || len(ok.saved.Tables) != 10 {
		t.Fatalf("store must receive the full triple")
	}
}

func TestManagerKeepsSessionUntilReset(t *testing.T) {
	m := NewManager(&stubStore{})
	ctx := context.Background()

	err := m.With(ctx, "r1", func(e *Editor) error {
		_, err := e.AddTable("")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var n int
	_ = m.With(ctx, "r1", func(e *Editor) error {
		n = len(e.State().Tables)
		return nil
	})
	if n != 10 {
		t.Fatalf("session must keep unsaved edits, got %d tables", n)
	}

	m.Reset("r1")
	_ = m.With(ctx, "r1", func(e *Editor) error {
		n = len(e.State().Tables)
		return nil
	})
	if n != 9 {
		t.Fatalf("reset must reload from the store, got %d tables", n)
	}
}
