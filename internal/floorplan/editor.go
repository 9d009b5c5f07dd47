// Package floorplan keeps the categories, tables and per-category order of
// a restaurant floor plan mutually consistent through a sequence of admin
// edits, and persists the whole triple on save.  The Editor owns one
// restaurant's in-memory editing session; all operations are synchronous
// and run to completion, and every structural mutation ends with a repair
// pass that restores the ordering invariant.
package floorplan

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/anmarochka/resto-booking/internal/model"
)

// ErrNoCategory is returned when a table operation needs a category and
// the plan has none.
var ErrNoCategory = errors.New("no category to assign the table to")

// ErrLastCategory is returned when deleting the only remaining category;
// the plan must always keep at least one.
var ErrLastCategory = errors.New("cannot delete the last category")

// MoveDirection is the direction of a category reorder step.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// MoveRequest is a typed drag-and-drop move: a table dragged from one
// category and dropped either onto a category background (no anchor) or
// onto another table (BeforeTableID set).  Requests that do not resolve
// to a known table are ignored without error.
type MoveRequest struct {
	TableID        string `json:"tableId"`
	FromCategoryID string `json:"fromCategoryId"`
	ToCategoryID   string `json:"toCategoryId"`
	BeforeTableID  string `json:"beforeTableId,omitempty"`
}

// TablePatch carries the editable attributes of a table; nil fields are
// left unchanged.
type TablePatch struct {
	Number   *int               `json:"number,omitempty"`
	Capacity *int               `json:"capacity,omitempty"`
	Shape    *model.TableShape  `json:"shape,omitempty"`
	Status   *model.TableStatus `json:"status,omitempty"`
}

// Editor is one restaurant's floor-plan editing session.  It tracks the
// current selection and a dirty flag; Save clears the flag only when the
// whole triple persisted.
type Editor struct {
	state    *model.FloorPlanState
	selected string
	dirty    bool
}

// NewEditor starts a session over a copy of state, repairing it first so
// a stale order list never leaks into the edits.
func NewEditor(state *model.FloorPlanState) *Editor {
	s := state.Clone()
	Normalize(s)
	return &Editor{state: s}
}

// State returns a deep copy of the current triple for rendering.
func (e *Editor) State() *model.FloorPlanState { return e.state.Clone() }

// Dirty reports whether there are unsaved edits.
func (e *Editor) Dirty() bool { return e.dirty }

// Select marks a table as selected; an empty id clears the selection.
func (e *Editor) Select(tableID string) { e.selected = tableID }

// Selected returns the currently selected table id, "" when none.
func (e *Editor) Selected() string { return e.selected }

// AddTable creates a table in the given category with the next free
// number, default capacity 2, circle shape and available status, appends
// it to the category's order list and selects it.  An empty categoryID
// targets the lowest-order category.
func (e *Editor) AddTable(categoryID string) (model.Table, error) {
	if len(e.state.Categories) == 0 {
		return model.Table{}, ErrNoCategory
	}
	if categoryID == "" {
		categoryID = e.fallbackCategoryID()
	} else if e.categoryIndex(categoryID) == -1 {
		return model.Table{}, ErrNoCategory
	}
	maxNumber := 0
	for _, t := range e.state.Tables {
		if t.Number > maxNumber {
			maxNumber = t.Number
		}
	}
	table := model.Table{
		ID:       uuid.NewString(),
		Number:   maxNumber + 1,
		Capacity: 2,
		Shape:    model.ShapeCircle,
		Status:   model.TableAvailable,
		Zone:     categoryID,
	}
	e.state.Tables = append(e.state.Tables, table)
	e.state.OrderByCategory[categoryID] = append(e.state.OrderByCategory[categoryID], table.ID)
	e.selected = table.ID
	e.touch()
	return table, nil
}

// DeleteTable removes a table from the plan and from every order list.
// Removal scans all lists so consistency is restored even from a
// corrupted state.  Unknown ids are ignored.
func (e *Editor) DeleteTable(tableID string) {
	idx := e.tableIndex(tableID)
	if idx == -1 {
		return
	}
	e.state.Tables = append(e.state.Tables[:idx], e.state.Tables[idx+1:]...)
	for id, ids := range e.state.OrderByCategory {
		e.state.OrderByCategory[id] = removeID(ids, tableID)
	}
	if e.selected == tableID {
		e.selected = ""
	}
	e.touch()
}

// UpdateTable patches the editable attributes of a table.
func (e *Editor) UpdateTable(tableID string, patch TablePatch) {
	idx := e.tableIndex(tableID)
	if idx == -1 {
		return
	}
	t := &e.state.Tables[idx]
	if patch.Number != nil && *patch.Number > 0 {
		t.Number = *patch.Number
	}
	if patch.Capacity != nil && *patch.Capacity > 0 {
		t.Capacity = *patch.Capacity
	}
	if patch.Shape != nil {
		t.Shape = *patch.Shape
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	e.touch()
}

// MoveTableToCategory reassigns a table to targetCategoryID and inserts
// it into the target order list, either immediately before beforeTableID
// when that anchor is present in the list, or at the end.  Unknown table
// or category ids leave the plan untouched.
func (e *Editor) MoveTableToCategory(tableID, targetCategoryID, beforeTableID string) {
	idx := e.tableIndex(tableID)
	if idx == -1 || e.categoryIndex(targetCategoryID) == -1 {
		return
	}
	for id, ids := range e.state.OrderByCategory {
		e.state.OrderByCategory[id] = removeID(ids, tableID)
	}
	e.state.Tables[idx].Zone = targetCategoryID

	list := e.state.OrderByCategory[targetCategoryID]
	insertAt := len(list)
	if beforeTableID != "" {
		for i, id := range list {
			if id == beforeTableID {
				insertAt = i
				break
			}
		}
	}
	list = append(list, "")
	copy(list[insertAt+1:], list[insertAt:])
	list[insertAt] = tableID
	e.state.OrderByCategory[targetCategoryID] = list
	e.touch()
}

// ReorderWithinCategory moves a table to the end of its own category's
// order list (a drop onto the category background).
func (e *Editor) ReorderWithinCategory(categoryID, tableID string) {
	list, ok := e.state.OrderByCategory[categoryID]
	if !ok || !containsID(list, tableID) {
		return
	}
	e.state.OrderByCategory[categoryID] = append(removeID(list, tableID), tableID)
	e.touch()
}

// ApplyMove reconciles a drag-and-drop request.  Dropping onto a table
// inserts before that table regardless of source category; dropping onto
// a category background reorders to the end (same category) or appends
// (different category).  Unresolvable payloads are ignored.
func (e *Editor) ApplyMove(req MoveRequest) {
	if e.tableIndex(req.TableID) == -1 {
		return
	}
	if req.BeforeTableID != "" {
		e.MoveTableToCategory(req.TableID, req.ToCategoryID, req.BeforeTableID)
		return
	}
	if req.FromCategoryID == req.ToCategoryID {
		e.ReorderWithinCategory(req.ToCategoryID, req.TableID)
		return
	}
	e.MoveTableToCategory(req.TableID, req.ToCategoryID, "")
}

// AddCategory appends a category with the next order rank and an empty
// order list.  A title that trims to empty is a silent no-op and returns
// an empty id.
func (e *Editor) AddCategory(title, backgroundColor string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	maxOrder := 0
	for _, c := range e.state.Categories {
		if c.Order > maxOrder {
			maxOrder = c.Order
		}
	}
	cat := model.Category{
		ID:              uuid.NewString(),
		Title:           title,
		BackgroundColor: strings.TrimSpace(backgroundColor),
		Order:           maxOrder + 1,
	}
	e.state.Categories = append(e.state.Categories, cat)
	e.state.OrderByCategory[cat.ID] = []string{}
	e.touch()
	return cat.ID
}

// EditCategory renames or recolors a category in place; order and table
// membership are unaffected.  Empty titles are ignored.
func (e *Editor) EditCategory(id, title, backgroundColor string) {
	idx := e.categoryIndex(id)
	if idx == -1 {
		return
	}
	if t := strings.TrimSpace(title); t != "" {
		e.state.Categories[idx].Title = t
	}
	if c := strings.TrimSpace(backgroundColor); c != "" {
		e.state.Categories[idx].BackgroundColor = c
	}
	e.touch()
}

// DeleteCategory removes a category, re-homing its tables to the
// lowest-order remaining category.  Deleting the only category is
// refused and leaves the plan unchanged.
func (e *Editor) DeleteCategory(id string) error {
	idx := e.categoryIndex(id)
	if idx == -1 {
		return nil
	}
	if len(e.state.Categories) <= 1 {
		return ErrLastCategory
	}
	e.state.Categories = append(e.state.Categories[:idx], e.state.Categories[idx+1:]...)
	delete(e.state.OrderByCategory, id)
	fallback := e.fallbackCategoryID()
	for i := range e.state.Tables {
		if e.state.Tables[i].Zone == id {
			e.state.Tables[i].Zone = fallback
			if e.state.Tables[i].ID == e.selected {
				e.selected = ""
			}
		}
	}
	e.touch()
	return nil
}

// MoveCategory swaps a category with its neighbor in the requested
// direction and renormalizes every order to its new rank.  Moving past
// either boundary is a no-op.
func (e *Editor) MoveCategory(id string, direction MoveDirection) {
	sorted := e.categoriesSorted()
	idx := -1
	for i, c := range sorted {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	next := idx - 1
	if direction == MoveDown {
		next = idx + 1
	}
	if next < 0 || next >= len(sorted) {
		return
	}
	sorted[idx], sorted[next] = sorted[next], sorted[idx]
	for rank, c := range sorted {
		i := e.categoryIndex(c.ID)
		e.state.Categories[i].Order = rank + 1
	}
	e.touch()
}

// OrderedTablesForCategory returns the render-ready sequence for a
// category: tables named in the order list first, then any stray zone
// members sorted by number.  The read repairs nothing; the next
// structural mutation writes the repaired list back.
func (e *Editor) OrderedTablesForCategory(categoryID string) []model.Table {
	byID := make(map[string]model.Table)
	for _, t := range e.state.Tables {
		if t.Zone == categoryID {
			byID[t.ID] = t
		}
	}
	list := e.state.OrderByCategory[categoryID]
	out := make([]model.Table, 0, len(byID))
	for _, id := range list {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			delete(byID, id)
		}
	}
	rest := make([]model.Table, 0, len(byID))
	for _, t := range byID {
		rest = append(rest, t)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Number < rest[j].Number })
	return append(out, rest...)
}

// Save persists the full triple through the store.  On success the dirty
// flag clears; on failure local edits stay pending for retry.
func (e *Editor) Save(ctx context.Context, store Store, restaurantID string) error {
	if err := store.Save(ctx, restaurantID, e.state.Clone()); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// touch marks the session dirty and runs the repair pass.  Every mutating
// operation funnels through here so invariant enforcement lives in one
// place instead of ad-hoc list surgery at each call site.
func (e *Editor) touch() {
	e.dirty = true
	Normalize(e.state)
}

func (e *Editor) tableIndex(id string) int {
	for i, t := range e.state.Tables {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) categoryIndex(id string) int {
	for i, c := range e.state.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) fallbackCategoryID() string {
	sorted := e.categoriesSorted()
	if len(sorted) == 0 {
		return ""
	}
	return sorted[0].ID
}

func (e *Editor) categoriesSorted() []model.Category {
	out := append([]model.Category(nil), e.state.Categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Normalize repairs a floor-plan triple in place: category orders become
// contiguous 1..N, tables with unknown zones are re-homed to the
// lowest-order category, and every order list ends up holding exactly the
// ids of its own zone's tables (stray members appended sorted by number,
// foreign and dangling ids dropped).
func Normalize(s *model.FloorPlanState) {
	sort.SliceStable(s.Categories, func(i, j int) bool { return s.Categories[i].Order < s.Categories[j].Order })
	for i := range s.Categories {
		s.Categories[i].Order = i + 1
	}

	known := make(map[string]bool, len(s.Categories))
	for _, c := range s.Categories {
		known[c.ID] = true
	}
	fallback := ""
	if len(s.Categories) > 0 {
		fallback = s.Categories[0].ID
	}
	for i := range s.Tables {
		if !known[s.Tables[i].Zone] {
			s.Tables[i].Zone = fallback
		}
	}

	if s.OrderByCategory == nil {
		s.OrderByCategory = make(map[string][]string)
	}
	tableZone := make(map[string]string, len(s.Tables))
	for _, t := range s.Tables {
		tableZone[t.ID] = t.Zone
	}

	next := make(map[string][]string, len(s.Categories))
	for _, c := range s.Categories {
		seen := make(map[string]bool)
		var ids []string
		for _, id := range s.OrderByCategory[c.ID] {
			if tableZone[id] == c.ID && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		var stray []model.Table
		for _, t := range s.Tables {
			if t.Zone == c.ID && !seen[t.ID] {
				stray = append(stray, t)
			}
		}
		sort.Slice(stray, func(i, j int) bool { return stray[i].Number < stray[j].Number })
		for _, t := range stray {
			ids = append(ids, t.ID)
		}
		if ids == nil {
			ids = []string{}
		}
		next[c.ID] = ids
	}
	s.OrderByCategory = next
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
