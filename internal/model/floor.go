package model

// TableShape enumerates the two renderable table outlines.
type TableShape string

const (
	ShapeCircle    TableShape = "circle"
	ShapeRectangle TableShape = "rectangle"
)

// TableStatus is the two-state UI availability of a table.  The backend
// stores available/occupied; occupied maps to reserved on the way in.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableReserved  TableStatus = "reserved"
)

// Category groups tables into a named zone of the floor plan ("У окна",
// "VIP зона", ...).  Order defines the display sequence and is kept
// contiguous and unique (1..N) after every mutation of the plan.
//
// Fields:
//  ID              – unique identifier (uuid string).
//  Title           – zone display name.
//  BackgroundColor – display-only color code.
//  Order           – 1-based display rank.
type Category struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	BackgroundColor string `json:"backgroundColor"`
	Order           int    `json:"order"`
}

// Table is a single bookable table.  Number is unique within a restaurant
// and is what guests and admins see; Zone references the owning Category
// and every table belongs to exactly one category at all times.
//
// Fields:
//  ID            – unique identifier (uuid string).
//  Number        – positive display number, unique per restaurant.
//  Capacity      – seat count, positive.
//  Shape         – circle or rectangle.
//  Status        – available or reserved.
//  Zone          – owning Category.ID.
//  HallID        – backend hall reference when present ("" otherwise).
//  PositionIndex – backend-assigned ordering hint within its hall.
type Table struct {
	ID            string      `json:"id"`
	Number        int         `json:"number"`
	Capacity      int         `json:"capacity"`
	Shape         TableShape  `json:"shape"`
	Status        TableStatus `json:"status"`
	Zone          string      `json:"zone"`
	HallID        string      `json:"hallId,omitempty"`
	PositionIndex int         `json:"positionIndex,omitempty"`
}

// FloorPlanState is the unit of floor-plan persistence: categories, tables
// and the per-category display order of table ids.  After a repair pass,
// OrderByCategory[c] contains exactly the ids of tables whose Zone == c,
// each exactly once, and no foreign ids.
type FloorPlanState struct {
	Categories      []Category          `json:"categories"`
	Tables          []Table             `json:"tables"`
	OrderByCategory map[string][]string `json:"orderByCategory"`
}

// Clone returns a deep copy so editing sessions never alias stored state.
func (s *FloorPlanState) Clone() *FloorPlanState {
	out := &FloorPlanState{
		Categories:      append([]Category(nil), s.Categories...),
		Tables:          append([]Table(nil), s.Tables...),
		OrderByCategory: make(map[string][]string, len(s.OrderByCategory)),
	}
	for id, ids := range s.OrderByCategory {
		out.OrderByCategory[id] = append([]string(nil), ids...)
	}
	return out
}
