package floorplan

import "github.com/anmarochka/resto-booking/internal/model"

// DefaultState builds the built-in floor plan used when a restaurant has
// no stored document yet: three zones (window, main hall, VIP) with nine
// tables.  Ids are stable so seeded demo bookings can reference them.
func DefaultState() *model.FloorPlanState {
	s := &model.FloorPlanState{
		Categories: []model.Category{
			{ID: "window", Title: "У окна", BackgroundColor: "oklch(0.98 0.005 262)", Order: 1},
			{ID: "main", Title: "Основной зал", BackgroundColor: "oklch(0.95 0.02 262)", Order: 2},
			{ID: "vip", Title: "VIP зона", BackgroundColor: "oklch(0.96 0.005 262)", Order: 3},
		},
		Tables: []model.Table{
			{ID: "t1", Number: 1, Capacity: 2, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "window"},
			{ID: "t2", Number: 2, Capacity: 2, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "window"},
			{ID: "t3", Number: 3, Capacity: 4, Shape: model.ShapeCircle, Status: model.TableReserved, Zone: "window"},
			{ID: "t4", Number: 4, Capacity: 4, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "main"},
			{ID: "t5", Number: 5, Capacity: 2, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "main"},
			{ID: "t6", Number: 6, Capacity: 6, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "main"},
			{ID: "t7", Number: 7, Capacity: 4, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "vip"},
			{ID: "t8", Number: 8, Capacity: 2, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "vip"},
			{ID: "t9", Number: 9, Capacity: 6, Shape: model.ShapeCircle, Status: model.TableAvailable, Zone: "vip"},
		},
	}
	Normalize(s)
	return s
}
