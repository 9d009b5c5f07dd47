package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/model"
)

// AdminFloorHandler exposes the floor-plan editor. Each restaurant has
// one editing session shared by its admins; edits accumulate in memory
// until save, and reset drops them and reloads the stored plan.
type AdminFloorHandler struct {
	Sessions *floorplan.Manager
}

func NewAdminFloorHandler(m *floorplan.Manager) *AdminFloorHandler {
	return &AdminFloorHandler{Sessions: m}
}

type floorStateResp struct {
	State    *model.FloorPlanState `json:"state"`
	Selected string                `json:"selected,omitempty"`
	Dirty    bool                  `json:"dirty"`
}

func (h *AdminFloorHandler) respondState(c echo.Context, restaurantID string) error {
	var resp floorStateResp
	err := h.Sessions.With(c.Request().Context(), restaurantID, func(e *floorplan.Editor) error {
		resp = floorStateResp{State: e.State(), Selected: e.Selected(), Dirty: e.Dirty()}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load floor plan failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// GetState returns the session's current plan, selection and dirty flag.
func (h *AdminFloorHandler) GetState(c echo.Context) error {
	return h.respondState(c, c.Param("id"))
}

type addTableReq struct {
	CategoryID string `json:"categoryId"`
}

// AddTable appends a new table to a category with the next free number.
func (h *AdminFloorHandler) AddTable(c echo.Context) error {
	var req addTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var created model.Table
	err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		var err error
		created, err = e.AddTable(req.CategoryID)
		return err
	})
	if err != nil {
		if errors.Is(err, floorplan.ErrNoCategory) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add table failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateTable patches a table's number, capacity, shape or status.
func (h *AdminFloorHandler) UpdateTable(c echo.Context) error {
	var patch floorplan.TablePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tableID := c.Param("tableId")
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.UpdateTable(tableID, patch)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update table failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// DeleteTable removes a table from the plan.
func (h *AdminFloorHandler) DeleteTable(c echo.Context) error {
	tableID := c.Param("tableId")
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.DeleteTable(tableID)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete table failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// SelectTable marks a table as the current selection.
func (h *AdminFloorHandler) SelectTable(c echo.Context) error {
	tableID := c.Param("tableId")
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.Select(tableID)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "select failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// MoveTable applies a drag-and-drop move between or within categories.
// Requests naming unknown tables are accepted and ignored, matching the
// forgiving drag semantics of the editor.
func (h *AdminFloorHandler) MoveTable(c echo.Context) error {
	var req floorplan.MoveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.ApplyMove(req)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "move failed"})
	}
	return h.respondState(c, c.Param("id"))
}

type categoryReq struct {
	Title           string `json:"title"`
	BackgroundColor string `json:"backgroundColor"`
}

// AddCategory creates a new zone at the end of the display order. A
// blank title is a silent no-op, mirroring the editor semantics.
func (h *AdminFloorHandler) AddCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.AddCategory(req.Title, req.BackgroundColor)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add category failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// EditCategory renames or recolors a zone.
func (h *AdminFloorHandler) EditCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	catID := c.Param("categoryId")
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.EditCategory(catID, req.Title, req.BackgroundColor)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "edit category failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// DeleteCategory removes a zone, rehoming its tables to the remaining
// lowest-ranked zone. The last zone cannot be deleted.
func (h *AdminFloorHandler) DeleteCategory(c echo.Context) error {
	catID := c.Param("categoryId")
	err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		return e.DeleteCategory(catID)
	})
	if err != nil {
		if errors.Is(err, floorplan.ErrLastCategory) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete the last category"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return h.respondState(c, c.Param("id"))
}

type moveCategoryReq struct {
	Direction floorplan.MoveDirection `json:"direction"`
}

// MoveCategory swaps a zone with its neighbor in the display order;
// moves past either end are no-ops.
func (h *AdminFloorHandler) MoveCategory(c echo.Context) error {
	var req moveCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	catID := c.Param("categoryId")
	if err := h.Sessions.With(c.Request().Context(), c.Param("id"), func(e *floorplan.Editor) error {
		e.MoveCategory(catID, req.Direction)
		return nil
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "move category failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// Save persists the session's plan. Zones, tables and the order list
// are saved as separate sub-resources; a partial failure keeps the
// session dirty so the admin can retry.
func (h *AdminFloorHandler) Save(c echo.Context) error {
	if err := h.Sessions.Save(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, floorplan.ErrSaveFailed) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "save failed, changes kept"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return h.respondState(c, c.Param("id"))
}

// Reset discards unsaved edits; the next read reloads the stored plan.
func (h *AdminFloorHandler) Reset(c echo.Context) error {
	h.Sessions.Reset(c.Param("id"))
	return h.respondState(c, c.Param("id"))
}
