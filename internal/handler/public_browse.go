// This file defines handlers for the public browsing API. These routes
// let unauthenticated users browse restaurants and their floor plans.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/model"
	"github.com/anmarochka/resto-booking/internal/repository"
)

// PublicHandler aggregates what unauthenticated browsing needs: the
// restaurant repository and the stored floor plans.
type PublicHandler struct {
	Restaurants *repository.RestaurantRepo
	Floors      floorplan.Store
}

func NewPublicHandler(r *repository.RestaurantRepo, f floorplan.Store) *PublicHandler {
	return &PublicHandler{Restaurants: r, Floors: f}
}

// ListRestaurants returns all restaurants. Response JSON contains an
// "items" array.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
	items, err := h.Restaurants.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.Restaurant{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRestaurant returns one restaurant by id.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
	rest, err := h.Restaurants.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rest)
}

// GetFloorPlan returns the restaurant's zones and tables in display
// order, so guests can pick a free table. The stored plan is already
// normalized on load.
func (h *PublicHandler) GetFloorPlan(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.Restaurants.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	state, err := h.Floors.Load(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load floor plan failed"})
	}
	return c.JSON(http.StatusOK, state)
}

// ListTables returns the restaurant's tables as a flat list in display
// order: zones by their order, tables by the per-zone sequence.
func (h *PublicHandler) ListTables(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.Restaurants.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	state, err := h.Floors.Load(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load floor plan failed"})
	}

	ed := floorplan.NewEditor(state)
	items := []model.Table{}
	for _, cat := range state.Categories {
		items = append(items, ed.OrderedTablesForCategory(cat.ID)...)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
