package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/analytics"
	"github.com/anmarochka/resto-booking/internal/booking"
	"github.com/anmarochka/resto-booking/internal/floorplan"
)

// AdminAnalyticsHandler serves the dashboard snapshot. Snapshots come
// from the warm cache when available and are otherwise recomputed from
// bookings, the stored floor plan and the live event feed.
type AdminAnalyticsHandler struct {
	Bookings *booking.Service
	Floors   floorplan.Store
	EventLog *analytics.EventLog
	Cache    *analytics.SnapshotCache
	Now      func() time.Time
}

func NewAdminAnalyticsHandler(s *booking.Service, f floorplan.Store, ev *analytics.EventLog, cache *analytics.SnapshotCache) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{Bookings: s, Floors: f, EventLog: ev, Cache: cache, Now: time.Now}
}

// Snapshot returns the aggregate for one restaurant.
func (h *AdminAnalyticsHandler) Snapshot(c echo.Context) error {
	ctx := c.Request().Context()
	restaurantID := c.Param("id")
	now := h.Now()

	if h.Cache != nil {
		if snap, ok := h.Cache.Get(restaurantID, now); ok {
			return c.JSON(http.StatusOK, snap)
		}
	}

	bookings, err := h.Bookings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	state, err := h.Floors.Load(ctx, restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load floor plan failed"})
	}

	snap := analytics.ComputeSnapshot(restaurantID, bookings, state, h.EventLog, now)
	if h.Cache != nil {
		h.Cache.Put(restaurantID, snap, now)
	}
	return c.JSON(http.StatusOK, snap)
}

// Events returns the live feed page for one restaurant, newest first.
func (h *AdminAnalyticsHandler) Events(c echo.Context) error {
	n := 50
	return c.JSON(http.StatusOK, echo.Map{"items": h.EventLog.Recent(c.Param("id"), n)})
}
