package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/booking"
	"github.com/anmarochka/resto-booking/internal/floorplan"
	"github.com/anmarochka/resto-booking/internal/model"
	"github.com/anmarochka/resto-booking/internal/repository"
)

// AdminBookingHandler serves the admin booking list with filtering,
// manual booking entry and status transitions.
type AdminBookingHandler struct {
	Bookings *booking.Service
	Floors   floorplan.Store
}

func NewAdminBookingHandler(s *booking.Service, f floorplan.Store) *AdminBookingHandler {
	return &AdminBookingHandler{Bookings: s, Floors: f}
}

// List returns a restaurant's bookings newest first, narrowed by the
// ?status= and ?q= query parameters. The free-text query also matches
// table numbers resolved through the current floor plan.
func (h *AdminBookingHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	restaurantID := c.Param("id")

	items, err := h.Bookings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var tables []model.Table
	if state, err := h.Floors.Load(ctx, restaurantID); err == nil {
		tables = state.Tables
	}

	out := booking.Filter(items, booking.FilterOptions{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	}, tables)
	if out == nil {
		out = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type manualBookingReq struct {
	TableID   string `json:"tableId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Guests    int    `json:"guests"`
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
}

// Create records a walk-in or phone booking on behalf of a guest. The
// phone number is required here, unlike guest self-service, and the
// booking is confirmed immediately.
func (h *AdminBookingHandler) Create(c echo.Context) error {
	var req manualBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !booking.ValidatePhone(req.UserPhone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
	}

	b, err := h.Bookings.Create(c.Request().Context(), booking.CreateRequest{
		RestaurantID: c.Param("id"),
		TableID:      req.TableID,
		Date:         req.Date,
		Time:         req.Time,
		Guests:       req.Guests,
		Status:       model.BookingConfirmed,
		UserName:     req.UserName,
		UserPhone:    req.UserPhone,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table already booked for this time"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
		}
	}
	return c.JSON(http.StatusCreated, b)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves a booking to confirmed, cancelled or completed.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	b, err := h.Bookings.UpdateStatus(c.Request().Context(), c.Param("bookingId"), model.BookingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, b)
}
