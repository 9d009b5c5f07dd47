package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/booking"
	"github.com/anmarochka/resto-booking/internal/model"
	"github.com/anmarochka/resto-booking/internal/repository"
)

// GuestBookingHandler serves a guest's own bookings.
type GuestBookingHandler struct {
	Bookings *booking.Service
}

func NewGuestBookingHandler(s *booking.Service) *GuestBookingHandler {
	return &GuestBookingHandler{Bookings: s}
}

type createBookingReq struct {
	RestaurantID string `json:"restaurantId"`
	TableID      string `json:"tableId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Guests       int    `json:"guests"`
	UserName     string `json:"userName"`
	UserPhone    string `json:"userPhone"`
}

// Create books a table for the authenticated guest. Guest bookings start
// pending and wait for admin confirmation.
func (h *GuestBookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	b, err := h.Bookings.Create(c.Request().Context(), booking.CreateRequest{
		UserID:       currentUserID(c),
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		Date:         req.Date,
		Time:         req.Time,
		Guests:       req.Guests,
		Status:       model.BookingPending,
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

// ListMine returns the authenticated guest's bookings.
func (h *GuestBookingHandler) ListMine(c echo.Context) error {
	items, err := h.Bookings.ListByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel cancels the guest's own booking. Foreign or unknown ids both
// come back as 404.
func (h *GuestBookingHandler) Cancel(c echo.Context) error {
	b, err := h.Bookings.Cancel(c.Request().Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already finished"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}
	return c.JSON(http.StatusOK, b)
}
