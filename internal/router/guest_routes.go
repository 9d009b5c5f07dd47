package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/handler"
	"github.com/anmarochka/resto-booking/internal/middleware"
)

// RegisterGuest registers guest-scoped endpoints under /v1. All routes
// require a valid JWT; both roles may manage their own bookings, so
// admins can test the guest flow with their own account.
func RegisterGuest(e *echo.Echo, h *handler.GuestBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleGuest, handler.RoleAdmin),
	)
	g.POST("/bookings", h.Create)
	g.GET("/bookings", h.ListMine)
	g.DELETE("/bookings/:id", h.Cancel)
}
