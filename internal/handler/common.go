// Package handler exposes the HTTP surface: auth, public browsing, guest
// bookings and the admin floor-plan, booking and analytics endpoints.
package handler

import (
	"github.com/labstack/echo/v4"
)

// currentUserID reads the authenticated user id stored by the JWT
// middleware. Claims decode numbers as float64; 0 means unauthenticated.
func currentUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case int:
		return uint64(v)
	default:
		return 0
	}
}
