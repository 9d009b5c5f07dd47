package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/handler"
	"github.com/anmarochka/resto-booking/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under
// /v1/admin/restaurants/:id. All routes require a valid JWT and the
// ADMIN role.
func RegisterAdmin(e *echo.Echo,
	bookings *handler.AdminBookingHandler,
	floor *handler.AdminFloorHandler,
	an *handler.AdminAnalyticsHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1/admin/restaurants/:id",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(handler.RoleAdmin),
	)

	// ---- Bookings ----
	g.GET("/bookings", bookings.List)
	g.POST("/bookings", bookings.Create)
	g.PATCH("/bookings/:bookingId/status", bookings.UpdateStatus)

	// ---- Floor-plan editor ----
	g.GET("/floor-plan", floor.GetState)
	g.POST("/floor-plan/tables", floor.AddTable)
	g.PATCH("/floor-plan/tables/:tableId", floor.UpdateTable)
	g.DELETE("/floor-plan/tables/:tableId", floor.DeleteTable)
	g.POST("/floor-plan/tables/:tableId/select", floor.SelectTable)
	g.POST("/floor-plan/tables/move", floor.MoveTable)
	g.POST("/floor-plan/categories", floor.AddCategory)
	g.PATCH("/floor-plan/categories/:categoryId", floor.EditCategory)
	g.DELETE("/floor-plan/categories/:categoryId", floor.DeleteCategory)
	g.POST("/floor-plan/categories/:categoryId/move", floor.MoveCategory)
	g.POST("/floor-plan/save", floor.Save)
	g.POST("/floor-plan/reset", floor.Reset)

	// ---- Analytics ----
	g.GET("/analytics", an.Snapshot)
	g.GET("/analytics/events", an.Events)
}
