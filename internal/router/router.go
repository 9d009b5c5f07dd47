// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/anmarochka/resto-booking/internal/handler"
	"github.com/anmarochka/resto-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body without requiring a JWT,
	// so an expired session can still be terminated.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: restaurant
// listings and floor plans for guests choosing a table. Restaurant reads
// take optional middleware so callers can put them behind a response
// cache; floor plans skip it because edits must show up immediately.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/v1/restaurants", p.ListRestaurants, mw...)
	e.GET("/v1/restaurants/:id", p.GetRestaurant, mw...)
	e.GET("/v1/restaurants/:id/floor-plan", p.GetFloorPlan)
	e.GET("/v1/restaurants/:id/tables", p.ListTables)
}
