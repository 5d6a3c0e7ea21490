package router // route registration for the reservation API

import (
	"github.com/labstack/echo/v4"

	"github.com/glab/space-reservation/internal/handler"
	"github.com/glab/space-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication: the
// health check and the public occupancy grid. The cache middleware is
// applied only to the grid route.
func RegisterRoutes(e *echo.Echo, r *handler.ReservationHandler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	if cache != nil {
		e.GET("/v1/grid", r.Grid, cache)
	} else {
		e.GET("/v1/grid", r.Grid)
	}
}

// RegisterAuth registers the authentication endpoints. Register, login,
// refresh and logout live under /v1/auth without a token; /v1/me sits
// behind JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterReservations registers the protected booking operations:
// reserve, cancel and the caller's reservation list.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/reserve", r.Reserve)
	g.POST("/cancel", r.Cancel)
	g.GET("/reservations", r.Mine)
}
