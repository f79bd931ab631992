// Package router maps HTTP routes onto the marina handlers and applies
// authentication, role and caching middleware per route group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/portgermain/marina-api/internal/config"
	"github.com/portgermain/marina-api/internal/handler"
	"github.com/portgermain/marina-api/internal/middleware"
	"github.com/portgermain/marina-api/internal/model"
)

// Handlers groups every handler the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Catways      *handler.CatwayHandler
	Reservations *handler.ReservationHandler
	Users        *handler.UserAdminHandler
	Dashboard    *handler.DashboardHandler
	Imports      *handler.ImportHandler
}

// Register wires all routes on the Echo instance.  The rate limiter runs
// after JWT authentication on the protected groups so its key carries the
// caller identity; on the session endpoints callers are anonymous and the
// key falls back to the client IP.  The Redis response cache only wraps the
// catway listing, the one hot read-mostly endpoint.  Both degrade to
// pass-through when rdb is nil.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.GET("/healthz", handler.Health)

	// Session endpoints live under /v1/auth and need no prior session.
	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Everything else requires an authenticated caller.
	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), limiter)
	v1.GET("/me", h.Auth.Me)
	v1.GET("/dashboard", h.Dashboard.Show)

	// ---- Catways ----
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	v1.GET("/catways", h.Catways.List, cache)
	v1.GET("/catways/:number", h.Catways.Get)
	v1.GET("/catways/:number/reservations", h.Reservations.ListByCatway)

	// ---- Reservations ----
	v1.POST("/reservations", h.Reservations.Create)
	v1.GET("/reservations", h.Reservations.List)
	v1.GET("/reservations/:id", h.Reservations.Get)
	v1.PUT("/reservations/:id", h.Reservations.Update)
	v1.DELETE("/reservations/:id", h.Reservations.Delete)
	v1.GET("/my-reservations", h.Reservations.ListMine)

	// ---- Administration ----
	admin := e.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		limiter,
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.POST("/catways", h.Catways.Create)
	admin.PUT("/catways/:number", h.Catways.UpdateState)
	admin.DELETE("/catways/:number", h.Catways.Delete)

	admin.GET("/users", h.Users.List)
	admin.GET("/users/:email", h.Users.Get)
	admin.PUT("/users/:email", h.Users.Update)
	admin.DELETE("/users/:email", h.Users.Delete)

	// Destructive replace-all imports.
	admin.PUT("/catways/import", h.Imports.ImportCatways)
	admin.PUT("/reservations/import", h.Imports.ImportReservations)
}
