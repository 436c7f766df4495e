// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avetkov/movie-store/internal/handler"
	"github.com/avetkov/movie-store/internal/middleware"
	"github.com/avetkov/movie-store/internal/model"
)

// RegisterRoutes registers routes that need neither authentication nor
// caching.  Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  The open
// endpoints under /v1/auth sit behind the rate limiter so credential
// stuffing burns a token per attempt.  Admin registration lives on a
// separate group gated by an ADMIN access token: every new admin is
// created by an existing one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	admin := e.Group("/v1/auth",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))
	admin.POST("/register-admin", a.RegisterAdmin)
}

// RegisterCatalog registers the unauthenticated browse endpoints.  All
// of them flow through the Redis response cache; admin mutations purge
// it so guests never read stale listings.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, a *handler.ActorHandler, p *handler.ProducerHandler, acc *handler.AccountHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)

	g.GET("/movies", m.List)
	g.GET("/movies/search", m.Search)
	g.GET("/movies/:id", m.Details)

	g.GET("/actors", a.List)
	g.GET("/actors/search", a.Search)
	g.GET("/actors/:id", a.Details)

	g.GET("/producers", p.List)
	g.GET("/producers/search", p.Search)
	g.GET("/producers/:id", p.Details)

	g.GET("/users/search", acc.SearchUsers)
}

// RegisterStore registers the endpoints available to any authenticated
// user: profile, cart, checkout, order history and file download.
func RegisterStore(e *echo.Echo, jwtSecret string, a *handler.AuthHandler, acc *handler.AccountHandler, cart *handler.CartHandler, m *handler.MovieHandler) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	g.GET("/me", a.Me)
	g.GET("/profile", acc.Profile)
	g.PUT("/profile", acc.UpdateProfile)

	g.GET("/cart", cart.List)
	g.POST("/cart/checkout", cart.Checkout)
	g.POST("/cart/:movieID", cart.Add)
	g.DELETE("/cart/:movieID", cart.Remove)
	g.GET("/orders", cart.Orders)

	g.GET("/movies/:id/download", m.Download)
}

// RegisterAdmin registers the catalog CRUD, user management and
// storewide order listing behind an ADMIN access token.
func RegisterAdmin(e *echo.Echo, jwtSecret string, m *handler.MovieHandler, a *handler.ActorHandler, p *handler.ProducerHandler, acc *handler.AccountHandler, cart *handler.CartHandler) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin))

	g.GET("/movies/dropdowns", m.Dropdowns)
	g.POST("/movies", m.Create)
	g.PUT("/movies/:id", m.Update)
	g.DELETE("/movies/:id", m.Delete)

	g.POST("/actors", a.Create)
	g.PUT("/actors/:id", a.Update)
	g.DELETE("/actors/:id", a.Delete)

	g.POST("/producers", p.Create)
	g.PUT("/producers/:id", p.Update)
	g.DELETE("/producers/:id", p.Delete)

	g.GET("/users", acc.ListUsers)
	g.DELETE("/users/:id", acc.DeleteUser)

	g.GET("/orders/all", cart.AllOrders)
}
