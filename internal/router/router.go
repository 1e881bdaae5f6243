package router // package router wires the handlers onto echo route groups

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marketplace/grocery-api/internal/handler"
	"github.com/marketplace/grocery-api/internal/metrics"
	"github.com/marketplace/grocery-api/internal/middleware"
	"github.com/marketplace/grocery-api/internal/model"
)

// Gates are the Auth Gate variants the route families pick from.
type Gates struct {
	User       echo.MiddlewareFunc // user token, cookie first
	UserHeader echo.MiddlewareFunc // user token, Authorization header only
	Admin      echo.MiddlewareFunc // any admin, cookie first
	MaybeAdmin echo.MiddlewareFunc // admin identity when a token is sent
	SuperAdmin []echo.MiddlewareFunc
}

// NewGates builds the gates over d's resolvers.  m may be nil.
func NewGates(d *handler.Deps, m *metrics.Metrics) Gates {
	admin := middleware.Authenticate(model.SubjectAdmin, d.Tokens, d.ResolveAdmin, middleware.CookieFirst, m)
	return Gates{
		User:       middleware.Authenticate(model.SubjectUser, d.Tokens, d.ResolveUser, middleware.CookieFirst, m),
		UserHeader: middleware.Authenticate(model.SubjectUser, d.Tokens, d.ResolveUser, middleware.HeaderOnly, m),
		Admin:      admin,
		MaybeAdmin: middleware.Optional(admin, middleware.CookieFirst),
		SuperAdmin: []echo.MiddlewareFunc{admin, middleware.RequireRole(model.RoleSuperAdmin)},
	}
}

// RegisterRoutes registers the unauthenticated operational endpoints.
// gatherer may be nil, in which case /metrics is not exposed.
func RegisterRoutes(e *echo.Echo, db *sql.DB, gatherer prometheus.Gatherer, mediaDir, mediaURL string) {
	e.GET("/healthz", handler.Health(db))
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	if mediaDir != "" && mediaURL != "" && mediaURL[0] == '/' {
		e.Static(mediaURL, mediaDir)
	}
}

// RegisterAPI registers every resource family under /api.
func RegisterAPI(e *echo.Echo, d *handler.Deps, g Gates) {
	api := e.Group("/api")
	RegisterAccounts(api, d, g)
	RegisterCatalog(api, d, g)
	RegisterShopping(api, d, g)
}
