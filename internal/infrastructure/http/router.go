package http

import (
	"strings"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/infrastructure/http/handlers"
	"github.com/greenpath/platform/pkg/logger"
)

// requestMetrics registers the HTTP collectors with the default registry.
// Registration can happen only once per process, routers share the middleware.
var requestMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace: "greenpath",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
		DoNotUseRequestPathFor404: true,
	})
})

// NewRouter builds the base Echo instance: global middleware, health probes
// and the Prometheus endpoint. API routes are registered on top of it.
func NewRouter(log zerolog.Logger, checks ...handlers.DependencyCheck) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(requestMetrics())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// requestLogger attaches a logger carrying the request id to the request
// context. Handlers and the error handler read it back with logger.Ctx.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLog := log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), reqLog)))
			return next(c)
		}
	}
}
