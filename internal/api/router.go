package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/api/handler"
	"github.com/greenpath/platform/internal/api/middleware"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
	infrahttp "github.com/greenpath/platform/internal/infrastructure/http"
	"github.com/greenpath/platform/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the HTTP API is built from.
type Dependencies struct {
	Log          zerolog.Logger
	Identity     ports.IdentityProvider
	Sessions     middleware.ProfileResolver
	Profiles     ports.ProfileStore
	Levels       ports.LevelService
	City         ports.CityService
	Dashboard    ports.DashboardService
	MaxFootprint float64
	Checks       []handlers.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := infrahttp.NewRouter(deps.Log, deps.Checks...)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Identity)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	gameHandler := handler.NewGameHandler(deps.Levels, deps.City, deps.Dashboard)
	derivationHandler := handler.NewDerivationHandler(deps.MaxFootprint)
	adminHandler := handler.NewAdminHandler(deps.Profiles)

	authMiddleware := middleware.Auth(deps.Identity)
	profileMiddleware := middleware.RequireProfile(deps.Sessions)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.SignIn)
	auth.POST("/logout", authHandler.SignOut, authMiddleware)
	auth.GET("/oauth/:provider", authHandler.OAuthStart)
	auth.GET("/oauth/:provider/callback", authHandler.OAuthCallback)

	v1 := e.Group("/v1")

	// --- Public derivations ---
	v1.GET("/difficulty", derivationHandler.Difficulty)
	v1.GET("/carbon", derivationHandler.Carbon)

	// --- Session state (no profile required) ---
	v1.GET("/session", sessionHandler.Get, authMiddleware)

	// --- Profile-dependent routes ---
	game := v1.Group("", authMiddleware, profileMiddleware)
	game.GET("/dashboard", gameHandler.Dashboard)
	game.GET("/levels", gameHandler.Levels)
	game.POST("/levels/:id/start", gameHandler.StartLevel)
	game.GET("/city/catalog", gameHandler.Catalog)
	game.GET("/city/biomes/:biome", gameHandler.Biome)
	game.POST("/city/items/:id/purchase", gameHandler.Purchase)
	game.POST("/city/items/:id/place", gameHandler.Place)

	// --- Teacher / admin ---
	admin := v1.Group("/admin", authMiddleware, profileMiddleware, middleware.RBAC(domain.RoleTeacher, domain.RoleAdmin))
	admin.GET("/profiles/:id", adminHandler.Profile)

	return e
}
