package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/greenbook/greenbook-api/internal/api/handler"
	"github.com/greenbook/greenbook-api/internal/api/middleware"
	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Auth        ports.AuthService
	Tokens      ports.TokenService
	Plants      ports.PlantService
	Ingestion   ports.IngestionService
	Favorites   ports.FavoriteService
	Checks      map[string]handler.Check
	CORSOrigins []string
	Logger      zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where the domain metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger, skipProbes))
	if len(d.CORSOrigins) > 0 {
		e.Use(middleware.CORS(d.CORSOrigins))
	}
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Skipper:    skipProbes,
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Tokens)
	adminHandler := handler.NewAdminHandler(d.Auth, d.Ingestion)
	plantHandler := handler.NewPlantHandler(d.Plants, d.Ingestion)
	favoriteHandler := handler.NewFavoriteHandler(d.Favorites)
	healthHandler := handler.NewHealthHandler(d.Checks)

	authMW := middleware.Auth(d.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Operational ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/api/docs/*", echoSwagger.WrapHandler)

	// --- Auth ---
	e.POST("/token", authHandler.Token)
	apiGroup := e.Group("/api")
	apiGroup.POST("/register", authHandler.Register)
	apiGroup.POST("/login", authHandler.Login)
	apiGroup.POST("/logout", authHandler.Logout, authMW)
	apiGroup.GET("/me", authHandler.Me, authMW)

	// --- Admin ---
	admin := apiGroup.Group("/admin", authMW, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/create", adminHandler.CreateUser)
	admin.GET("/ingestions", adminHandler.ListIngestions)

	// --- Catalogue ---
	apiGroup.GET("/check_token", plantHandler.CheckToken)
	apiGroup.GET("/plants", plantHandler.List)
	apiGroup.GET("/random_plants", plantHandler.Random)
	apiGroup.PUT("/plants/:id", plantHandler.Update, authMW, adminOnly)
	apiGroup.DELETE("/plants/:id", plantHandler.Delete, authMW, adminOnly)
	apiGroup.DELETE("/plants", plantHandler.DeleteAll, authMW, adminOnly)
	apiGroup.GET("/image/:name", plantHandler.Image)

	// --- Favorites ---
	favorites := apiGroup.Group("/favorites", authMW)
	favorites.GET("", favoriteHandler.List)
	favorites.POST("/:id", favoriteHandler.Add)
	favorites.DELETE("/:id", favoriteHandler.Remove)

	return e
}

func skipProbes(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health")
}
