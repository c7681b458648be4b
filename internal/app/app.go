package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/adapter/database"
	httpadapter "github.com/adminpainel/users-api-go/internal/adapter/http"
	"github.com/adminpainel/users-api-go/internal/domain/service"
	"github.com/adminpainel/users-api-go/internal/infra/metrics"
	"github.com/adminpainel/users-api-go/internal/infra/middleware"
	"github.com/adminpainel/users-api-go/pkg/cache"
	"github.com/adminpainel/users-api-go/pkg/config"
	"github.com/adminpainel/users-api-go/pkg/storage"
)

// App agrega todas as dependências da aplicação
type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *database.Database
	Storage        storage.Storage
	Cache          cache.Cache
	Services       *service.Services
	Middleware     *middleware.Middleware
	MetricsHandler *middleware.MetricsHandler
	APIMetrics     *metrics.APIMetrics

	userHandler *httpadapter.UserHandler
	authHandler *httpadapter.AuthHandler
	health      *httpadapter.HealthChecker
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Banco de dados
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        database.ParseLogLevel(cfg.Database.LogLevel),
		SlowThreshold:   cfg.Database.SlowThreshold,
		MigrationDir:    cfg.Database.MigrationDir,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar banco de dados: %w", err)
	}

	// Métricas
	apiMetrics := metrics.NewAPIMetrics()
	metricsHandler := middleware.NewMetricsHandler(apiMetrics, logger)

	// Armazenamento de blobs (fotos de perfil)
	blobStorage, err := newStorage(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar storage: %w", err)
	}

	// Cache
	appCache, err := newCache(cfg, apiMetrics, logger)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar cache: %w", err)
	}

	// Repositórios
	userRepo := database.NewUserRepository(db.DB(), logger)

	// Serviços
	services, err := service.NewServices(userRepo, blobStorage, appCache, cfg.Auth.ProtectedEmails, logger)
	if err != nil {
		return nil, err
	}

	// Middlewares
	metricsMiddleware := middleware.NewMetricsMiddleware(apiMetrics, logger)
	middlewares := middleware.NewMiddleware(cfg, services.AuthService, apiMetrics, logger)
	middlewares.SetMetricsMiddleware(metricsMiddleware)

	// Handlers HTTP
	userHandler := httpadapter.NewUserHandler(services.UserService, apiMetrics, logger)
	authHandler := httpadapter.NewAuthHandler(services.AuthService, logger)
	health := httpadapter.NewHealthChecker(db, appCache, blobStorage, logger)

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Storage:        blobStorage,
		Cache:          appCache,
		Services:       services,
		Middleware:     middlewares,
		MetricsHandler: metricsHandler,
		APIMetrics:     apiMetrics,
		userHandler:    userHandler,
		authHandler:    authHandler,
		health:         health,
	}, nil
}

// newStorage cria o backend de armazenamento configurado
func newStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return storage.NewLocalStorage(cfg.Storage.BaseDir, logger)
	}
}

// newCache cria o backend de cache configurado
func newCache(cfg *config.Config, apiMetrics *metrics.APIMetrics, logger *zap.Logger) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return &cache.NoOpCache{}, nil
	}

	switch cfg.Cache.Type {
	case "redis":
		return cache.NewRedisCache(
			cfg.Cache.Redis.Address,
			cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB,
			logger,
		)
	default:
		return cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute, apiMetrics, logger), nil
	}
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	// Middleware global
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.SecurityHeaders())
	router.Use(a.Middleware.CORS())
	router.Use(a.Middleware.IgnoreFavicon())
	if a.Config.Tracing.Enabled {
		router.Use(a.Middleware.Tracing())
	}
	if a.Config.Metrics.Enabled {
		router.Use(a.Middleware.Metrics())
		a.MetricsHandler.RegisterEndpoint(router, a.Config.Metrics.PrometheusPath)
	}

	// Autenticação
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", a.Middleware.LoginRateLimit(), a.authHandler.Login)
	}

	// Health checks
	router.GET("/health", a.health.LivenessCheck)
	router.GET("/health/liveness", a.health.LivenessCheck)
	router.GET("/health/readiness", a.health.ReadinessCheck)

	// CRUD de usuários, protegido por autenticação
	api := router.Group("/api")
	if a.Config.Auth.Enabled {
		api.Use(a.Middleware.Authenticate)
	}
	{
		api.GET("/users", a.userHandler.List)
		api.POST("/users", a.userHandler.Create)
		api.GET("/users/:id", a.userHandler.Get)
		api.PUT("/users/:id", a.userHandler.Update)
		api.DELETE("/users/:id", a.userHandler.Delete)
		api.GET("/health/detailed", a.health.DetailedHealth)
	}
}

// Close libera os recursos da aplicação
func (a *App) Close() error {
	return a.DB.Close()
}
