package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/app/auth"
	"github.com/adminpainel/users-api-go/internal/infra/metrics"
	"github.com/adminpainel/users-api-go/pkg/config"
	"github.com/adminpainel/users-api-go/pkg/ratelimit"
)

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger              *zap.Logger
	cfg                 *config.Config
	authMiddleware      *AuthMiddleware
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
}

// NewMiddleware cria um novo conjunto de middlewares
func NewMiddleware(cfg *config.Config, authService *auth.AuthService, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *Middleware {
	// Rate limiting depende de Redis; sem ele os limites ficam desabilitados
	var rateLimitMiddleware *RateLimitMiddleware
	if cfg.Cache.Type == "redis" && cfg.Cache.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		limiter := ratelimit.NewRedisLimiter(redisClient, logger)
		rateLimitMiddleware = NewRateLimitMiddleware(limiter, apiMetrics, logger)
		logger.Info("Rate limiting habilitado via Redis",
			zap.String("redis.address", cfg.Cache.Redis.Address))
	} else {
		logger.Info("Redis não configurado, rate limiting desabilitado")
	}

	return &Middleware{
		logger:              logger,
		cfg:                 cfg,
		authMiddleware:      NewAuthMiddleware(authService, logger),
		recoveryMiddleware:  NewRecoveryMiddleware(logger),
		securityMiddleware:  NewSecurityMiddleware(logger),
		tracingMiddleware:   NewTracingMiddleware(logger),
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

// SetMetricsMiddleware configura o middleware de métricas
func (m *Middleware) SetMetricsMiddleware(metricsMiddleware *MetricsMiddleware) {
	m.metricsMiddleware = metricsMiddleware
}

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return func(c *gin.Context) {
		c.Next()
	}
}

// Authenticate middleware para autenticação de usuários
func (m *Middleware) Authenticate(c *gin.Context) {
	m.authMiddleware.Authenticate(c)
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// LoginRateLimit limita tentativas de login conforme a configuração
func (m *Middleware) LoginRateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware == nil || m.cfg.Auth.LoginRateLimit <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return m.rateLimitMiddleware.LoginRateLimit(m.cfg.Auth.LoginRateLimit)
}

// IgnoreFavicon é um middleware que ignora requisições para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		m.logger.Info("request completed",
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// SecurityHeaders middleware para adicionar cabeçalhos de segurança
func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

// CORS middleware para configurar CORS
func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

// Tracing retorna o middleware de tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}
