package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminpainel/users-api-go/internal/infra/metrics"
	"github.com/adminpainel/users-api-go/pkg/ratelimit"
)

// RateLimitMiddleware gerencia rate limiting baseado em Redis
type RateLimitMiddleware struct {
	limiter *ratelimit.RedisLimiter
	logger  *zap.Logger
	metrics *metrics.APIMetrics
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting
func NewRateLimitMiddleware(limiter *ratelimit.RedisLimiter, metrics *metrics.APIMetrics, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
		metrics: metrics,
	}
}

// IPRateLimit limita requisições por IP
func (m *RateLimitMiddleware) IPRateLimit(limit int, period time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		config := ratelimit.LimitConfig{
			Key:    "ip:" + clientIP,
			Limit:  limit,
			Period: period,
		}

		m.enforce(c, config, "ip_limit")
	}
}

// LoginRateLimit limita tentativas de login por IP
// O limite vem da configuração de autenticação (requisições por minuto)
func (m *RateLimitMiddleware) LoginRateLimit(limitPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		config := ratelimit.LimitConfig{
			Key:    "login:" + c.ClientIP(),
			Limit:  limitPerMinute,
			Period: time.Minute,
		}

		m.enforce(c, config, "login_limit")
	}
}

// enforce aplica o limite e escreve os cabeçalhos de rate limit
func (m *RateLimitMiddleware) enforce(c *gin.Context, config ratelimit.LimitConfig, limitType string) {
	allowed, limit, remaining, resetAfter, err := m.limiter.Allow(c.Request.Context(), config)
	if err != nil {
		// Em caso de falha do Redis, permite a requisição
		m.logger.Error("erro ao verificar rate limit", zap.Error(err))
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetAfter).Unix(), 10))

	if !allowed {
		if m.metrics != nil {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			m.metrics.RateLimitExceeded(path, c.Request.Method, limitType)
		}

		c.Header("Retry-After", strconv.Itoa(int(resetAfter.Seconds())))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"status":      "error",
			"message":     "Taxa de requisições excedida",
			"retry_after": int(resetAfter.Seconds()),
		})
		return
	}

	c.Next()
}
