package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"geohunt_backend/pkg/auth"
	"geohunt_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window limiter backed by Redis INCR/EXPIRE.
// Without a reachable Redis it fails open so gameplay is never blocked
// by limiter infrastructure.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(addr, password string, db int) *RateLimiter {
	if addr == "" {
		return &RateLimiter{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger().Warn("redis unreachable, rate limiter disabled", zap.Error(err))
		return &RateLimiter{}
	}

	return &RateLimiter{client: client}
}

// Limit allows maxRequests per window per player (per IP when
// unauthenticated).
func (rl *RateLimiter) Limit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		ident := c.ClientIP()
		if claims, ok := auth.PlayerFromContext(c); ok {
			ident = claims.PlayerID.String()
		}
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident

		val, err := rl.client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			rl.client.Expire(c.Request.Context(), key, window)
		}

		if val > int64(maxRequests) {
			rateLimited.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
