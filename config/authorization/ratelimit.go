package authorization

import (
	"MediCare/config/redis"
	"MediCare/util"
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	defaultRateLimit  = 10
	defaultRateWindow = 15 * time.Minute
)

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	Prefix string
}

// localCounters keeps attempts in process when redis is not available.
var localCounters = cache.New(defaultRateWindow, 2*defaultRateWindow)

/*
* Count attempts per client and route
* Over the limit answers 429
* A failing counter lets the request through
 */
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateWindow
	}
	if cfg.Prefix == "" {
		cfg.Prefix = util.LoginLimitKey
	}

	return func(c *gin.Context) {
		key := cfg.Prefix + c.FullPath() + ":" + c.ClientIP()
		allowed, err := checkRateLimit(c.Request.Context(), key, cfg.Limit, cfg.Window)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}
		if !allowed {
			log.Warn().Str("ip", c.ClientIP()).Str("path", c.FullPath()).Msg("rate limit exceeded")
			err := util.NewTooManyRequestsError(util.TOO_MANY_REQUESTS)
			c.AbortWithStatusJSON(err.Status, util.FailedResponse(err))
			return
		}
		c.Next()
	}
}

func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := redis.GetClient()
	if rdb == nil {
		return checkLocal(key, limit, window), nil
	}

	pipe := rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

func checkLocal(key string, limit int, window time.Duration) bool {
	if err := localCounters.Add(key, 1, window); err == nil {
		return 1 <= limit
	}
	n, err := localCounters.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and Increment
		localCounters.Set(key, 1, window)
		return 1 <= limit
	}
	return n <= limit
}
