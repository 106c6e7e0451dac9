package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-daily/internal/adapters/handler/http/middleware"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDependencies struct {
	TrackerHandler *TrackerHandler
	SessionHandler *SessionHandler
	Store          Pinger
	Redis          *redis.Client
	RateLimit      int
	StartTime      time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding"},
		MaxAge:          12 * time.Hour,
	}))

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, middleware.RateLimit{
			Limit:  deps.RateLimit,
			Window: time.Minute,
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		storeStatus := "connected"
		if deps.Store != nil && deps.Store.Ping(ctx) != nil {
			storeStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if storeStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status": "ok",
			"store":  storeStatus,
			"redis":  redisStatus,
			"uptime": time.Since(deps.StartTime).String(),
		})
	})

	apiV1 := router.Group("/api/v1")
	deps.TrackerHandler.RegisterRoutes(apiV1)
	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(apiV1)
	}

	return router
}
