// Package api exposes the concierge over HTTP: query dispatch, capability
// listing and provider session control.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roamstack/travel-concierge/src/config"
	"github.com/roamstack/travel-concierge/src/mcpclient"
	"github.com/roamstack/travel-concierge/src/orchestrator"
)

// New assembles the gin engine with middleware and the /v1 routes.
func New(cfg config.Config, manager *mcpclient.Manager, dispatcher *orchestrator.Dispatcher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(requestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
	}))

	limiter := NewRateLimiter(cfg.RateLimit, time.Minute)
	r.Use(RateLimitMiddleware(limiter))

	h := newHandlers(cfg, manager, dispatcher)

	v1 := r.Group("/v1")
	{
		v1.POST("/query", h.Query)
		v1.GET("/tools", h.Tools)
		v1.POST("/connect", h.Connect)
		v1.POST("/disconnect", h.Disconnect)
		v1.GET("/health", h.Health)
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
