package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/middleware"
	"github.com/quoteverse/core/internal/modules/admin/trigger"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	"github.com/quoteverse/core/internal/modules/subscription/subscriber"
	"github.com/quoteverse/core/internal/pkg/jwt"
	"github.com/quoteverse/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	signupRateLimit  = 5
	signupRateWindow = time.Minute
)

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.AdminAuth(jwt.NewSigner(a.cfg.JWTSecret))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{
			"status": "ok",
			"name":   a.cfg.Site.Name,
			"uptime": humanizeDuration(time.Since(processStart)),
		})
	})

	var rdb *redis.Client
	if a.redis != nil {
		rdb = a.redis.Raw()
	}

	api := r.Group("/api/v2")
	subscriber.NewHandler(a.svc.Subscribers).RegisterRoutes(api,
		middleware.RateLimit(rdb, "subscribe", signupRateLimit, signupRateWindow, a.logger))
	dispatch.NewHandler(a.svc.Digest, a.svc.DigestStore).RegisterRoutes(api, authMW)
	trigger.NewHandler(a.svc.Trigger).RegisterRoutes(api, authMW)

	cronGroup := api.Group("/cron", authMW)
	cronGroup.GET("", func(c *gin.Context) {
		response.List(c, a.sched.List())
	})
	cronGroup.POST("/:name/run", func(c *gin.Context) {
		name := c.Param("name")
		if !a.sched.Has(name) {
			response.NotFound(c)
			return
		}
		// Runs detached; the job outlives the request.
		go func() {
			if err := a.sched.Run(context.Background(), name); err != nil {
				a.logger.Warn("manual cron run failed", zap.String("job", name), zap.Error(err))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"ok": 1, "job": name})
	})
}
