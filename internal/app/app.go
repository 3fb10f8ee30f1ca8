package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/config"
	"github.com/quoteverse/core/internal/database"
	"github.com/quoteverse/core/internal/middleware"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	pkgcron "github.com/quoteverse/core/internal/pkg/cron"
	pkgredis "github.com/quoteverse/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	svc    *Services
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New initializes the application: config → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis backs the run lock and the intake rate limit; without it both
	// degrade to no-ops.
	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, digest run lock and rate limit disabled", zap.Error(err))
	}

	return newApp(logger, cfg, db, rc)
}

func newApp(logger *zap.Logger, cfg *config.AppConfig, db *gorm.DB, rc *pkgredis.Client) (*App, error) {
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	var locker dispatch.Locker = dispatch.NopLocker{}
	if rc != nil {
		locker = dispatch.NewRedisLocker(rc)
	}
	svc := NewServices(cfg, db, locker, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sched := pkgcron.New()
	if err := registerCronJobs(sched, cfg.Digest.Schedule, svc, logger); err != nil {
		cancel()
		return nil, err
	}
	if cfg.Digest.EnableSchedule {
		sched.Start(ctx)
	}

	app := &App{cfg: cfg, router: router, db: db, redis: rc, svc: svc, logger: logger, cancel: cancel, sched: sched}
	app.registerRoutes()
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops the scheduler and closes Redis.
func (a *App) Shutdown() {
	a.cancel()
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

var processStart = time.Now()
