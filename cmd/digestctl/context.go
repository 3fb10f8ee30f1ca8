package main

import (
	"strings"
	"sync"

	"github.com/quoteverse/core/internal/app"
	"github.com/quoteverse/core/internal/config"
	"github.com/quoteverse/core/internal/database"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	pkgredis "github.com/quoteverse/core/internal/pkg/redis"
	"go.uber.org/zap"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	logOnce sync.Once
	log     *zap.Logger

	once     sync.Once
	services *app.Services
	redis    *pkgredis.Client
	err      error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{configFlag: configFlag, verbose: verbose}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// logger writes to stderr; warnings always show, debug output only with --verbose.
func (c *commandContext) logger() *zap.Logger {
	c.logOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		if c.verbose == nil || !*c.verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		c.log = l
	})
	return c.log
}

// ensureServices loads config and connects the database once per process.
func (c *commandContext) ensureServices() (*app.Services, error) {
	c.once.Do(func() {
		cfg, err := config.Load(c.configPath())
		if err != nil {
			c.err = err
			return
		}
		db, err := database.Connect(cfg, false)
		if err != nil {
			c.err = err
			return
		}

		var locker dispatch.Locker = dispatch.NopLocker{}
		if rc, err := pkgredis.Connect(cfg.RedisURL); err == nil {
			c.redis = rc
			locker = dispatch.NewRedisLocker(rc)
		} else {
			c.logger().Warn("redis unavailable, running without the digest run lock", zap.Error(err))
		}
		c.services = app.NewServices(cfg, db, locker, c.logger())
	})
	return c.services, c.err
}

func (c *commandContext) close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
}
