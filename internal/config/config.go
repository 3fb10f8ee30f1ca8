package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	DSN            string             `yaml:"-"`
	RedisURL       string             `yaml:"-"`
	Database       DatabaseConfig     `yaml:"database"`
	Redis          RedisConfig        `yaml:"redis"`
	Env            string             `yaml:"env"` // "development" | "production"
	Paths          PathsConfig        `yaml:"paths"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	Timezone       string             `yaml:"timezone"`
	Mail           MailConfig         `yaml:"mail"`
	Site           SiteConfig         `yaml:"site"`
	Digest         DigestConfig       `yaml:"digest"`
	Subscription   SubscriptionConfig `yaml:"subscription"`
	Alert          AlertConfig        `yaml:"alert"`
}

type DatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type PathsConfig struct {
	Logs string `yaml:"logs"`
}

// MailConfig selects and configures the outbound email provider.
type MailConfig struct {
	Provider string        `yaml:"provider"`
	From     string        `yaml:"from"`
	ReplyTo  string        `yaml:"reply_to"`
	Timeout  time.Duration `yaml:"timeout"`
	Resend   struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"resend"`
	Mailjet struct {
		PublicKey  string `yaml:"public_key"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"mailjet"`
	SMTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		User string `yaml:"user"`
		Pass string `yaml:"pass"`
	} `yaml:"smtp"`
}

type SiteConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DigestConfig tunes the digest dispatch engine.
type DigestConfig struct {
	BatchSize      int           `yaml:"batch_size"`
	WindowDays     int           `yaml:"window_days"`
	Schedule       string        `yaml:"schedule"`
	EnableSchedule bool          `yaml:"enable_schedule"`
	LockTTL        time.Duration `yaml:"lock_ttl"`
}

type SubscriptionConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// AlertConfig configures Bark push alerts for failed scheduled digests.
// An empty BarkKey disables alerts.
type AlertConfig struct {
	BarkKey    string `yaml:"bark_key"`
	BarkServer string `yaml:"bark_server"`
}

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content on top of the defaults and validates the result.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Site: SiteConfig{Name: defaultSiteName},
		Digest: DigestConfig{
			BatchSize:  defaultDigestBatchSize,
			WindowDays: defaultDigestWindowDays,
			Schedule:   defaultDigestSchedule,
			LockTTL:    defaultDigestLockTTL,
		},
		Subscription: SubscriptionConfig{TokenTTL: defaultTokenTTL},
	}
	cfg.Mail.Provider = defaultMailProvider
	cfg.Mail.Timeout = defaultMailTimeout
	cfg.Mail.SMTP.Port = defaultSMTPPort
	return cfg
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	switch cfg.Mail.Provider {
	case MailProviderResend, MailProviderMailjet, MailProviderSMTP:
	default:
		return fmt.Errorf("unknown mail.provider %q", cfg.Mail.Provider)
	}
	if cfg.Digest.BatchSize < 1 {
		return fmt.Errorf("invalid digest.batch_size %d, expected >= 1", cfg.Digest.BatchSize)
	}
	if cfg.Digest.WindowDays < 1 {
		return fmt.Errorf("invalid digest.window_days %d, expected >= 1", cfg.Digest.WindowDays)
	}
	if _, err := cron.ParseStandard(cfg.Digest.Schedule); err != nil {
		return fmt.Errorf("invalid digest.schedule %q: %w", cfg.Digest.Schedule, err)
	}
	if cfg.Subscription.TokenTTL <= 0 {
		return fmt.Errorf("invalid subscription.token_ttl %s", cfg.Subscription.TokenTTL)
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" || c.Env == "dev" }

// LogDir returns the directory for daily log files.
func (c *AppConfig) LogDir() string { return ResolveRuntimePath(c.Paths.Logs, "logs") }
