package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "quoteverse"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultMailProvider = MailProviderResend
	defaultMailTimeout  = 15 * time.Second
	defaultSMTPPort     = 587
	defaultSiteName     = "Quoteverse"

	defaultDigestBatchSize  = 50
	defaultDigestWindowDays = 7
	defaultDigestSchedule   = "0 9 * * 1"
	defaultDigestLockTTL    = 30 * time.Minute
	defaultTokenTTL         = 24 * time.Hour
)

// Supported outbound mail providers.
const (
	MailProviderResend  = "resend"
	MailProviderMailjet = "mailjet"
	MailProviderSMTP    = "smtp"
)
