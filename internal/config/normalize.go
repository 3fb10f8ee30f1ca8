package config

import "strings"

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)

	cfg.Mail.Provider = strings.ToLower(strings.TrimSpace(cfg.Mail.Provider))
	cfg.Mail.From = strings.TrimSpace(cfg.Mail.From)
	cfg.Mail.ReplyTo = strings.TrimSpace(cfg.Mail.ReplyTo)
	if cfg.Mail.Timeout <= 0 {
		cfg.Mail.Timeout = defaultMailTimeout
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = defaultSMTPPort
	}

	cfg.Site.Name = strings.TrimSpace(cfg.Site.Name)
	if cfg.Site.Name == "" {
		cfg.Site.Name = defaultSiteName
	}
	cfg.Site.URL = strings.TrimRight(strings.TrimSpace(cfg.Site.URL), "/")

	cfg.Digest.Schedule = strings.TrimSpace(cfg.Digest.Schedule)
	if cfg.Digest.Schedule == "" {
		cfg.Digest.Schedule = defaultDigestSchedule
	}
	if cfg.Digest.LockTTL <= 0 {
		cfg.Digest.LockTTL = defaultDigestLockTTL
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
}

func normalizeDatabaseConfig(cfg DatabaseConfig) DatabaseConfig {
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Charset = strings.TrimSpace(cfg.Charset)
	cfg.Loc = strings.TrimSpace(cfg.Loc)

	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if cfg.Charset == "" {
		cfg.Charset = defaultDBCharset
	}
	if cfg.Loc == "" {
		cfg.Loc = defaultDBLoc
	}
	return cfg
}

func normalizeRedisConfig(cfg RedisConfig) RedisConfig {
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)

	if cfg.Host == "" && cfg.URL == "" {
		cfg.Host = defaultRedisHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultRedisPort
	}
	return cfg
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}
