package mail

import "github.com/quoteverse/core/internal/config"

// BuildConfig maps the runtime mail section onto a sender Config so every
// caller (intake, dispatch, cli) builds the mailer the same way.
func BuildConfig(cfg config.MailConfig) Config {
	return Config{
		Provider:          cfg.Provider,
		From:              cfg.From,
		ReplyTo:           cfg.ReplyTo,
		Timeout:           cfg.Timeout,
		ResendKey:         cfg.Resend.APIKey,
		MailjetPublicKey:  cfg.Mailjet.PublicKey,
		MailjetPrivateKey: cfg.Mailjet.PrivateKey,
		SMTPHost:          cfg.SMTP.Host,
		SMTPPort:          cfg.SMTP.Port,
		SMTPUser:          cfg.SMTP.User,
		SMTPPass:          cfg.SMTP.Pass,
	}
}
