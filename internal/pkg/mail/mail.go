package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the selected provider lacks credentials.
// No send can succeed, so callers treat it as fatal for a whole run.
var ErrNotConfigured = errors.New("mail provider is not configured")

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer is the outbound email-delivery boundary.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	// Validate reports ErrNotConfigured when no message could be delivered.
	Validate() error
}

// Config holds mail provider settings.
type Config struct {
	Provider string
	From     string
	ReplyTo  string
	Timeout  time.Duration

	ResendKey      string
	ResendEndpoint string

	MailjetPublicKey  string
	MailjetPrivateKey string
	MailjetBaseURL    string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

const (
	ProviderResend  = "resend"
	ProviderMailjet = "mailjet"
	ProviderSMTP    = "smtp"

	defaultResendEndpoint = "https://api.resend.com/emails"
)

// Sender sends emails through the configured provider.
type Sender struct {
	cfg    Config
	client *http.Client
}

var _ Mailer = (*Sender)(nil)

func New(cfg Config) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ResendEndpoint == "" {
		cfg.ResendEndpoint = defaultResendEndpoint
	}
	return &Sender{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.SMTPUser
}

// Validate checks the selected provider has the credentials it needs.
func (s *Sender) Validate() error {
	if strings.TrimSpace(s.from()) == "" {
		return fmt.Errorf("%w: sender address is empty", ErrNotConfigured)
	}
	switch s.cfg.Provider {
	case ProviderResend:
		if s.cfg.ResendKey == "" {
			return fmt.Errorf("%w: resend api key is empty", ErrNotConfigured)
		}
	case ProviderMailjet:
		if s.cfg.MailjetPublicKey == "" || s.cfg.MailjetPrivateKey == "" {
			return fmt.Errorf("%w: mailjet keys are empty", ErrNotConfigured)
		}
	case ProviderSMTP:
		if s.cfg.SMTPHost == "" {
			return fmt.Errorf("%w: smtp host is empty", ErrNotConfigured)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, s.cfg.Provider)
	}
	return nil
}

// Send dispatches an email through the configured provider.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return &DeliveryError{Provider: s.cfg.Provider, Category: CategoryInvalidEmail, Message: "no recipients"}
	}
	switch s.cfg.Provider {
	case ProviderMailjet:
		return s.sendMailjet(msg)
	case ProviderSMTP:
		return s.sendSMTP(ctx, msg)
	default:
		return s.sendResend(ctx, msg)
	}
}
