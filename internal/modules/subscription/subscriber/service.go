package subscriber

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/modules/subscription/token"
	"github.com/quoteverse/core/internal/pkg/mail"
	"go.uber.org/zap"
)

const verifyPath = "/api/v2/subscribers/verify"

// Store is the subscriber datastore boundary used by intake.
type Store interface {
	// FindByEmail returns (nil, nil) when no subscriber has the email.
	FindByEmail(ctx context.Context, email string) (*models.SubscriberModel, error)
	// Create returns ErrEmailTaken when the email is already present.
	Create(ctx context.Context, sub *models.SubscriberModel) error
}

// TokenIssuer issues verification tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, email string) (*token.Issued, error)
}

// SignupRequest is the intake payload.
type SignupRequest struct {
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	NotifyNewQuotes    *bool   `json:"notify_new_quotes"`
	NotifyWeeklyDigest *bool   `json:"notify_weekly_digest"`
	NotifyWhatsApp     *bool   `json:"notify_whatsapp"`
	WhatsAppPhone      *string `json:"whatsapp_phone"`
}

// Outcome is the successful intake result kind.
type Outcome string

const (
	OutcomeVerificationSent    Outcome = "verification_sent"
	OutcomePendingVerification Outcome = "pending_verification"
)

type Result struct {
	Outcome    Outcome
	Message    string
	Subscriber *models.SubscriberModel
}

// Service drives the pending/verified subscription state machine.
type Service struct {
	store    Store
	issuer   TokenIssuer
	mailer   mail.Mailer
	siteName string
	siteURL  string
	logger   *zap.Logger
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSite sets the name shown in emails and the base URL of verification links.
func WithSite(name, baseURL string) Option {
	return func(s *Service) {
		s.siteName = name
		s.siteURL = baseURL
	}
}

func NewService(store Store, issuer TokenIssuer, mailer mail.Mailer, opts ...Option) *Service {
	s := &Service{
		store:    store,
		issuer:   issuer,
		mailer:   mailer,
		siteName: "Quoteverse",
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("SubscriptionService")
	return s
}

// Subscribe validates req, then creates a pending subscriber or re-sends the
// verification email to an existing pending one.
func (s *Service) Subscribe(ctx context.Context, req SignupRequest) (*Result, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}
	if existing != nil {
		return s.resume(ctx, existing)
	}

	issued, err := s.issuer.Issue(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	sub := newSubscriber(req)
	if err := s.store.Create(ctx, sub); err != nil {
		if !errors.Is(err, ErrEmailTaken) {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}
		// A concurrent signup inserted the row first; continue as that row.
		existing, err := s.store.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("lookup subscriber: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("create subscriber: %w", ErrEmailTaken)
		}
		return s.resume(ctx, existing)
	}

	if err := s.sendVerification(ctx, sub, issued); err != nil {
		return nil, err
	}
	s.logger.Info("subscriber created, verification sent", zap.String("subscriber_id", sub.ID))
	return &Result{
		Outcome:    OutcomeVerificationSent,
		Message:    "Please check your email to verify your subscription",
		Subscriber: sub,
	}, nil
}

// resume handles a signup for an email that already has a subscriber row.
func (s *Service) resume(ctx context.Context, sub *models.SubscriberModel) (*Result, error) {
	if sub.EmailStatus != models.EmailPending {
		return nil, ErrAlreadySubscribed
	}

	issued, err := s.issuer.Issue(ctx, sub.Email)
	if err != nil {
		return nil, err
	}
	if err := s.sendVerification(ctx, sub, issued); err != nil {
		return nil, err
	}
	s.logger.Info("verification re-sent", zap.String("subscriber_id", sub.ID))
	return &Result{
		Outcome:    OutcomePendingVerification,
		Message:    "A new verification email has been sent. Please check your inbox",
		Subscriber: sub,
	}, nil
}

func (s *Service) sendVerification(ctx context.Context, sub *models.SubscriberModel, issued *token.Issued) error {
	verifyURL, err := buildVerifyURL(s.siteURL, issued.Token)
	if err != nil {
		return &EmailSendError{Err: err}
	}
	msg, err := mail.VerifyMessage(sub.Email, mail.VerifyData{
		Name:      sub.Name,
		SiteName:  s.siteName,
		VerifyURL: verifyURL,
		ExpiresAt: issued.ExpiresAt,
	})
	if err != nil {
		return &EmailSendError{Err: err}
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("verification email failed",
			zap.String("subscriber_id", sub.ID),
			zap.String("category", string(mail.Classify(err))),
			zap.Error(err))
		return &EmailSendError{Err: err}
	}
	return nil
}

func newSubscriber(req SignupRequest) *models.SubscriberModel {
	sub := &models.SubscriberModel{
		Name:               req.Name,
		Email:              req.Email,
		Status:             models.SubscriberActive,
		EmailStatus:        models.EmailPending,
		NotifyWeeklyDigest: true,
		WhatsAppPhone:      req.WhatsAppPhone,
	}
	if req.NotifyNewQuotes != nil {
		sub.NotifyNewQuotes = *req.NotifyNewQuotes
	}
	if req.NotifyWeeklyDigest != nil {
		sub.NotifyWeeklyDigest = *req.NotifyWeeklyDigest
	}
	if req.NotifyWhatsApp != nil {
		sub.NotifyWhatsApp = *req.NotifyWhatsApp
	}
	return sub
}

func buildVerifyURL(baseURL, tok string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return "", errors.New("verification url is not configured")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("invalid verification base url")
	}
	u.Path = strings.TrimRight(u.Path, "/") + verifyPath
	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
