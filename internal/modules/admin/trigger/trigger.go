package trigger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	"github.com/quoteverse/core/internal/pkg/mail"
	"github.com/quoteverse/core/internal/pkg/ratelimit"
	"go.uber.org/zap"
)

const listInterval = time.Second

var ErrEmptySelection = errors.New("select at least one subscriber")

// Dispatcher runs a digest.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

// Lister loads subscribers for the admin listing.
type Lister interface {
	List(ctx context.Context, limit int) ([]models.SubscriberModel, error)
}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastWarning ToastKind = "warning"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast is the notification shown to the administrator after a send.
type Toast struct {
	Kind           ToastKind     `json:"kind"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       mail.Category `json:"category,omitempty"`
	RecipientCount int           `json:"recipientCount"`
	FailureCount   int           `json:"failureCount"`
}

// Trigger is the admin entry point for manual digest sends.
type Trigger struct {
	dispatcher Dispatcher
	lister     Lister
	gate       *ratelimit.Gate
	logger     *zap.Logger
}

type Option func(*Trigger)

func WithLogger(logger *zap.Logger) Option {
	return func(t *Trigger) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithGate replaces the listing gate, mainly to inject a clock.
func WithGate(g *ratelimit.Gate) Option {
	return func(t *Trigger) {
		if g != nil {
			t.gate = g
		}
	}
}

func New(d Dispatcher, l Lister, opts ...Option) *Trigger {
	t := &Trigger{
		dispatcher: d,
		lister:     l,
		gate:       ratelimit.NewGate(listInterval),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("AdminTrigger")
	return t
}

// SendDigest dispatches a production digest to the selected subscribers.
// The returned toast is always populated, even alongside an error.
func (t *Trigger) SendDigest(ctx context.Context, ids []string) (Toast, error) {
	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			selected = append(selected, id)
		}
	}
	if len(selected) == 0 {
		return Toast{Kind: ToastError, Title: "No subscribers selected", Description: ErrEmptySelection.Error()}, ErrEmptySelection
	}

	result, err := t.dispatcher.Dispatch(ctx, dispatch.Request{SelectedSubscribers: selected})
	if err != nil {
		t.logger.Error("digest dispatch failed", zap.Int("selected", len(selected)), zap.Error(err))
		return ErrorToast(err), err
	}
	t.logger.Info("digest dispatched",
		zap.Int("selected", len(selected)),
		zap.Int("sent", result.RecipientCount),
		zap.Int("failed", result.FailureCount),
	)
	return ResultToast(result), nil
}

// ListSubscribers returns the subscriber listing, or ratelimit.ErrTooSoon
// when called again within a second.
func (t *Trigger) ListSubscribers(ctx context.Context, limit int) ([]models.SubscriberModel, error) {
	if err := t.gate.Allow(); err != nil {
		return nil, err
	}
	return t.lister.List(ctx, limit)
}

// RetryAfter reports how long the listing gate stays closed.
func (t *Trigger) RetryAfter() time.Duration { return t.gate.RetryAfter() }

// ResultToast summarizes a completed dispatch. Partial failures keep the
// success count visible.
func ResultToast(r *dispatch.Result) Toast {
	toast := Toast{RecipientCount: r.RecipientCount, FailureCount: r.FailureCount}
	switch {
	case r.RecipientCount > 0 && r.FailureCount == 0:
		toast.Kind = ToastSuccess
		toast.Title = "Digest sent"
		toast.Description = fmt.Sprintf("Sent to %d subscribers.", r.RecipientCount)
	case r.RecipientCount > 0:
		toast.Kind = ToastWarning
		toast.Title = "Digest partially sent"
		toast.Description = fmt.Sprintf("Sent to %d subscribers, %d failed.", r.RecipientCount, r.FailureCount)
	case r.FailureCount > 0:
		toast.Kind = ToastError
		toast.Title = "Digest failed"
		toast.Description = fmt.Sprintf("All %d sends failed.", r.FailureCount)
	default:
		toast.Kind = ToastInfo
		toast.Title = "No recipients processed"
		toast.Description = r.Message
	}
	return toast
}

// ErrorToast classifies a dispatch error for display.
func ErrorToast(err error) Toast {
	category := mail.Classify(err)
	toast := Toast{Kind: ToastError, Category: category}
	switch category {
	case mail.CategoryRateLimit:
		toast.Title = "Rate limit reached"
		toast.Description = "The email provider is throttling requests. Wait a minute and try again."
	case mail.CategoryVerification:
		toast.Title = "Sender not verified"
		toast.Description = "The sending domain or address is not verified with the email provider."
	case mail.CategoryInvalidEmail:
		toast.Title = "Invalid email address"
		toast.Description = "One or more recipient addresses were rejected."
	default:
		toast.Title = "Failed to send digest"
		toast.Description = err.Error()
	}
	return toast
}
