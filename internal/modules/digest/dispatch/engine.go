package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/modules/digest/content"
	"github.com/quoteverse/core/internal/pkg/mail"
	"go.uber.org/zap"
)

const (
	defaultBatchSize  = 50
	defaultWindowDays = 7
	defaultLockTTL    = 30 * time.Minute

	testRecipientName = "Test User"
	lockKeyPrefix     = "digest:lock:"
)

var (
	ErrTestEmailRequired = errors.New("test email is required in test mode")
	ErrRunInProgress     = errors.New("a digest run for this window is already in progress")
)

// Request selects the dispatch mode. SelectedSubscribers narrows production
// runs and is ignored in test mode.
type Request struct {
	IsTestMode          bool
	TestEmail           string
	SelectedSubscribers []string
}

type Result struct {
	RecipientCount int    `json:"recipientCount"`
	FailureCount   int    `json:"failureCount"`
	Message        string `json:"message"`
	TestMode       bool   `json:"testMode"`
	DigestID       string `json:"digestId,omitempty"`
}

// ContentSource assembles and renders the quotes for a window.
type ContentSource interface {
	Assemble(ctx context.Context, start, end time.Time) ([]content.Item, error)
	Render(items []content.Item) ([]mail.DigestItem, error)
}

// RecipientSource selects eligible subscribers.
type RecipientSource interface {
	Select(ctx context.Context, subset []string) ([]models.SubscriberModel, error)
}

// Store persists runs and the per-recipient audit trail.
type Store interface {
	CreateRun(ctx context.Context, run *models.DigestRunModel) error
	FinishRun(ctx context.Context, runID string, recipientCount int, sentAt time.Time) error
	RecordDelivery(ctx context.Context, rec *models.DeliveryRecordModel) error
	// MarkVerified is a no-op for subscribers already verified.
	MarkVerified(ctx context.Context, subscriberID string) error
}

type recipient struct {
	id    string
	email string
	name  string
}

// Engine fans a digest out to recipients in sequential batches of
// concurrent sends. Every send in a batch settles before the next batch
// starts.
type Engine struct {
	content    ContentSource
	recipients RecipientSource
	store      Store
	mailer     mail.Mailer
	locker     Locker

	batchSize  int
	windowDays int
	lockTTL    time.Duration
	siteName   string

	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLocker(l Locker, ttl time.Duration) Option {
	return func(e *Engine) {
		if l != nil {
			e.locker = l
		}
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

func WithWindowDays(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.windowDays = n
		}
	}
}

func WithSiteName(name string) Option {
	return func(e *Engine) { e.siteName = name }
}

func NewEngine(cs ContentSource, rs RecipientSource, store Store, mailer mail.Mailer, opts ...Option) *Engine {
	e := &Engine{
		content:    cs,
		recipients: rs,
		store:      store,
		mailer:     mailer,
		locker:     NopLocker{},
		batchSize:  defaultBatchSize,
		windowDays: defaultWindowDays,
		lockTTL:    defaultLockTTL,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("DigestDispatch")
	return e
}

// Dispatch runs one digest. Once recipient work starts it runs to
// completion; cancelling ctx does not abort in-flight batches.
func (e *Engine) Dispatch(ctx context.Context, req Request) (*Result, error) {
	req.TestEmail = strings.TrimSpace(req.TestEmail)
	if req.IsTestMode && req.TestEmail == "" {
		return nil, ErrTestEmailRequired
	}
	if err := e.mailer.Validate(); err != nil {
		return nil, err
	}

	start, end := content.Window(e.now(), e.windowDays)
	items, err := e.content.Assemble(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Result{
			TestMode: req.IsTestMode,
			Message:  fmt.Sprintf("No new quotes published in the last %d days", e.windowDays),
		}, nil
	}
	rendered, err := e.content.Render(items)
	if err != nil {
		return nil, err
	}

	if req.IsTestMode {
		return e.run(ctx, nil, nil, []recipient{{email: req.TestEmail, name: testRecipientName}}, rendered, start, end), nil
	}

	lease, acquired, err := e.locker.Acquire(ctx, lockKeyPrefix+end.Format("2006-01-02"), e.lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer lease.Release()

	run := &models.DigestRunModel{StartDate: start, EndDate: end}
	if err := e.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create digest run: %w", err)
	}

	subs, err := e.recipients.Select(ctx, req.SelectedSubscribers)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return &Result{DigestID: run.ID, Message: "No eligible subscribers found"}, nil
	}

	list := make([]recipient, 0, len(subs))
	for _, s := range subs {
		list = append(list, recipient{id: s.ID, email: s.Email, name: s.Name})
	}
	result := e.run(ctx, run, lease, list, rendered, start, end)

	// Counts are already authoritative in the delivery records.
	if err := e.store.FinishRun(context.WithoutCancel(ctx), run.ID, result.RecipientCount, e.now()); err != nil {
		e.logger.Error("failed to finalize digest run", zap.String("run", run.ID), zap.Error(err))
	}
	return result, nil
}

// run sends to every recipient. A nil run marks test mode: nothing is
// persisted and lease is nil.
func (e *Engine) run(ctx context.Context, run *models.DigestRunModel, lease Lease, list []recipient, items []mail.DigestItem, start, end time.Time) *Result {
	ctx = context.WithoutCancel(ctx)
	testMode := run == nil
	e.logger.Info("digest run started",
		zap.Bool("test_mode", testMode),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("recipients", len(list)),
		zap.Int("batch_size", e.batchSize),
	)

	var sent, failed int
	for offset := 0; offset < len(list); offset += e.batchSize {
		batch := list[offset:min(offset+e.batchSize, len(list))]
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, r := range batch {
			wg.Add(1)
			go func(i int, r recipient) {
				defer wg.Done()
				defer func() {
					if p := recover(); p != nil {
						errs[i] = fmt.Errorf("panic during send: %v", p)
					}
				}()
				errs[i] = e.sendOne(ctx, r, items, start, end, run)
			}(i, r)
		}
		wg.Wait()

		var batchFailed int
		for i, err := range errs {
			if err == nil {
				continue
			}
			batchFailed++
			e.logger.Warn("digest send failed", zap.String("email", batch[i].email), zap.Error(err))
			if !testMode {
				e.recordFailure(ctx, run.ID, batch[i].id, err)
			}
		}
		sent += len(batch) - batchFailed
		failed += batchFailed
		e.logger.Info("digest batch settled",
			zap.Int("batch", offset/e.batchSize+1),
			zap.Int("size", len(batch)),
			zap.Int("failed", batchFailed),
		)
		if lease != nil {
			if err := lease.Refresh(ctx); err != nil {
				e.logger.Error("failed to extend digest run lock", zap.String("run", run.ID), zap.Error(err))
			}
		}
	}

	result := &Result{RecipientCount: sent, FailureCount: failed, TestMode: testMode, Message: summary(sent, failed, testMode)}
	if run != nil {
		result.DigestID = run.ID
	}
	e.logger.Info("digest run finished", zap.Int("sent", sent), zap.Int("failed", failed))
	return result
}

// sendOne delivers to r and, outside test mode, records the success. Any
// error returned turns the recipient into a failure.
func (e *Engine) sendOne(ctx context.Context, r recipient, items []mail.DigestItem, start, end time.Time, run *models.DigestRunModel) error {
	msg, err := mail.DigestMessage(r.email, mail.DigestData{
		Name:     r.name,
		SiteName: e.siteName,
		Start:    start,
		End:      end,
		Items:    items,
	})
	if err != nil {
		return err
	}
	if err := e.mailer.Send(ctx, msg); err != nil {
		return err
	}
	if run == nil {
		return nil
	}

	// The sent record is written last so a recipient never ends up with
	// both a sent and a failed record.
	if err := e.store.MarkVerified(ctx, r.id); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if err := e.store.RecordDelivery(ctx, &models.DeliveryRecordModel{
		SubscriberID: r.id,
		DigestID:     run.ID,
		Type:         models.DeliveryTypeWeeklyDigest,
		Status:       models.DeliverySent,
		SentAt:       e.now(),
	}); err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

func (e *Engine) recordFailure(ctx context.Context, runID, subscriberID string, cause error) {
	msg := cause.Error()
	err := e.store.RecordDelivery(ctx, &models.DeliveryRecordModel{
		SubscriberID: subscriberID,
		DigestID:     runID,
		Type:         models.DeliveryTypeWeeklyDigest,
		Status:       models.DeliveryFailed,
		ErrorMessage: &msg,
		SentAt:       e.now(),
	})
	if err != nil {
		e.logger.Error("failed to record delivery failure", zap.String("subscriber", subscriberID), zap.Error(err))
	}
}

func summary(sent, failed int, testMode bool) string {
	switch {
	case testMode && failed == 0:
		return "Test digest sent"
	case testMode:
		return "Failed to send test digest"
	case failed == 0:
		return fmt.Sprintf("Digest sent to %d subscribers", sent)
	case sent == 0:
		return fmt.Sprintf("Failed to send digest to %d subscribers", failed)
	default:
		return fmt.Sprintf("Digest sent to %d subscribers, %d failed", sent, failed)
	}
}
