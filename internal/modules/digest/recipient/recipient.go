package recipient

import (
	"context"
	"fmt"
	"strings"

	"github.com/quoteverse/core/internal/models"
	"gorm.io/gorm"
)

// Criteria is the digest eligibility predicate.
type Criteria struct {
	Status       models.SubscriberStatus
	EmailStatus  models.EmailStatus
	WeeklyDigest bool
	MaxBounces   int

	// Narrow restricts the result to IDs, even when IDs ends up empty.
	Narrow bool
	IDs    []string
}

// Digest returns the weekly digest predicate, narrowed to ids.
func Digest(ids []string) Criteria {
	return Criteria{
		Status:       models.SubscriberActive,
		EmailStatus:  models.EmailVerified,
		WeeklyDigest: true,
		MaxBounces:   models.MaxBounceCount,
		Narrow:       len(ids) > 0,
		IDs:          dedupe(ids),
	}
}

// Matches reports whether sub satisfies c.
func (c Criteria) Matches(sub models.SubscriberModel) bool {
	if sub.Status != c.Status || sub.EmailStatus != c.EmailStatus {
		return false
	}
	if sub.NotifyWeeklyDigest != c.WeeklyDigest || sub.EmailBounceCount >= c.MaxBounces {
		return false
	}
	if !c.Narrow {
		return true
	}
	for _, id := range c.IDs {
		if id == sub.ID {
			return true
		}
	}
	return false
}

// Store runs Criteria against persisted subscribers.
type Store interface {
	Eligible(ctx context.Context, c Criteria) ([]models.SubscriberModel, error)
}

// Filter selects digest recipients. An explicit subset never widens the
// predicate: ineligible ids are dropped silently.
type Filter struct{ store Store }

func NewFilter(store Store) *Filter { return &Filter{store: store} }

func (f *Filter) Select(ctx context.Context, subset []string) ([]models.SubscriberModel, error) {
	subs, err := f.store.Eligible(ctx, Digest(subset))
	if err != nil {
		return nil, fmt.Errorf("select recipients: %w", err)
	}
	return subs, nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// GormStore is the gorm-backed Store.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Eligible(ctx context.Context, c Criteria) ([]models.SubscriberModel, error) {
	q := s.db.WithContext(ctx).
		Where("status = ? AND email_status = ? AND notify_weekly_digest = ? AND email_bounce_count < ?",
			c.Status, c.EmailStatus, c.WeeklyDigest, c.MaxBounces)
	if c.Narrow {
		if len(c.IDs) == 0 {
			return nil, nil
		}
		q = q.Where("id IN ?", c.IDs)
	}
	var subs []models.SubscriberModel
	err := q.Order("created_at ASC").Find(&subs).Error
	return subs, err
}
