package dispatch

import (
	"context"
	"time"

	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/pkg/pagination"
	"github.com/quoteverse/core/internal/pkg/response"
	"gorm.io/gorm"
)

const defaultRunListLimit = 20

// GormStore is the gorm-backed Store. It also serves the read-only run
// history views.
type GormStore struct{ db *gorm.DB }

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) CreateRun(ctx context.Context, run *models.DigestRunModel) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *GormStore) FinishRun(ctx context.Context, runID string, recipientCount int, sentAt time.Time) error {
	return s.db.WithContext(ctx).Model(&models.DigestRunModel{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{"recipient_count": recipientCount, "sent_at": sentAt}).Error
}

func (s *GormStore) RecordDelivery(ctx context.Context, rec *models.DeliveryRecordModel) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *GormStore) MarkVerified(ctx context.Context, subscriberID string) error {
	return s.db.WithContext(ctx).Model(&models.SubscriberModel{}).
		Where("id = ? AND email_status <> ?", subscriberID, models.EmailVerified).
		Update("email_status", models.EmailVerified).Error
}

// ListRuns returns the most recent runs first.
func (s *GormStore) ListRuns(ctx context.Context, limit int) ([]models.DigestRunModel, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRunListLimit
	}
	var runs []models.DigestRunModel
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// ListDeliveries pages through the audit records of one run, failures first.
func (s *GormStore) ListDeliveries(ctx context.Context, runID string, q pagination.Query) ([]models.DeliveryRecordModel, response.Pagination, error) {
	var recs []models.DeliveryRecordModel
	query := s.db.WithContext(ctx).Model(&models.DeliveryRecordModel{}).
		Where("digest_id = ?", runID).
		Order("status ASC, sent_at ASC")
	meta, err := pagination.Paginate(query, q, &recs)
	return recs, meta, err
}
