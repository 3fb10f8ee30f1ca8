package subscriber

import (
	"context"
	"errors"

	"github.com/quoteverse/core/internal/database"
	"github.com/quoteverse/core/internal/models"
	"gorm.io/gorm"
)

// GormStore is the gorm-backed subscriber store.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) Create(ctx context.Context, sub *models.SubscriberModel) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// List returns subscribers newest first; limit <= 0 means no limit.
func (s *GormStore) List(ctx context.Context, limit int) ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return subs, q.Find(&subs).Error
}
