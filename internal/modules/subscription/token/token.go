package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/quoteverse/core/internal/models"
	"gorm.io/gorm"
)

// DefaultTTL is how long an issued token stays redeemable.
const DefaultTTL = 24 * time.Hour

const tokenBytes = 32

// Store persists issued tokens.
type Store interface {
	CreateToken(ctx context.Context, tok *models.VerificationTokenModel) error
}

// Issued is the caller-facing result of an issuance.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Issuer generates single-use, time-boxed verification tokens. Every call
// adds a row; earlier tokens for the same email are left untouched.
type Issuer struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

type Option func(*Issuer)

func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithRandom replaces the entropy source; tests only.
func WithRandom(r io.Reader) Option {
	return func(i *Issuer) { i.random = r }
}

func NewIssuer(store Store, opts ...Option) *Issuer {
	i := &Issuer{store: store, ttl: DefaultTTL, now: time.Now, random: rand.Reader}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue creates and persists a fresh token bound to email.
func (i *Issuer) Issue(ctx context.Context, email string) (*Issued, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(i.random, buf); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	row := &models.VerificationTokenModel{
		Email:     email,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: i.now().Add(i.ttl),
	}
	if err := i.store.CreateToken(ctx, row); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &Issued{Token: row.Token, ExpiresAt: row.ExpiresAt}, nil
}

// GormStore is the gorm-backed Store.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) CreateToken(ctx context.Context, tok *models.VerificationTokenModel) error {
	return s.db.WithContext(ctx).Create(tok).Error
}
