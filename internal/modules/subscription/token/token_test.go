package token

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quoteverse/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rows []models.VerificationTokenModel
	err  error
}

func (m *memStore) CreateToken(_ context.Context, tok *models.VerificationTokenModel) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *tok)
	return nil
}

func TestIssuePersistsTokenWithExpiry(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	store := &memStore{}
	issuer := NewIssuer(store, WithClock(func() time.Time { return now }))

	got, err := issuer.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)

	assert.Len(t, got.Token, 64)
	assert.Equal(t, now.Add(24*time.Hour), got.ExpiresAt)
	require.Len(t, store.rows, 1)
	assert.Equal(t, "a@b.com", store.rows[0].Email)
	assert.Equal(t, got.Token, store.rows[0].Token)
}

func TestIssueIsAdditive(t *testing.T) {
	store := &memStore{}
	issuer := NewIssuer(store, WithTTL(time.Hour))

	first, err := issuer.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)
	second, err := issuer.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.Len(t, store.rows, 2)
}

func TestIssueUsesRandomSource(t *testing.T) {
	issuer := NewIssuer(&memStore{}, WithRandom(bytes.NewReader(bytes.Repeat([]byte{0xab}, 32))))
	got, err := issuer.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, string(bytes.Repeat([]byte("ab"), 32)), got.Token)

	short := NewIssuer(&memStore{}, WithRandom(bytes.NewReader([]byte{1, 2})))
	_, err = short.Issue(context.Background(), "a@b.com")
	assert.Error(t, err)
}

func TestIssuePropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewIssuer(&memStore{err: boom}).Issue(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, boom)
}
