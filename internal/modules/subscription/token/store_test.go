package token

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/quoteverse/core/internal/database/dbtest"
	"github.com/quoteverse/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStoreAppendsTokens(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	issuer := NewIssuer(NewGormStore(db), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	first, err := issuer.Issue(ctx, "ada@example.com")
	require.NoError(t, err)
	second, err := issuer.Issue(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	var rows []models.VerificationTokenModel
	require.NoError(t, db.Where("email = ?", "ada@example.com").Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row.Token, 64)
		assert.True(t, row.ExpiresAt.Equal(now.Add(DefaultTTL)))
	}
}

func TestGormStoreRejectsReusedToken(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	zero := func() Option { return WithRandom(bytes.NewReader(make([]byte, tokenBytes))) }

	_, err := NewIssuer(NewGormStore(db), zero()).Issue(ctx, "ada@example.com")
	require.NoError(t, err)
	_, err = NewIssuer(NewGormStore(db), zero()).Issue(ctx, "bob@example.com")
	assert.Error(t, err)
}
