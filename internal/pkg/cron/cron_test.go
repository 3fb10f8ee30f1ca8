package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComputesNextRun(t *testing.T) {
	s := New()
	s.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local) }

	require.NoError(t, s.Register(Job{Name: "weekly", Spec: "0 9 * * 1", Fn: func(context.Context) error { return nil }}))

	items := s.List()
	require.Len(t, items, 1)
	assert.Equal(t, StatusIdle, items[0].Status)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local), items[0].NextDate)
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	assert.Error(t, New().Register(Job{Name: "bad", Spec: "whenever"}))
}

func TestRunRecordsOutcome(t *testing.T) {
	s := New()
	fail := true
	require.NoError(t, s.Register(Job{Name: "job", Spec: "@hourly", Fn: func(context.Context) error {
		if fail {
			return errors.New("provider down")
		}
		return nil
	}}))

	require.NoError(t, s.Run(context.Background(), "job"))
	items := s.List()
	assert.Equal(t, StatusReject, items[0].Status)
	assert.Equal(t, "provider down", items[0].Message)
	assert.NotNil(t, items[0].LastRunAt)

	fail = false
	require.NoError(t, s.Run(context.Background(), "job"))
	assert.Equal(t, StatusFulfill, s.List()[0].Status)

	assert.Error(t, s.Run(context.Background(), "missing"))
	assert.True(t, s.Has("job"))
	assert.False(t, s.Has("missing"))
}

func TestStartStopsOnCancel(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Register(Job{Name: "tick", Spec: "@every 1s", Fn: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
	cancel()
}
