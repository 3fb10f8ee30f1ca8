package bark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	var got pushPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/push", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New("device", srv.URL+"/", "Quoteverse")
	require.True(t, s.Enabled())
	require.NoError(t, s.Push(context.Background(), "Digest failed", "3 of 10 sends failed"))

	assert.Equal(t, "device", got.DeviceKey)
	assert.Equal(t, "[Quoteverse] Digest failed", got.Title)
	assert.Equal(t, "3 of 10 sends failed", got.Body)
}

func TestPushErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	assert.Error(t, New("device", srv.URL, "Quoteverse").Push(context.Background(), "t", "b"))
}

func TestDisabled(t *testing.T) {
	s := New("  ", "", "Quoteverse")
	assert.False(t, s.Enabled())
	assert.Equal(t, defaultServerURL, s.serverURL)
	assert.NoError(t, s.Push(context.Background(), "t", "b"))

	var nilSvc *Service
	assert.False(t, nilSvc.Enabled())
}
