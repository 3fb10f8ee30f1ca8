package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/models"
	"github.com/quoteverse/core/internal/modules/digest/dispatch"
	"github.com/quoteverse/core/internal/pkg/mail"
	"github.com/quoteverse/core/internal/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeDispatcher struct {
	result *dispatch.Result
	err    error
	calls  []dispatch.Request
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req dispatch.Request) (*dispatch.Result, error) {
	f.calls = append(f.calls, req)
	return f.result, f.err
}

type fakeLister struct {
	subs  []models.SubscriberModel
	calls int
}

func (f *fakeLister) List(context.Context, int) ([]models.SubscriberModel, error) {
	f.calls++
	return f.subs, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestSendDigestRejectsEmptySelection(t *testing.T) {
	d := &fakeDispatcher{}
	for _, ids := range [][]string{nil, {}, {" ", ""}} {
		toast, err := New(d, &fakeLister{}).SendDigest(context.Background(), ids)
		assert.ErrorIs(t, err, ErrEmptySelection)
		assert.Equal(t, ToastError, toast.Kind)
	}
	assert.Empty(t, d.calls)
}

func TestSendDigestProductionMode(t *testing.T) {
	d := &fakeDispatcher{result: &dispatch.Result{RecipientCount: 2}}
	toast, err := New(d, &fakeLister{}).SendDigest(context.Background(), []string{"a", " b "})
	require.NoError(t, err)

	require.Len(t, d.calls, 1)
	assert.False(t, d.calls[0].IsTestMode)
	assert.Equal(t, []string{"a", "b"}, d.calls[0].SelectedSubscribers)
	assert.Equal(t, ToastSuccess, toast.Kind)
	assert.Equal(t, "Sent to 2 subscribers.", toast.Description)
}

func TestResultToast(t *testing.T) {
	partial := ResultToast(&dispatch.Result{RecipientCount: 7, FailureCount: 3})
	assert.Equal(t, ToastWarning, partial.Kind)
	assert.Equal(t, 7, partial.RecipientCount)
	assert.Equal(t, 3, partial.FailureCount)
	assert.Contains(t, partial.Description, "7")
	assert.Contains(t, partial.Description, "3 failed")

	failed := ResultToast(&dispatch.Result{FailureCount: 4})
	assert.Equal(t, ToastError, failed.Kind)

	none := ResultToast(&dispatch.Result{Message: "No eligible subscribers found"})
	assert.Equal(t, ToastInfo, none.Kind)
	assert.Equal(t, "No eligible subscribers found", none.Description)
}

func TestErrorToastClassification(t *testing.T) {
	cases := []struct {
		err      error
		category mail.Category
	}{
		{errors.New("Too Many Requests: rate limit exceeded"), mail.CategoryRateLimit},
		{errors.New("The example.com domain is not verified"), mail.CategoryVerification},
		{errors.New("Invalid `to` field: invalid email address"), mail.CategoryInvalidEmail},
		{&mail.DeliveryError{Provider: "resend", StatusCode: 429, Category: mail.CategoryRateLimit}, mail.CategoryRateLimit},
		{errors.New("connection refused"), mail.CategoryGeneric},
	}
	for _, tc := range cases {
		toast := ErrorToast(tc.err)
		assert.Equal(t, ToastError, toast.Kind)
		assert.Equal(t, tc.category, toast.Category, tc.err.Error())
	}
	assert.Equal(t, "connection refused", ErrorToast(errors.New("connection refused")).Description)
}

func TestSendDigestError(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("rate limit exceeded")}
	toast, err := New(d, &fakeLister{}).SendDigest(context.Background(), []string{"a"})
	assert.Error(t, err)
	assert.Equal(t, mail.CategoryRateLimit, toast.Category)
}

func TestListSubscribersGate(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	lister := &fakeLister{}
	tr := New(&fakeDispatcher{}, lister, WithGate(ratelimit.NewGate(time.Second, ratelimit.WithClock(c.now))))

	_, err := tr.ListSubscribers(context.Background(), 0)
	require.NoError(t, err)

	c.t = c.t.Add(400 * time.Millisecond)
	_, err = tr.ListSubscribers(context.Background(), 0)
	assert.ErrorIs(t, err, ratelimit.ErrTooSoon)
	assert.Equal(t, 600*time.Millisecond, tr.RetryAfter())

	c.t = c.t.Add(600 * time.Millisecond)
	_, err = tr.ListSubscribers(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newTestRouter(tr *Trigger) *gin.Engine {
	r := gin.New()
	NewHandler(tr).RegisterRoutes(r.Group("/api/v2"), func(c *gin.Context) { c.Next() })
	return r
}

func TestHandlerSend(t *testing.T) {
	d := &fakeDispatcher{result: &dispatch.Result{RecipientCount: 1, FailureCount: 1}}
	r := newTestRouter(New(d, &fakeLister{}))

	w := serve(r, http.MethodPost, "/api/v2/admin/digest/send", `{"selectedUsers":["a","b"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	var toast Toast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toast))
	assert.Equal(t, ToastWarning, toast.Kind)

	w = serve(r, http.MethodPost, "/api/v2/admin/digest/send", `{"selectedUsers":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	d.err = dispatch.ErrRunInProgress
	w = serve(r, http.MethodPost, "/api/v2/admin/digest/send", `{"selectedUsers":["a"]}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	d.err = errors.New("boom")
	w = serve(r, http.MethodPost, "/api/v2/admin/digest/send", `{"selectedUsers":["a"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlerListSubscribersTooSoon(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	lister := &fakeLister{subs: []models.SubscriberModel{{Email: "a@b.com"}}}
	r := newTestRouter(New(&fakeDispatcher{}, lister, WithGate(ratelimit.NewGate(time.Second, ratelimit.WithClock(c.now)))))

	w := serve(r, http.MethodGet, "/api/v2/admin/subscribers", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v2/admin/subscribers", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, lister.calls)
}
