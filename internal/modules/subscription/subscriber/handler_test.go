package subscriber

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func postSignup(t *testing.T, r *gin.Engine, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v2/subscribers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func newTestRouter(store *memStore, mailer *fakeMailer) *gin.Engine {
	r := gin.New()
	NewHandler(newTestService(store, mailer)).RegisterRoutes(r.Group("/api/v2"))
	return r
}

func TestHandlerSignupThenResend(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store, &fakeMailer{})

	code, body := postSignup(t, r, `{"name":"Ada","email":"a@b.com"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "verification_sent", body["status"])

	code, body = postSignup(t, r, `{"name":"Ada","email":"a@b.com"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pending_verification", body["status"])
	assert.Len(t, store.subs, 1)
}

func TestHandlerErrors(t *testing.T) {
	store := newMemStore()
	store.subs["v@b.com"] = &models.SubscriberModel{Email: "v@b.com", EmailStatus: models.EmailVerified}

	code, body := postSignup(t, newTestRouter(store, &fakeMailer{}), `{"name":"Ada","email":"v@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "already_subscribed", body["status"])

	code, body = postSignup(t, newTestRouter(store, &fakeMailer{}), `{"name":"Ada","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, CodeValidation, body["code"])
	assert.Equal(t, "Please enter a valid email address", body["error"])

	code, body = postSignup(t, newTestRouter(store, &fakeMailer{}), `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])

	failing := &fakeMailer{err: assert.AnError}
	code, body = postSignup(t, newTestRouter(newMemStore(), failing), `{"name":"Ada","email":"a@b.com"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, CodeEmailSend, body["code"])
}
