package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(signer *jwt.Signer) *gin.Engine {
	r := gin.New()
	r.Use(Logger(zap.NewNop()))
	r.GET("/admin", AdminAuth(signer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeyUserID))
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	signer := jwt.NewSigner("secret")
	r := newRouter(signer)

	admin, err := signer.Sign("u1", jwt.RoleAdmin, time.Hour)
	require.NoError(t, err)
	reader, err := signer.Sign("u2", "reader", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + reader, http.StatusForbidden},
		{"admin", "bearer " + admin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "u1", w.Body.String())
			}
		})
	}
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, "test", 1, time.Second, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
