package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quoteverse/core/internal/pkg/jwt"
	"github.com/quoteverse/core/internal/pkg/response"
)

const ContextKeyUserID = "user_id"

// AdminAuth enforces a bearer JWT carrying the admin role.
func AdminAuth(signer *jwt.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c)
			return
		}
		claims, err := signer.Parse(token)
		if err != nil {
			response.Unauthorized(c)
			return
		}
		if claims.Role != jwt.RoleAdmin {
			response.Forbidden(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
