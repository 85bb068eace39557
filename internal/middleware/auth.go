package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guilamu/distillpress/internal/pkg/jwt"
	"github.com/guilamu/distillpress/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"
)

// Auth returns a middleware that enforces JWT authentication with at
// least editor privilege.
func Auth() gin.HandlerFunc {
	return requireRole(jwt.RoleEditor)
}

// RequireAdmin returns a middleware that enforces admin privilege. The
// model-listing and settings surfaces need it; everything else is editor.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(jwt.RoleAdmin)
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Parse(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		if !roleSatisfies(claims.Role, role) {
			response.Forbidden(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

func roleSatisfies(have, want string) bool {
	if have == jwt.RoleAdmin {
		return true
	}
	return have == want
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
