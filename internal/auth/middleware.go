package auth

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"arenabook/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// AuthMiddleware accepts access tokens only and puts the caller's id, email
// and role on the context.
func AuthMiddleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || scheme != "Bearer" {
			api.Fail(c, http.StatusUnauthorized, "unauthenticated", "Bearer token required")
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			api.Fail(c, http.StatusUnauthorized, "unauthenticated", "Token is empty")
			return
		}

		id, err := issuer.Parse(token, KindAccess)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Fail(c, http.StatusUnauthorized, "token_expired", "Token expired")
			case errors.Is(err, ErrWrongTokenKind):
				api.Fail(c, http.StatusUnauthorized, "invalid_token", "Access token required")
			default:
				api.Fail(c, http.StatusUnauthorized, "invalid_token", "Invalid or malformed token")
			}
			return
		}

		c.Set(ctxUserID, id.UserID)
		c.Set(ctxUserEmail, id.Email)
		c.Set(ctxUserRole, id.Role)
		c.Next()
	}
}

// RequireRole lets the request through when the caller holds any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxUserRole)
		if !exists {
			api.Fail(c, http.StatusUnauthorized, "unauthenticated", "User role not found")
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "unauthenticated", "Invalid role type")
			return
		}

		if !slices.Contains(roles, roleStr) {
			api.Fail(c, http.StatusForbidden, "forbidden", "Insufficient permissions")
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
