package middleware

import (
	"errors"
	"net/http"
	"strings"

	"shopadmin/internal/auth"
	"shopadmin/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			abort(c, http.StatusUnauthorized, "unauthorized", msg)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// Actor builds the request context handed to services.
func Actor(c *gin.Context) domain.RequestContext {
	rc := domain.RequestContext{RequestID: GetRequestID(c)}
	if v, ok := c.Get(userIDKey); ok {
		rc.UserID, _ = v.(uint)
	}
	rc.Role = c.GetString(userRoleKey)
	return rc
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
