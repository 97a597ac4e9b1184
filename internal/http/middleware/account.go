package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"shopadmin/internal/domain"

	"github.com/gin-gonic/gin"
)

// AccountLookup returns the stored role and status of a user.
type AccountLookup func(ctx context.Context, userID uint) (role, status string, err error)

// CurrentAccount runs after Auth. It replaces the role from the token with the
// stored one and rejects accounts that were deleted or deactivated since the
// token was issued.
func CurrentAccount(lookup AccountLookup, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := Actor(c)
		role, status, err := lookup(c.Request.Context(), rc.UserID)
		if err != nil {
			if domain.IsNotFound(err) {
				abort(c, http.StatusUnauthorized, "unauthorized", "account no longer exists")
				return
			}
			log.Error("account lookup failed", "error", err, "user_id", rc.UserID, "request_id", rc.RequestID)
			abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		if !strings.EqualFold(status, domain.StatusActive) {
			abort(c, http.StatusForbidden, "forbidden", "account is inactive")
			return
		}
		c.Set(userRoleKey, role)
		c.Next()
	}
}
