package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "costbook/internal/core/context"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

// Actor puts the calling user, as named by the fronting gateway, into the
// request context. Requester and approver ids of approval requests come from here.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID != "" {
			ctx := appctx.WithActor(c.Request.Context(), &appctx.Actor{
				UserID: userID,
				Name:   c.GetHeader(HeaderUserName),
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
