// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"costbook/internal/core/apperror"
	appctx "costbook/internal/core/context"
	"costbook/pkg/logger"
)

// Recovery turns a panic in a posting or costing handler into a 500. The
// surrounding database transaction has already rolled back by the time the
// panic reaches here, so the client only needs the request id to report it.
// The stack goes to the log, never to the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()
			logger.Error(ctx, "handler panicked",
				"panic", rec,
				"route", c.FullPath(),
				"stack", string(debug.Stack()))

			// The panic unwound past ErrorHandler, so the response is written here.
			_ = c.Error(fmt.Errorf("panic in %s: %v", c.FullPath(), rec))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
				"details": map[string]any{"request_id": appctx.GetRequestID(ctx)},
			})
		}()
		c.Next()
	}
}
