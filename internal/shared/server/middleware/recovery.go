package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/shared/server/respond"
	"resume-parser/internal/shared/telemetry"
)

// PanicErrorKind labels requests that ended in a recovered panic.
const PanicErrorKind = "internal"

// Recovery turns a panic into a 500 envelope. The error kind already set by a
// handler, if any, is logged alongside so a panic during a parse can be tied
// to the stage that was running.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
			}
			if kind := c.GetString(ErrorKindKey); kind != "" {
				fields["prior_error_kind"] = kind
			}
			telemetry.Error("request.panic", fields)
			c.Set(ErrorKindKey, PanicErrorKind)
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
