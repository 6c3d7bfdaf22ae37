package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/pcfpulse/internal/domain/dto"
	"github.com/guttosm/pcfpulse/internal/logger"
)

// ErrorHandler logs errors attached with c.Error, at error level for 5xx and
// warn otherwise, and turns them into a JSON ErrorResponse when the handler
// did not write a body itself.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	last := c.Errors.Last()
	status := c.Writer.Status()
	if !c.Writer.Written() && status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	rid, _ := c.Get(RequestIDKey)
	ev := logger.L().Warn()
	if status >= http.StatusInternalServerError {
		ev = logger.L().Error()
	}
	ev.Str("request_id", toString(rid)).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Err(last.Err).
		Msg("request failed")

	if c.Writer.Written() {
		return
	}
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError aborts the chain and writes an ErrorResponse with status.
// A non-nil err is attached to the context for ErrorHandler to log.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
