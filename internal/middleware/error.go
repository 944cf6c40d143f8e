package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/httputil"
)

type stackTracer interface {
	Stack() string
}

// ErrorHandler logs every error attached to the context and, when the handler
// has not written a response, renders the last one. Stacks are only exposed
// outside production.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Interface("meta", e.Meta).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		status := http.StatusInternalServerError
		if err, ok := lastErr.(interface{ StatusCode() int }); ok {
			status = err.StatusCode()
		}

		resp := httputil.Response{
			Success: false,
			Message: lastErr.Error(),
		}
		if appErr, ok := apperrors.As(lastErr); ok {
			resp.Message = appErr.Message
			resp.Errors = appErr.Details
		}
		if resp.Message == "" {
			resp.Message = "Internal Server Error"
		}
		if st, ok := lastErr.(stackTracer); ok && !production {
			resp.Stack = st.Stack()
		}

		c.AbortWithStatusJSON(status, resp)
	}
}
