package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// panicError carries a recovered panic and the stack it was raised on.
type panicError struct {
	value interface{}
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%v", e.value)
}

func (e *panicError) Stack() string {
	return e.stack
}

// Recovery turns a panic into a context error for ErrorHandler to render.
// It must be registered after ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				log.Error().
					Interface("error", err).
					Str("stack", stack).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("Request panic recovered")

				_ = c.Error(&panicError{value: err, stack: stack})
				c.Abort()
			}
		}()
		c.Next()
	}
}
