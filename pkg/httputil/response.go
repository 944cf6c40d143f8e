package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Error   string      `json:"error,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithList sends a success response carrying the number of items.
// data must be a non-nil slice so an empty result encodes as [].
func RespondWithList(c *gin.Context, message string, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Count:   &count,
	})
}

// RespondWithValidation sends a 400 with one message per violated rule.
func RespondWithValidation(c *gin.Context, details []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Errors:  details,
	})
}

// RespondWithError maps err onto the envelope. failure is the message used for
// anything that is neither a validation nor a not-found error.
func RespondWithError(c *gin.Context, err error, failure string) {
	appErr, ok := errors.As(err)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: failure,
			Error:   err.Error(),
		})
		return
	}

	switch appErr.Code {
	case errors.ErrValidation:
		RespondWithValidation(c, appErr.Details)
	case errors.ErrNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, Response{
			Success: false,
			Message: appErr.Message,
		})
	default:
		c.AbortWithStatusJSON(appErr.StatusCode(), Response{
			Success: false,
			Message: failure,
			Error:   appErr.Cause(),
		})
	}
}
