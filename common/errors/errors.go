package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is an application error that knows its HTTP status.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message, nil) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message, nil) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message, nil) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message, nil) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message, nil) }

// Internal wraps an infrastructure failure behind a client-safe message.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Unavailable marks a feature whose backing integration is not configured.
func Unavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, message, nil)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf reports the HTTP status an error maps to.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

var (
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, "Method not allowed", nil)
	ErrRouteNotFound    = New(http.StatusNotFound, "Route not found", nil)
)

// ErrorMiddleware renders the last error recorded with c.Error as the JSON failure envelope.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := As(err)
		if !ok {
			appErr = New(http.StatusInternalServerError, "Internal server error", err)
		}
		if appErr.Code >= http.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString("request_id")),
				zap.Error(err),
			)
		}

		c.AbortWithStatusJSON(appErr.Code, gin.H{"success": false, "message": appErr.Message})
	}
}

// Abort records err on the context and stops the handler chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
