package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified API response format.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError represents a structured application error with an error code.
type AppError struct {
	Code    int    // Application-level error code
	Message string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

// Application error codes. Domain errors are rendered with HTTP 200 and a
// non-zero code in the envelope; only authentication failures short-circuit
// to HTTP 401.
const (
	CodeOK               = 0
	CodeValidation       = 400
	CodeAuthentication   = 401
	CodePermissionDenied = 403
	CodeNotFound         = 404
	CodeConflict         = 409
	CodeInternal         = 500
)

// Pre-defined error constructors

func NewValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg}
}

func NewAuthentication(msg string) *AppError {
	return &AppError{Code: CodeAuthentication, Message: msg}
}

func NewPermissionDenied(msg string) *AppError {
	return &AppError{Code: CodePermissionDenied, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg}
}

func NewInternal(msg string) *AppError {
	return &AppError{Code: CodeInternal, Message: msg}
}

// IsCode reports whether err is an *AppError carrying the given code.
func IsCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

// Error sends an error response. Domain errors keep HTTP 200 with their
// application code in the envelope; authentication errors return 401; any
// other error is rendered generically without leaking internals.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := http.StatusOK
		if appErr.Code == CodeAuthentication {
			status = http.StatusUnauthorized
		}
		c.JSON(status, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusOK, Response{
		Code:    CodeInternal,
		Message: "internal server error",
	})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Code: CodeValidation, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: CodeAuthentication, Message: msg})
}
