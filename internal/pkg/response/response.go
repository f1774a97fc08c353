package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"styledeco/internal/domain"
)

// RetryAfterSeconds is sent with 503 responses caused by the payment processor.
const RetryAfterSeconds = "5"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

type mapping struct {
	target error
	status int
	code   string
}

var mappings = []mapping{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{domain.ErrPaymentIncomplete, http.StatusPaymentRequired, "PAYMENT_INCOMPLETE"},
	{domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// FromError writes the error envelope for err. Unknown errors are attached to
// the gin context so the request logger records them, and the client only
// sees a generic message.
func FromError(c *gin.Context, err error) {
	status, code := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		Error(c, status, code, "internal server error")
		return
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", RetryAfterSeconds)
	}
	Error(c, status, code, message(err))
}

func AbortWithError(c *gin.Context, err error) {
	FromError(c, err)
	c.Abort()
}

// message capitalizes the wrapped detail for display.
func message(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
