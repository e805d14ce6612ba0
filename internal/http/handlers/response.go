// Package handlers implements the mention tracker's HTTP API on Gin.
//
// Errors use one envelope everywhere:
//
//	HTTP/1.1 404 Not Found
//	{"request_id": "...", "code": "not_found", "message": "Mention not found"}
//
// Commands (start, stop, delete, clear) answer with APIResponse.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/brand-mentions/internal/http/middleware"
	"github.com/tbourn/brand-mentions/internal/services"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Echo of X-Request-ID for log correlation
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable code from errors.go
	Code string `json:"code" example:"not_found"`
	// Safe to show to users
	Message string `json:"message" example:"Mention not found"`
}

// APIResponse is the envelope for command endpoints.
type APIResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Started monitoring for Tesla"`
	Error   string `json:"error,omitempty"`
}

// fail aborts with the error envelope. 5xx responses are logged on the
// request logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   msg,
	})
}

// Fail is fail for callers outside the package, such as the router's
// NoRoute handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// serviceErrors maps service sentinels to client-facing statuses.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrInvalidBrand, http.StatusBadRequest, ErrCodeInvalidBrand},
	{services.ErrInvalidPlatform, http.StatusBadRequest, ErrCodeInvalidPlatform},
	{services.ErrInvalidQuery, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidTimeframe, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidLimit, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidCount, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrMentionNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrConfigNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrMonitoringClosed, http.StatusServiceUnavailable, ErrCodeUnavailable},
}

// failErr writes err through the sentinel table. Anything unmapped becomes a
// 500 with code; the cause is logged and the client sees a generic message.
func failErr(c *gin.Context, err error, code string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, notFoundMessage(m.err, err))
			return
		}
	}
	_ = c.Error(err)
	middleware.LoggerFrom(c).Error().Err(err).Str("code", code).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   "internal error",
	})
}

// notFoundMessage keeps the wording dashboards already match on.
func notFoundMessage(sentinel, err error) string {
	switch sentinel {
	case services.ErrMentionNotFound:
		return "Mention not found"
	case services.ErrConfigNotFound:
		return "config not found"
	}
	return err.Error()
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
