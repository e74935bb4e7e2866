package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"

	// requestIDContextKey is the echo context key for the request ID
	requestIDContextKey = "request_id"
)

// RequestID assigns a unique ID to each request. An inbound X-Request-ID
// header is honored so IDs survive proxies; otherwise a fresh UUID is used.
// The ID is echoed back in the response headers.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Response().Header().Set(RequestIDHeader, requestID)
		c.Set(requestIDContextKey, requestID)

		return next(c)
	}
}

// GetRequestID retrieves the request ID from the echo context.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}
