package constants

import "github.com/labstack/echo/v4"

const (
	// Internal usage
	RequestIDKey = "x-req-id"

	// Header keys (in order of preference)
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// GetRequestIDFromHeaders extracts the caller-supplied requestID, preferring
// X-Request-ID over X-Correlation-ID.
func GetRequestIDFromHeaders(c echo.Context) string {
	if rid := c.Request().Header.Get(HeaderRequestID); rid != "" {
		return rid
	}
	if cid := c.Request().Header.Get(HeaderCorrelationID); cid != "" {
		return cid
	}
	return ""
}

// GetRequestID extracts request ID from Echo context
func GetRequestID(c echo.Context) string {
	rid, ok := c.Get(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return rid
}
