package constants

// Error Code Categories
// Format: XYZABC where:
// X = Category (1-9)
// YZ = Subcategory (00-99)
// ABC = Specific error (000-999)

const (
	// SUCCESS CODES (0xxxx)
	CodeSuccess = 0

	// CLIENT ERROR CODES (4xxxx)
	// 400 Bad Request (40xxx)
	CodeBadRequest       = 40000 // Generic bad request
	CodeInvalidJSON      = 40001 // Invalid JSON payload
	CodeValidationFailed = 40002 // Validation failed
	CodeMissingParameter = 40003 // Required parameter missing
	CodeInvalidParameter = 40004 // Invalid parameter value
	CodeDegenerateRange  = 40005 // Time range end precedes start
	CodeInvalidCacheKey  = 40006 // Malformed segment cache key
	CodeInvalidBudget    = 40007 // Non-positive or excessive point budget

	// 401 Unauthorized (41xxx)
	CodeUnauthorized    = 41000 // Generic unauthorized
	CodeMissingAuth     = 41001 // Missing authentication
	CodeInvalidToken    = 41002 // Invalid JWT token
	CodeExpiredToken    = 41003 // Expired JWT token
	CodeInvalidClientID = 41004 // Invalid client ID
	CodeInactiveClient  = 41005 // Client is inactive

	// 403 Forbidden (43xxx)
	CodeForbidden         = 43000 // Generic forbidden
	CodeInsufficientPerms = 43001 // Insufficient permissions

	// 404 Not Found (44xxx)
	CodeNotFound            = 44000 // Generic not found
	CodeDatasetNotFound     = 44001 // Unknown dataset
	CodeWellNotFound        = 44002 // Unknown well
	CodeGranularityNotFound = 44003 // Unknown sampling rate or resolution mode
	CodeEndpointNotFound    = 44004 // Endpoint not found

	// 409 Conflict (49xxx)
	CodeConflict     = 49000 // Generic conflict
	CodeDuplicateJob = 49001 // Duplicate job

	// 422 Unprocessable Entity (42xxx)
	CodeUnprocessable      = 42000 // Generic unprocessable
	CodeOutOfBounds        = 42001 // Navigation shift leaves the available data range
	CodeNoData             = 42002 // Well has no readings in range
	CodeBusinessLogicError = 42003 // Business logic error

	// 429 Too Many Requests (42xxx)
	CodeRateLimit = 42900 // Rate limit exceeded

	// SERVER ERROR CODES (5xxxx)
	// 500 Internal Server Error (50xxx)
	CodeInternalError      = 50000 // Generic internal error
	CodeInfluxDBError      = 50001 // InfluxDB error
	CodeRedisError         = 50002 // Redis error
	CodeJobProcessingError = 50003 // Job processing error
	CodeConfigurationError = 50004 // Configuration error

	// 502 Bad Gateway (52xxx)
	CodeBadGateway    = 52000 // Generic bad gateway
	CodeUpstreamError = 52001 // Upstream service error

	// 503 Service Unavailable (53xxx)
	CodeServiceUnavailable  = 53000 // Generic service unavailable
	CodeDatabaseUnavailable = 53001 // Database unavailable
	CodeRedisUnavailable    = 53002 // Redis unavailable

	// 504 Gateway Timeout (54xxx)
	CodeGatewayTimeout  = 54000 // Generic gateway timeout
	CodeDatabaseTimeout = 54001 // Database timeout
)

// Error Code Messages - for consistent error messaging
var ErrorMessages = map[int]string{
	CodeSuccess: "Success",

	// Client Errors (4xxxx)
	CodeBadRequest:       "Bad request",
	CodeInvalidJSON:      "Invalid JSON payload",
	CodeValidationFailed: "Validation failed",
	CodeMissingParameter: "Required parameter missing",
	CodeInvalidParameter: "Invalid parameter value",
	CodeDegenerateRange:  "Time range start must not be after end",
	CodeInvalidCacheKey:  "Malformed segment cache key",
	CodeInvalidBudget:    "Point budget must be a positive integer",

	CodeUnauthorized:    "Unauthorized",
	CodeMissingAuth:     "Authentication required: provide a Bearer token",
	CodeInvalidToken:    "Invalid JWT token",
	CodeExpiredToken:    "Token has expired",
	CodeInvalidClientID: "Invalid client ID",
	CodeInactiveClient:  "Client is inactive",

	CodeForbidden:         "Forbidden",
	CodeInsufficientPerms: "Insufficient permissions",

	CodeNotFound:            "Not found",
	CodeDatasetNotFound:     "Dataset not found",
	CodeWellNotFound:        "Well not found",
	CodeGranularityNotFound: "Unknown sampling rate or resolution mode",
	CodeEndpointNotFound:    "Endpoint not found",

	CodeConflict:     "Conflict",
	CodeDuplicateJob: "Duplicate job - already in queue",

	CodeUnprocessable:      "Unprocessable entity",
	CodeOutOfBounds:        "Reached the edge of the available data",
	CodeNoData:             "No readings in the requested range",
	CodeBusinessLogicError: "Business logic error",

	CodeRateLimit: "Rate limit exceeded",

	// Server Errors (5xxxx)
	CodeInternalError:      "Internal server error",
	CodeInfluxDBError:      "InfluxDB error",
	CodeRedisError:         "Redis error",
	CodeJobProcessingError: "Job processing error",
	CodeConfigurationError: "Configuration error",

	CodeBadGateway:    "Bad gateway",
	CodeUpstreamError: "Upstream service error",

	CodeServiceUnavailable:  "Service unavailable",
	CodeDatabaseUnavailable: "Database unavailable",
	CodeRedisUnavailable:    "Redis unavailable",

	CodeGatewayTimeout:  "Gateway timeout",
	CodeDatabaseTimeout: "Database timeout",
}

// GetErrorMessage returns the standard message for an error code
func GetErrorMessage(code int) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "Unknown error"
}

// GetHTTPStatusFromCode returns the appropriate HTTP status code based on error code
func GetHTTPStatusFromCode(code int) int {
	switch {
	case code == 0:
		return 200
	case code >= 40000 && code < 41000:
		return 400
	case code >= 41000 && code < 42000:
		return 401
	case code >= 42900 && code < 43000:
		return 429
	case code >= 42000 && code < 42900:
		return 422
	case code >= 43000 && code < 44000:
		return 403
	case code >= 44000 && code < 45000:
		return 404
	case code >= 49000 && code < 50000:
		return 409
	case code >= 50000 && code < 51000:
		return 500
	case code >= 52000 && code < 53000:
		return 502
	case code >= 53000 && code < 54000:
		return 503
	case code >= 54000 && code < 55000:
		return 504
	default:
		return 500 // Default to internal server error
	}
}
