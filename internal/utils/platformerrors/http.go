package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse represents the standard error response format.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes err as an HTTP response. PlatformErrors keep their status
// mapping; anything else is reported as an internal error without its text.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	platformErr := GetPlatformError(err)
	if platformErr == nil {
		if err != nil {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("unclassified error")
		}
		WriteInternalError(c, "internal server error")
		return
	}

	LogError(log, platformErr)

	requestID := platformErr.RequestID
	if requestID == "" {
		requestID = c.GetString("request_id")
	}
	c.AbortWithStatusJSON(ErrorTypeToHTTPStatus(platformErr.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   platformErr.Message,
			Type:      errorTypeToString(platformErr.Type),
			Code:      platformErr.UUID,
			RequestID: requestID,
		},
	})
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, ErrorTypeValidation, message)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(c *gin.Context, message string) {
	write(c, http.StatusUnauthorized, ErrorTypeUnauthorized, message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(c *gin.Context, message string) {
	write(c, http.StatusInternalServerError, ErrorTypeInternal, message)
}

func write(c *gin.Context, status int, errorType ErrorType, message string) {
	c.AbortWithStatusJSON(status, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   message,
			Type:      errorTypeToString(errorType),
			RequestID: c.GetString("request_id"),
		},
	})
}

// errorTypeToString converts an ErrorType to a snake_case string for API responses.
func errorTypeToString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeInvalidState:
		return "invalid_state_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeExternal:
		return "external_error"
	case ErrorTypeDatabaseError:
		return "database_error"
	default:
		return "internal_error"
	}
}
