package restapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pool_monitor/internal/domain/entity"
)

// ErrorCode is the machine-readable error in API responses.
type ErrorCode string

const (
	ErrorCodeUnsupported ErrorCode = "UNSUPPORTED_POOL_OR_COIN"
	ErrorCodeNoData      ErrorCode = "NO_DATA"
	ErrorCodeFetchFailed ErrorCode = "POOL_FETCH_FAILED"
	ErrorCodePoolTimeout ErrorCode = "POOL_TIMEOUT"
	ErrorCodeParseFailed ErrorCode = "POOL_PARSE_FAILED"
	ErrorCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrorCodeInvalid     ErrorCode = "INVALID_REQUEST"
	ErrorCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// HTTPStatusCode returns the status each error code is served with.
func (e ErrorCode) HTTPStatusCode() int {
	switch e {
	case ErrorCodeUnsupported, ErrorCodeInvalid:
		return http.StatusBadRequest
	case ErrorCodeNoData, ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeFetchFailed, ErrorCodePoolTimeout, ErrorCodeParseFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// codeForError maps a fetch pipeline error onto an API error code.
func codeForError(err error) ErrorCode {
	switch entity.ClassifyError(err) {
	case entity.ErrorKindUnsupported:
		return ErrorCodeUnsupported
	case entity.ErrorKindNoData:
		return ErrorCodeNoData
	case entity.ErrorKindFetch:
		var fe *entity.FetchError
		if errors.As(err, &fe) && fe.Timeout {
			return ErrorCodePoolTimeout
		}
		return ErrorCodeFetchFailed
	case entity.ErrorKindParse:
		return ErrorCodeParseFailed
	default:
		return ErrorCodeInternal
	}
}

func abortWithError(c *gin.Context, code ErrorCode, message, details string) {
	writeJSON(c, code.HTTPStatusCode(), ErrorResponse{
		Error:     ErrorDetail{Code: code, Message: message, Details: details},
		RequestID: c.GetString(requestIDKey),
		Timestamp: time.Now().UTC(),
	})
	c.Abort()
}
