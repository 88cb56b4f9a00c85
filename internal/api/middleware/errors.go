package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-srp/srp6a/internal/logging"
	"github.com/go-srp/srp6a/pkg/protocol"
)

// ErrorHandler returns middleware that recovers from panics and handles errors.
func ErrorHandler(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", map[string]any{
						"error": err,
						"path":  r.URL.Path,
					})

					WriteJSONError(w, protocol.NewSystemError("internal server error"), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, there's not much we can do
		// The status code has already been written
		return
	}
}

// WriteJSONError writes a JSON error response.
func WriteJSONError(w http.ResponseWriter, err *protocol.ErrorResponse, statusCode int) {
	WriteJSON(w, err, statusCode)
}

// HTTPStatusForErrorCode maps protocol error codes to HTTP status codes.
func HTTPStatusForErrorCode(code protocol.ErrorCode) int {
	switch code {
	// 400 Bad Request
	case protocol.ErrCodeInvalidRequest,
		protocol.ErrCodeProtocolState,
		protocol.ErrCodeInvalidConfiguration:
		return http.StatusBadRequest

	// 401 Unauthorized
	case protocol.ErrCodeUnauthorized,
		protocol.ErrCodeAuthenticationFailed,
		protocol.ErrCodeInvalidCredentials,
		protocol.ErrCodeSessionExpired,
		protocol.ErrCodeSessionInvalid:
		return http.StatusUnauthorized

	// 404 Not Found
	case protocol.ErrCodeVerifierNotFound,
		protocol.ErrCodeHandshakeNotFound:
		return http.StatusNotFound

	// 429 Too Many Requests
	case protocol.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	// 500 Internal Server Error
	case protocol.ErrCodeSystemError,
		protocol.ErrCodeTLSError,
		protocol.ErrCodeConfigurationError:
		return http.StatusInternalServerError

	// 503 Service Unavailable
	case protocol.ErrCodeShuttingDown:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
