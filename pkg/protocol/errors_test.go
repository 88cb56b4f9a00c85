//nolint:gofumpt // Test file - formatting is acceptable
package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/go-srp/srp6a/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *protocol.ErrorResponse
		expected string
	}{
		{
			name: "without details",
			err: &protocol.ErrorResponse{
				Code:    protocol.ErrCodeUnauthorized,
				Message: "Authentication required",
			},
			expected: "UNAUTHORIZED: Authentication required",
		},
		{
			name: "with details",
			err: &protocol.ErrorResponse{
				Code:    protocol.ErrCodeHandshakeNotFound,
				Message: "SRP handshake session not found or expired",
				Details: "abc123",
			},
			expected: "HANDSHAKE_NOT_FOUND: SRP handshake session not found or expired (abc123)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	tests := []struct {
		name     string
		err      *protocol.ErrorResponse
		expected string
	}{
		{
			name: "without details",
			err: &protocol.ErrorResponse{
				Code:    protocol.ErrCodeSessionExpired,
				Message: "Session token has expired",
			},
			expected: `{"code":"SESSION_EXPIRED","message":"Session token has expired"}`,
		},
		{
			name: "with details",
			err: &protocol.ErrorResponse{
				Code:    protocol.ErrCodeRateLimitExceeded,
				Message: "Rate limit exceeded",
				Details: "Retry after 60 seconds",
			},
			expected: `{"code":"RATE_LIMIT_EXCEEDED","message":"Rate limit exceeded","details":"Retry after 60 seconds"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))

			var decoded protocol.ErrorResponse
			err = json.Unmarshal(data, &decoded)
			require.NoError(t, err)
			assert.Equal(t, tt.err.Code, decoded.Code)
			assert.Equal(t, tt.err.Message, decoded.Message)
			assert.Equal(t, tt.err.Details, decoded.Details)
		})
	}
}

func TestNewError(t *testing.T) {
	err := protocol.NewError(protocol.ErrCodeUnauthorized, "Authentication required")
	assert.Equal(t, protocol.ErrCodeUnauthorized, err.Code)
	assert.Equal(t, "Authentication required", err.Message)
	assert.Empty(t, err.Details)
}

func TestNewErrorWithDetails(t *testing.T) {
	err := protocol.NewErrorWithDetails(
		protocol.ErrCodeProtocolState,
		"SRP operation attempted out of sequence",
		"verify called before init",
	)
	assert.Equal(t, protocol.ErrCodeProtocolState, err.Code)
	assert.Equal(t, "SRP operation attempted out of sequence", err.Message)
	assert.Equal(t, "verify called before init", err.Details)
}

func TestAuthenticationErrors(t *testing.T) {
	tests := []struct {
		name       string
		fn         func() *protocol.ErrorResponse
		code       protocol.ErrorCode
		message    string
		hasDetails bool
	}{
		{
			name: "NewAuthenticationFailedError",
			fn: func() *protocol.ErrorResponse {
				return protocol.NewAuthenticationFailedError("SRP verification failed")
			},
			code:       protocol.ErrCodeAuthenticationFailed,
			message:    "Authentication failed",
			hasDetails: true,
		},
		{
			name:       "NewInvalidCredentialsError",
			fn:         protocol.NewInvalidCredentialsError,
			code:       protocol.ErrCodeInvalidCredentials,
			message:    "Invalid identity or password",
			hasDetails: false,
		},
		{
			name:       "NewSessionExpiredError",
			fn:         protocol.NewSessionExpiredError,
			code:       protocol.ErrCodeSessionExpired,
			message:    "Session token has expired",
			hasDetails: false,
		},
		{
			name:       "NewSessionInvalidError",
			fn:         protocol.NewSessionInvalidError,
			code:       protocol.ErrCodeSessionInvalid,
			message:    "Session token is invalid",
			hasDetails: false,
		},
		{
			name:       "NewUnauthorizedError",
			fn:         protocol.NewUnauthorizedError,
			code:       protocol.ErrCodeUnauthorized,
			message:    "Authentication required",
			hasDetails: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			if tt.hasDetails {
				assert.NotEmpty(t, err.Details)
			}
		})
	}
}

func TestNewRateLimitExceededError(t *testing.T) {
	err := protocol.NewRateLimitExceededError(60)
	assert.Equal(t, protocol.ErrCodeRateLimitExceeded, err.Code)
	assert.Equal(t, "Rate limit exceeded", err.Message)
	assert.Contains(t, err.Details, "60 seconds")
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() *protocol.ErrorResponse
		code    protocol.ErrorCode
		message string
	}{
		{
			name:    "NewInvalidRequestError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewInvalidRequestError("missing field: identity") },
			code:    protocol.ErrCodeInvalidRequest,
			message: "Invalid request",
		},
		{
			name:    "NewHandshakeNotFoundError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewHandshakeNotFoundError("abc123") },
			code:    protocol.ErrCodeHandshakeNotFound,
			message: "SRP handshake session not found or expired",
		},
		{
			name:    "NewProtocolStateError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewProtocolStateError("verify before init") },
			code:    protocol.ErrCodeProtocolState,
			message: "SRP operation attempted out of sequence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotEmpty(t, err.Details)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() *protocol.ErrorResponse
		code    protocol.ErrorCode
		message string
	}{
		{
			name:    "NewSystemError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewSystemError("unexpected error") },
			code:    protocol.ErrCodeSystemError,
			message: "System error",
		},
		{
			name:    "NewTLSError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewTLSError("certificate invalid") },
			code:    protocol.ErrCodeTLSError,
			message: "TLS error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotEmpty(t, err.Details)
		})
	}
}

func TestLifecycleErrors(t *testing.T) {
	err := protocol.NewShuttingDownError()
	assert.Equal(t, protocol.ErrCodeShuttingDown, err.Code)
	assert.Equal(t, "Service is shutting down", err.Message)
	assert.Empty(t, err.Details)
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() *protocol.ErrorResponse
		code    protocol.ErrorCode
		message string
	}{
		{
			name:    "NewConfigurationError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewConfigurationError("invalid YAML") },
			code:    protocol.ErrCodeConfigurationError,
			message: "Configuration error",
		},
		{
			name:    "NewVerifierNotFoundError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewVerifierNotFoundError("/etc/srp6a/verifiers.yaml") },
			code:    protocol.ErrCodeVerifierNotFound,
			message: "SRP verifier file not found",
		},
		{
			name:    "NewInvalidConfigurationError",
			fn:      func() *protocol.ErrorResponse { return protocol.NewInvalidConfigurationError("missing field: port") },
			code:    protocol.ErrCodeInvalidConfiguration,
			message: "Invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotEmpty(t, err.Details)
		})
	}
}
