package handlers

//go:generate go tool mockgen -destination=mock_interfaces.go -package=handlers github.com/go-srp/srp6a/internal/api/handlers SessionIssuer,FailureLimiter,HandshakeStore

import (
	"time"

	"github.com/go-srp/srp6a/pkg/srp"
)

// SessionIssuer mints and tracks post-authentication bearer tokens.
// This interface is defined at the consumer for testing purposes.
type SessionIssuer interface {
	CreateSession(identity string) (string, error)
}

// FailureLimiter bounds failed authentication attempts per client.
// This interface is defined at the consumer for testing purposes.
type FailureLimiter interface {
	CheckLimit(clientIP string) (locked bool, retryAfter time.Duration, err error)
	RecordFailure(clientIP string) time.Duration
	RecordSuccess(clientIP string)
}

// HandshakeStore parks an in-progress SRP server session between the
// Init and Verify requests, keyed by an opaque session ID.
// This interface is defined at the consumer for testing purposes.
type HandshakeStore interface {
	Store(server *srp.Server) (string, error)
	Retrieve(sessionID string) *srp.Server
}
