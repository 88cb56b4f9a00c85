package srp

import (
	"errors"
	"fmt"
)

// Error taxonomy (design §7): three fatal kinds plus a distinct
// authentication-failure kind. Callers should use errors.Is against
// these sentinels rather than matching message text.
var (
	// ErrInputShape marks a malformed or out-of-range input: wrong
	// buffer length, or a decoded integer outside [1, N-1] for A or B.
	ErrInputShape = errors.New("srp: invalid input")

	// ErrProtocolState marks a call made before the state machine
	// reached the state that call requires. This is a usage bug, never
	// a cryptographic failure.
	ErrProtocolState = errors.New("srp: invalid protocol state")

	// ErrAuthentication marks a checkM1/checkM2 mismatch: the password
	// used by one party does not match the verifier held by the other,
	// or the transcript was tampered with.
	ErrAuthentication = errors.New("srp: authentication failed")
)

func inputShapef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInputShape}, args...)...)
}

func protocolStatef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrProtocolState}, args...)...)
}

func authenticationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrAuthentication}, args...)...)
}
