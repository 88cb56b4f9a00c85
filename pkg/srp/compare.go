package srp

import "crypto/subtle"

// constantTimeEqual reports whether a and b hold identical bytes,
// comparing in time that depends only on their lengths, never on the
// position of the first differing byte. Used for M1/M2 verification;
// the underlying modular exponentiations earlier in the protocol are
// not constant-time, but this blocks the cheapest timing oracle.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
