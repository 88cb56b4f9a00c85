package srp

import "math/big"

// serverState is the Server's position in its INIT -> AWAITING_A ->
// COMPLETE state machine. Transitions are one-way and each accessor
// checks the state it requires before touching any derived field.
type serverState int

const (
	serverInit serverState = iota
	serverAwaitingA
	serverComplete
)

// Server holds one SRP-6a server session, built from a stored verifier
// rather than a password. A Server is used once: build it, drive it
// through ComputeB -> SetA -> CheckM1 -> ComputeK, then discard it. It
// holds no shared state with any other Server or Client, so any number
// of sessions may run concurrently against the same verifier.
type Server struct {
	params *Params
	state  serverState

	v *big.Int
	b *big.Int
	B *big.Int

	A          *big.Int
	u          *big.Int
	s          *big.Int
	sessionKey []byte
	m1         []byte
}

// NewServer builds a Server in the AWAITING_A state from a stored
// verifier v, precomputing b and B. secret2 is the caller-supplied
// ephemeral private value b, typically produced by GenKey; it must not
// decode to zero.
func NewServer(params *Params, verifier, secret2 []byte) (*Server, error) {
	if params == nil {
		return nil, inputShapef("nil group parameters")
	}
	b := decodeInt(secret2)
	if b.Sign() == 0 {
		return nil, inputShapef("ephemeral secret b must not be zero")
	}
	v := decodeInt(verifier)
	if v.Sign() <= 0 || v.Cmp(params.N) >= 0 {
		return nil, inputShapef("verifier out of range")
	}

	s := &Server{
		params: params,
		state:  serverInit,
		v:      v,
		b:      b,
	}
	s.B = params.computeServerB(v, b)
	s.state = serverAwaitingA
	return s, nil
}

// ComputeB returns PAD(B), the server's public ephemeral value, ready
// to send to the client. B is computed once, in NewServer.
func (s *Server) ComputeB() []byte {
	return s.params.padN(s.B)
}

// SetA ingests the client's public ephemeral value A: it validates A,
// then derives u and S. Transitions AWAITING_A -> COMPLETE once CheckM1
// succeeds; SetA itself only records A and derives the shared secret,
// since M1 cannot be checked until the client sends it.
func (s *Server) SetA(aBuf []byte) error {
	if s.state != serverAwaitingA {
		return protocolStatef("SetA called outside AWAITING_A")
	}

	a := decodeInt(aBuf)
	if !s.params.isValidPublicValue(a) {
		return inputShapef("A is zero mod N or out of range")
	}
	s.A = a

	s.u = s.params.computeU(a, s.B)
	s.s = s.params.computeServerS(a, s.v, s.u, s.b)
	s.sessionKey = s.params.computeSessionKey(s.s)
	return nil
}

// CheckM1 verifies the client's proof M1 against the server's own
// computation, in constant time, and on success returns M2 for the
// server to send back. A mismatch returns ErrAuthentication without
// completing the session: the client either used the wrong password,
// or the transcript was tampered with. Must be called after SetA.
func (s *Server) CheckM1(clientM1 []byte) ([]byte, error) {
	if s.A == nil {
		return nil, protocolStatef("CheckM1 called before SetA")
	}
	if s.state != serverAwaitingA {
		return nil, protocolStatef("CheckM1 called outside AWAITING_A")
	}

	expected := s.params.computeM1(s.A, s.B, s.s)
	if !constantTimeEqual(clientM1, expected) {
		return nil, authenticationf("client proof M1 does not match")
	}
	s.m1 = expected

	m2 := s.params.computeM2(s.A, s.m1, s.sessionKey)
	s.state = serverComplete
	return m2, nil
}

// ComputeK returns the derived session key K. Valid only once COMPLETE,
// i.e. after a successful CheckM1.
func (s *Server) ComputeK() ([]byte, error) {
	if s.state != serverComplete {
		return nil, protocolStatef("ComputeK called before a successful CheckM1")
	}
	return s.sessionKey, nil
}
