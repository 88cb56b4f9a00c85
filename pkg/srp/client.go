package srp

import "math/big"

// clientState is the Client's position in its INIT -> AWAITING_B ->
// COMPLETE state machine. Transitions are one-way and each accessor
// checks the state it requires before touching any derived field.
type clientState int

const (
	clientInit clientState = iota
	clientAwaitingB
	clientComplete
)

// Client holds one SRP-6a client session. A Client is used once: build
// it, drive it through ComputeA -> SetB -> ComputeM1/ComputeK/CheckM2,
// then discard it. It carries no shared state with any other Client or
// Server, so any number of sessions may run concurrently.
//
// ShortEphemeral is set true when the caller-supplied ephemeral secret
// was narrower than DefaultEphemeralBytes. A short secret still
// completes the handshake; callers that care about the margin should
// check this field and regenerate with a wider GenKey call if it's set.
type Client struct {
	params *Params
	state  clientState

	x *big.Int
	a *big.Int
	A *big.Int

	u *big.Int
	s *big.Int

	sessionKey []byte
	m1         []byte
	m2         []byte

	ShortEphemeral bool
}

// NewClient builds a Client in the AWAITING_B state, precomputing x, a,
// and A. secret1 is the caller-supplied ephemeral private value a,
// typically produced by GenKey; it must not decode to zero.
func NewClient(params *Params, salt, identity, password, secret1 []byte) (*Client, error) {
	if params == nil {
		return nil, inputShapef("nil group parameters")
	}
	a := decodeInt(secret1)
	if a.Sign() == 0 {
		return nil, inputShapef("ephemeral secret a must not be zero")
	}

	c := &Client{
		params:         params,
		state:          clientInit,
		x:              params.computeX(salt, identity, password),
		a:              a,
		ShortEphemeral: len(secret1) < DefaultEphemeralBytes,
	}
	c.A = new(big.Int).Exp(params.G, c.a, params.N)
	c.state = clientAwaitingB
	return c, nil
}

// ComputeA returns PAD(A), the client's public ephemeral value, ready
// to send to the server. A is computed once, in NewClient.
func (c *Client) ComputeA() []byte {
	return c.params.padN(c.A)
}

// SetB ingests the server's public ephemeral value B, completing the
// handshake: it validates B, then derives u, S, K, M1, and M2.
// Transitions AWAITING_B -> COMPLETE. Calling it twice, or before
// NewClient, is a protocol-state error.
func (c *Client) SetB(bBuf []byte) error {
	if c.state != clientAwaitingB {
		return protocolStatef("SetB called outside AWAITING_B")
	}

	b := decodeInt(bBuf)
	if !c.params.isValidPublicValue(b) {
		return inputShapef("B is zero mod N or out of range")
	}

	c.u = c.params.computeU(c.A, b)
	c.s = c.params.computeClientS(b, c.x, c.a, c.u)
	c.sessionKey = c.params.computeSessionKey(c.s)
	c.m1 = c.params.computeM1(c.A, b, c.s)
	c.m2 = c.params.computeM2(c.A, c.m1, c.sessionKey)

	c.state = clientComplete
	return nil
}

// ComputeM1 returns the client's proof M1. Valid only once COMPLETE;
// calling it earlier is a protocol-state error, distinct from an
// authentication failure.
func (c *Client) ComputeM1() ([]byte, error) {
	if c.state != clientComplete {
		return nil, protocolStatef("ComputeM1 called before SetB")
	}
	return c.m1, nil
}

// ComputeK returns the derived session key K. Valid only once COMPLETE.
func (c *Client) ComputeK() ([]byte, error) {
	if c.state != clientComplete {
		return nil, protocolStatef("ComputeK called before SetB")
	}
	return c.sessionKey, nil
}

// CheckM2 verifies the server's proof M2 against the client's own
// computation, in constant time. This is the client's only channel for
// learning the server is inauthentic: if it returns ErrAuthentication,
// the server either doesn't hold a verifier matching this password, or
// the transcript was tampered with.
func (c *Client) CheckM2(serverM2 []byte) error {
	if c.state != clientComplete {
		return protocolStatef("CheckM2 called before SetB")
	}
	if !constantTimeEqual(serverM2, c.m2) {
		return authenticationf("server proof M2 does not match")
	}
	return nil
}
