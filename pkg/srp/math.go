package srp

import "math/big"

// computeX derives the private key x = H(salt || H(I || ":" || P)).
func (p *Params) computeX(salt, identity, password []byte) *big.Int {
	inner := p.hashConcat(identity, []byte(":"), password)
	return p.hashInt(salt, inner)
}

// computeV derives the verifier v = g^x mod N.
func (p *Params) computeV(x *big.Int) *big.Int {
	return new(big.Int).Exp(p.G, x, p.N)
}

// computeU derives the scrambling parameter u = H(PAD(A) || PAD(B)).
func (p *Params) computeU(a, b *big.Int) *big.Int {
	return p.hashInt(p.padN(a), p.padN(b))
}

// computeServerB derives B = (k*v + g^b) mod N.
func (p *Params) computeServerB(v, b *big.Int) *big.Int {
	kv := new(big.Int).Mul(p.k, v)
	kv.Mod(kv, p.N)

	gb := new(big.Int).Exp(p.G, b, p.N)

	sum := new(big.Int).Add(kv, gb)
	return sum.Mod(sum, p.N)
}

// computeClientS derives the client's view of the shared secret:
// S = (B - k*g^x)^(a + u*x) mod N. The Go big.Int.Mod always returns a
// result in [0, N), so the intermediate subtraction is automatically
// canonicalized into range before exponentiation, as the design
// requires.
func (p *Params) computeClientS(b, x, a, u *big.Int) *big.Int {
	gx := new(big.Int).Exp(p.G, x, p.N)
	kgx := new(big.Int).Mul(p.k, gx)
	kgx.Mod(kgx, p.N)

	base := new(big.Int).Sub(b, kgx)
	base.Mod(base, p.N)

	ux := new(big.Int).Mul(u, x)
	exponent := new(big.Int).Add(a, ux)

	return new(big.Int).Exp(base, exponent, p.N)
}

// computeServerS derives the server's view of the shared secret:
// S = (A * v^u)^b mod N.
func (p *Params) computeServerS(a, v, u, b *big.Int) *big.Int {
	vu := new(big.Int).Exp(v, u, p.N)

	avu := new(big.Int).Mul(a, vu)
	avu.Mod(avu, p.N)

	return new(big.Int).Exp(avu, b, p.N)
}

// computeSessionKey derives K = H(PAD(S)).
func (p *Params) computeSessionKey(s *big.Int) []byte {
	return p.hashConcat(p.padN(s))
}

// computeM1 derives the client proof M1 = H(PAD(A) || PAD(B) || PAD(S)).
func (p *Params) computeM1(a, b, s *big.Int) []byte {
	return p.hashConcat(p.padN(a), p.padN(b), p.padN(s))
}

// computeM2 derives the server proof M2 = H(PAD(A) || M1 || K).
func (p *Params) computeM2(a *big.Int, m1, k []byte) []byte {
	return p.hashConcat(p.padN(a), m1, k)
}

// isValidPublicValue reports whether a decoded public value (A or B) is
// in the acceptable range 1 <= v <= N-1. A value of 0 is the classic SRP
// rogue-key attack; a value >= N means the peer sent something that was
// never reduced.
func (p *Params) isValidPublicValue(v *big.Int) bool {
	return v.Sign() > 0 && v.Cmp(p.N) < 0
}
