package srp

// ComputeVerifier computes the SRP-6a password verifier:
//
//	x = H(salt || H(I || ":" || P))
//	v = g^x mod N
//
// salt, identity (I), and password (P) are opaque byte strings; the
// engine applies no normalization. The result is deterministic: calling
// ComputeVerifier twice with identical inputs yields byte-identical
// output. The returned buffer is exactly |N| bytes, big-endian,
// zero-padded.
func ComputeVerifier(params *Params, salt, identity, password []byte) ([]byte, error) {
	if params == nil {
		return nil, inputShapef("nil group parameters")
	}
	x := params.computeX(salt, identity, password)
	v := params.computeV(x)
	return params.padN(v), nil
}
