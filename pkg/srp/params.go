// Package srp implements SRP-6a (Secure Remote Password), a
// password-authenticated key exchange defined by RFC 5054. It provides
// the number-theoretic core, the verifier/ephemeral-key helpers, and the
// Client/Server state machines; transport of the protocol messages is
// left entirely to the caller.
package srp

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"math/big"
	"strconv"
)

// HashAlgo identifies the hash function a group is bound to.
type HashAlgo int

// Supported hash algorithms. The group determines which one applies;
// callers never choose independently of the group.
const (
	HashSHA256 HashAlgo = iota
	HashSHA512
)

// newHasher returns a fresh, empty hash.Hash for the algorithm.
func (a HashAlgo) newHasher() hash.Hash {
	switch a {
	case HashSHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}

// size returns |H|, the digest length in bytes.
func (a HashAlgo) size() int {
	switch a {
	case HashSHA512:
		return sha512.Size
	default:
		return sha256.Size
	}
}

// String returns the algorithm's canonical name, suitable for
// persisting alongside a verifier record.
func (a HashAlgo) String() string {
	switch a {
	case HashSHA512:
		return "sha512"
	default:
		return "sha256"
	}
}

// ParseHashAlgo parses the canonical name back into a HashAlgo. It
// exists so callers that persist a group's hash choice (e.g. in a
// verifier record) can validate it still matches the group on load.
func ParseHashAlgo(name string) (HashAlgo, error) {
	switch name {
	case "sha256":
		return HashSHA256, nil
	case "sha512":
		return HashSHA512, nil
	default:
		return 0, inputShapef("unknown hash algorithm %q", name)
	}
}

// Params is an immutable SRP-6a group descriptor: the safe prime N, the
// generator g, the bit length of N, and the hash algorithm bound to the
// group. Obtain one via Group; do not construct directly.
type Params struct {
	N           *big.Int
	G           *big.Int
	NLengthBits int
	Hash        HashAlgo

	k *big.Int // multiplier, k = H(PAD(N) || PAD(g)); computed once at registry init
}

// nWidth returns |N|, the byte width used to pad N-sized integers.
func (p *Params) nWidth() int {
	return p.NLengthBits / 8
}

// hWidth returns |H|, the byte width of the group's hash output.
func (p *Params) hWidth() int {
	return p.Hash.size()
}

// hashConcat returns H(parts[0] || parts[1] || ...) using the group's hash.
func (p *Params) hashConcat(parts ...[]byte) []byte {
	h := p.Hash.newHasher()
	for _, part := range parts {
		h.Write(part)
	}
	return h.Sum(nil)
}

// hashInt returns int(H(parts...)).
func (p *Params) hashInt(parts ...[]byte) *big.Int {
	return new(big.Int).SetBytes(p.hashConcat(parts...))
}

// registry holds the RFC 5054 groups, keyed by bit length. Initialized
// once in init(); never mutated afterward, so no locking is needed to
// read it.
var registry = map[int]*Params{}

// register builds one group's Params, computes its multiplier k, and
// stores it in the registry.
func register(bits int, hexN string, g int64, h HashAlgo) {
	n, ok := new(big.Int).SetString(hexN, 16)
	if !ok {
		panic("srp: malformed group constant for " + strconv.Itoa(bits) + "-bit group")
	}
	p := &Params{
		N:           n,
		G:           big.NewInt(g),
		NLengthBits: bits,
		Hash:        h,
	}
	p.k = p.hashInt(padTo(p.N, p.nWidth()), padTo(p.G, p.nWidth()))
	registry[bits] = p
}

// Group returns the RFC 5054 group descriptor for the given bit length.
// Valid sizes are 1024, 1536, 2048, 3072, 4096, 6144, and 8192. Returns
// ErrInputShape for any other value.
func Group(bits int) (*Params, error) {
	p, ok := registry[bits]
	if !ok {
		return nil, inputShapef("unsupported group size %d bits", bits)
	}
	return p, nil
}

func init() {
	// RFC 5054 Appendix A, groups 2/5/14/15/16/17/18. Groups up to and
	// including 2048 bits use g=2 and are bound to SHA-256; the larger
	// groups use g=5 (per RFC 5054) and are bound to SHA-512, matching
	// their larger security margin.
	register(1024,
		"EEAF0AB9ADB38DD69C33F80AFA8FC5E86072618775FF3C0B9EA2314C9C256576"+
			"D674DF7496EA81D3383B4813D692C6E0E0D5D8E250B98BE48E495C1D6089DAD1"+
			"5DC7D7B46154D6B6CE8EF4AD69B15D4982559B297BCF1885C529F566660E57EC"+
			"68EDBC3C05726CC02FD4CBF4976EAA9AFD5138FE8376435B9FC61D2FC0EB06E3",
		2, HashSHA256)
	register(1536,
		"9DEF3CAFB939277AB1F12A8617A47BBBDBA51DF499AC4C80BEEEA9614B19CC4D"+
			"5F4F5F556E27CBDE51C6A94BE4607A291558903BA0D0F84380B655BB9A22E8DC"+
			"DF028A7CEC67F0D08134B1C8B97989149B609E0BE3BAB63D47548381DBC5B1FC"+
			"764E3F4B53DD9DA1158BFD3E2B9C8CF56EDF019539349627DB2FD53D24B7C486"+
			"65772E437D6C7F8CE442734AF7CCB7AE837C264AE3A9BEB87F8A2FE9B8B5292E"+
			"5A021FFF5E91479E8CE7A28C2442C6F315180F93499A234DCF76E3FED135F9BB",
		2, HashSHA256)
	register(2048,
		"AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050"+
			"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50"+
			"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8"+
			"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B"+
			"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748"+
			"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6"+
			"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6"+
			"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73",
		2, HashSHA256)
	register(3072,
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
			"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437"+
			"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED"+
			"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05"+
			"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB"+
			"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B"+
			"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718"+
			"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33"+
			"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7"+
			"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864"+
			"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2"+
			"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A93AD2CAFFFFFFFFFFFFFFFF",
		5, HashSHA512)
	register(4096,
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
			"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437"+
			"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED"+
			"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05"+
			"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB"+
			"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B"+
			"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718"+
			"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33"+
			"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7"+
			"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864"+
			"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2"+
			"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A92108011A723C12A787E6D7"+
			"88719A10BDBA5B2699C327186AF4E23C1A946834B6150BDA2583E9CA2AD44CE8"+
			"DBBBC2DB04DE8EF92E8EFC141FBECAA6287C59474E6BC05D99B2964FA090C3A2"+
			"233BA186515BE7ED1F612970CEE2D7AFB81BDD762170481CD0069127D5B05AA9"+
			"93B4EA988D8FDDC186FFB7DC90A6C08F4DF435C934063199FFFFFFFFFFFFFFFF",
		5, HashSHA512)
	register(6144,
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
			"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437"+
			"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED"+
			"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05"+
			"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB"+
			"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B"+
			"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718"+
			"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33"+
			"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7"+
			"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864"+
			"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2"+
			"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A92108011A723C12A787E6D7"+
			"88719A10BDBA5B2699C327186AF4E23C1A946834B6150BDA2583E9CA2AD44CE8"+
			"DBBBC2DB04DE8EF92E8EFC141FBECAA6287C59474E6BC05D99B2964FA090C3A2"+
			"233BA186515BE7ED1F612970CEE2D7AFB81BDD762170481CD0069127D5B05AA9"+
			"93B4EA988D8FDDC186FFB7DC90A6C08F4DF435C93402849236C3FAB4D27C7026"+
			"C1D4DCB2602646DEC9751E763DBA37BDF8FF9406AD9E530EE5DB382F413001AE"+
			"B06A53ED9027D831179727B0865A8918DA3EDBEBCF9B14ED44CE6CBACED4BB1B"+
			"DB7F1447E6CC254B332051512BD7AF426FB8F401378CD2BF5983CA01C64B92EC"+
			"F032EA15D1721D03F482D7CE6E74FEF6D55E702F46980C82B5A84031900B1C9E"+
			"59E7C97FBEC7E8F323A97A7E36CC88BE0F1D45B7FF585AC54BD407B22B4154AA"+
			"CC8F6D7EBF48E1D814CC5ED20F8037E0A79715EEF29BE32806A1D58BB7C5DA76"+
			"F550AA3D8A1FBFF0EB19CCB1A313D55CDA56C9EC2EF29632387FE8D76E3C0468"+
			"043E8F663F4860EE12BF2D5B0B7474D6E694F91E6DCC4024FFFFFFFFFFFFFFFF",
		5, HashSHA512)
	register(8192,
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
			"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437"+
			"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED"+
			"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05"+
			"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB"+
			"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B"+
			"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718"+
			"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33"+
			"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7"+
			"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864"+
			"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2"+
			"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A92108011A723C12A787E6D7"+
			"88719A10BDBA5B2699C327186AF4E23C1A946834B6150BDA2583E9CA2AD44CE8"+
			"DBBBC2DB04DE8EF92E8EFC141FBECAA6287C59474E6BC05D99B2964FA090C3A2"+
			"233BA186515BE7ED1F612970CEE2D7AFB81BDD762170481CD0069127D5B05AA9"+
			"93B4EA988D8FDDC186FFB7DC90A6C08F4DF435C93402849236C3FAB4D27C7026"+
			"C1D4DCB2602646DEC9751E763DBA37BDF8FF9406AD9E530EE5DB382F413001AE"+
			"B06A53ED9027D831179727B0865A8918DA3EDBEBCF9B14ED44CE6CBACED4BB1B"+
			"DB7F1447E6CC254B332051512BD7AF426FB8F401378CD2BF5983CA01C64B92EC"+
			"F032EA15D1721D03F482D7CE6E74FEF6D55E702F46980C82B5A84031900B1C9E"+
			"59E7C97FBEC7E8F323A97A7E36CC88BE0F1D45B7FF585AC54BD407B22B4154AA"+
			"CC8F6D7EBF48E1D814CC5ED20F8037E0A79715EEF29BE32806A1D58BB7C5DA76"+
			"F550AA3D8A1FBFF0EB19CCB1A313D55CDA56C9EC2EF29632387FE8D76E3C0468"+
			"043E8F663F4860EE12BF2D5B0B7474D6E694F91E6DBE115974A3926F12FEE5E4"+
			"38777CB6A932DF8CD8BEC4D073B931BA3BC832B68D9DD300741FA7BF8AFC47ED"+
			"2576F6936BA424663AAB639C5AE4F5683423B4742BF1C978238F16CBE39D652D"+
			"E3FDB8BEFC848AD922222E04A4037C0713EB57A81A23F0C73473FC646CEA306B"+
			"4BCBC8862F8385DDFA9D4B7FA2C087E879683303ED5BDD3A062B3CF5B3A278A6"+
			"6D2A13F83F44F82DDF310EE074AB6A364597E899A0255DC164F31CC50846851D"+
			"F9AB48195DED7EA1B1D510BD7EE74D73FAF36BC31ECFA268359046F4EB879F92"+
			"4009438B481C6CD7889A002ED5EE382BC9190DA6FC026E479558E4475677E9AA"+
			"9E3050E2765694DFC81F56E880B96E7160C980DD98EDD3DFFFFFFFFFFFFFFFFF",
		5, HashSHA512)
}
