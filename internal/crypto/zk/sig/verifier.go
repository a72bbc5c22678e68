package sig

import (
	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

// Verify checks the proof against digest z, nonce point R and the
// (commitment to the) public key C_Q. Every failure, including malformed
// or mixed-curve inputs, is reported as false.
func (p *Proof) Verify(params *Params, z curves.Scalar, R, CQ curves.Point) (ok bool) {
	if p == nil || p.T == nil || p.Z1 == nil || p.Z2 == nil {
		return false
	}
	if params == nil || z == nil || R == nil || CQ == nil {
		return false
	}
	if R.IsIdentity() || p.T.IsIdentity() {
		return false
	}
	// Values from a different Group panic on type assertion.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	g := params.Group

	// 1. r = x(R) mod n, exactly as the prover computes it
	r := g.XScalar(R)

	// 2. c = Hash(T, R, C_Q, z)
	c, err := params.challenge(p.T, R, CQ, z)
	if err != nil {
		return false
	}

	// 3. target = z*G + r*C_Q
	target := g.BasePoint().ScalarMult(z).Add(CQ.ScalarMult(r))

	// 4. z1*R + z2*H == T + c*target
	lhs := R.ScalarMult(p.Z1).Add(params.H.ScalarMult(p.Z2))
	rhs := p.T.Add(target.ScalarMult(c))

	return lhs.Equal(rhs)
}
