package schnorr

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"github.com/smallyu/go-zkecdsa/internal/crypto/transcript"
)

// Label domain-separates Schnorr challenges from the signature proof.
const Label = "zk-ecdsa-attest/schnorr/v1"

var ErrInvalidProof = errors.New("schnorr: invalid proof encoding")

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
// Proves knowledge of x such that X = x * B for a public base B.
type Proof struct {
	R curves.Point  // Commitment R = k * B
	S curves.Scalar // Response s = k + e * x
}

// Prove generates a Schnorr proof for the secret x, X = x*base.
// The context bytes are bound into the challenge.
func Prove(g curves.Group, base curves.Point, x curves.Scalar, X curves.Point, context []byte, rnd io.Reader) (*Proof, error) {
	if g == nil || base == nil || x == nil || X == nil {
		return nil, errors.New("schnorr: inputs cannot be nil")
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	// 1. Generate random nonce k
	k, err := g.RandomScalar(rnd)
	if err != nil {
		return nil, err
	}
	defer k.Zero()

	// 2. Compute R = k * B
	R := base.ScalarMult(k)

	// 3. Compute challenge e = H(B, X, R, ctx)
	e := challenge(g, base, X, R, context)

	// 4. Compute s = k + e * x mod n
	s := k.Add(e.Mul(x))

	return &Proof{
		R: R,
		S: s,
	}, nil
}

// Verify checks the validity of the Schnorr proof for X = x*base.
func (p *Proof) Verify(g curves.Group, base, X curves.Point, context []byte) bool {
	if p == nil || p.R == nil || p.S == nil || g == nil || base == nil || X == nil {
		return false
	}

	// 1. Compute challenge e = H(B, X, R, ctx)
	e := challenge(g, base, X, p.R, context)

	// 2. Verify s*B = R + e*X
	lhs := base.ScalarMult(p.S)
	rhs := p.R.Add(X.ScalarMult(e))

	return lhs.Equal(rhs)
}

// MarshalBinary encodes the proof as R || s.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p == nil || p.R == nil || p.S == nil {
		return nil, ErrInvalidProof
	}
	out := append([]byte{}, p.R.Bytes()...)
	return append(out, p.S.Bytes()...), nil
}

// UnmarshalProof decodes a proof produced by MarshalBinary.
func UnmarshalProof(g curves.Group, b []byte) (*Proof, error) {
	if len(b) != g.PointSize()+g.ScalarSize() {
		return nil, ErrInvalidProof
	}
	R, err := g.NewPointFromBytes(b[:g.PointSize()])
	if err != nil {
		return nil, ErrInvalidProof
	}
	s, err := g.ScalarFromBytes(b[g.PointSize():])
	if err != nil {
		return nil, ErrInvalidProof
	}
	return &Proof{R: R, S: s}, nil
}

// challenge computes H(B, X, R, ctx) mod n
func challenge(g curves.Group, base, X, R curves.Point, context []byte) curves.Scalar {
	t := transcript.NewSHA256(g, []byte(Label))
	t.AppendPoint(base)
	t.AppendPoint(X)
	t.AppendPoint(R)
	t.AppendBytes("context", context)
	return t.Challenge()
}
