package sig

import (
	"errors"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

var (
	ErrNilInput        = errors.New("sig: inputs cannot be nil")
	ErrInvalidEncoding = errors.New("sig: invalid proof encoding")
)

// Witness holds the prover's secrets. It is never serialized; callers
// should call Zero as soon as the proof has been generated.
type Witness struct {
	S   curves.Scalar // ECDSA signature scalar
	Rho curves.Scalar // commitment blinding factor, nil when Q is disclosed
}

// Zero wipes both secrets in place.
func (w *Witness) Zero() {
	if w == nil {
		return
	}
	if w.S != nil {
		w.S.Zero()
	}
	if w.Rho != nil {
		w.Rho.Zero()
	}
}

// Proof is the Sigma-protocol commitment T and the two responses.
type Proof struct {
	T  curves.Point
	Z1 curves.Scalar
	Z2 curves.Scalar
}

// Size returns the encoded length of a proof over g.
func Size(g curves.Group) int {
	return g.PointSize() + 2*g.ScalarSize()
}

// MarshalBinary encodes the proof as T || z1 || z2: the compressed point
// followed by two fixed-width big-endian scalars.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p == nil || p.T == nil || p.Z1 == nil || p.Z2 == nil {
		return nil, ErrNilInput
	}
	t, z1, z2 := p.T.Bytes(), p.Z1.Bytes(), p.Z2.Bytes()
	out := make([]byte, 0, len(t)+len(z1)+len(z2))
	out = append(out, t...)
	out = append(out, z1...)
	out = append(out, z2...)
	return out, nil
}

// UnmarshalProof decodes a proof produced by MarshalBinary.
func UnmarshalProof(g curves.Group, b []byte) (*Proof, error) {
	if len(b) != Size(g) {
		return nil, ErrInvalidEncoding
	}
	ps, ss := g.PointSize(), g.ScalarSize()

	T, err := g.NewPointFromBytes(b[:ps])
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	z1, err := g.ScalarFromBytes(b[ps : ps+ss])
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	z2, err := g.ScalarFromBytes(b[ps+ss:])
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return &Proof{T: T, Z1: z1, Z2: z2}, nil
}
