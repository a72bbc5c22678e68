package curves

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"math/big"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
)

const ed25519Size = 32

// l = 2^252 + 27742317777372353535851937790883648493
var ed25519Order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// Ed25519Curve implements Group over the prime-order subgroup of edwards25519.
// Scalars are exposed big-endian like every other Group, even though the
// underlying library is little-endian.
type Ed25519Curve struct{}

// NewEd25519 returns a new instance of the Ed25519 group.
func NewEd25519() Group {
	return &Ed25519Curve{}
}

func (c *Ed25519Curve) Name() string {
	return "ed25519"
}

func (c *Ed25519Curve) Order() *big.Int {
	return new(big.Int).Set(ed25519Order)
}

func (c *Ed25519Curve) ScalarSize() int { return ed25519Size }
func (c *Ed25519Curve) PointSize() int  { return ed25519Size }

func (c *Ed25519Curve) NewScalar() (Scalar, error) {
	return c.RandomScalar(rand.Reader)
}

func (c *Ed25519Curve) RandomScalar(r io.Reader) (Scalar, error) {
	return nonZeroScalar(func() (Scalar, error) {
		var b [64]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
		if err != nil {
			return nil, err
		}
		return &Ed25519Scalar{s: s}, nil
	})
}

func (c *Ed25519Curve) NewScalarFromBigInt(n *big.Int) Scalar {
	var buf [ed25519Size]byte
	new(big.Int).Mod(n, ed25519Order).FillBytes(buf[:])
	reverse(buf[:])
	// Canonical by construction after the reduction above.
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	return &Ed25519Scalar{s: s}
}

func (c *Ed25519Curve) NewScalarFromUint64(v uint64) Scalar {
	return c.NewScalarFromBigInt(new(big.Int).SetUint64(v))
}

func (c *Ed25519Curve) ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != ed25519Size {
		return nil, ErrInvalidScalar
	}
	le := make([]byte, ed25519Size)
	copy(le, b)
	reverse(le)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(le)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return &Ed25519Scalar{s: s}, nil
}

func (c *Ed25519Curve) ReduceBytes(b []byte) Scalar {
	return c.NewScalarFromBigInt(new(big.Int).SetBytes(b))
}

func (c *Ed25519Curve) NewPointFromBytes(b []byte) (Point, error) {
	if len(b) != ed25519Size {
		return nil, ErrInvalidPoint
	}
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	pt := &Ed25519Point{p: p}
	if pt.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	if !pt.inPrimeOrderSubgroup() {
		return nil, ErrInvalidPoint
	}
	return pt, nil
}

func (c *Ed25519Curve) BasePoint() Point {
	return &Ed25519Point{p: edwards25519.NewGeneratorPoint()}
}

func (c *Ed25519Curve) Identity() Point {
	return &Ed25519Point{p: edwards25519.NewIdentityPoint()}
}

func (c *Ed25519Curve) PointFromHash(digest []byte) (Point, error) {
	if len(digest) != ed25519Size {
		return nil, ErrInvalidPoint
	}
	candidate := make([]byte, ed25519Size)
	copy(candidate, digest)
	// The top bit carries the sign of x; force it even.
	candidate[31] &= 0x7f
	p, err := edwards25519.NewIdentityPoint().SetBytes(candidate)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	// Clear the cofactor so the result lands in the prime-order subgroup.
	p.MultByCofactor(p)
	pt := &Ed25519Point{p: p}
	if pt.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	return pt, nil
}

func (c *Ed25519Curve) XScalar(p Point) Scalar {
	X, _, Z, _ := mustEd25519Point(p).p.ExtendedCoordinates()
	zInv := new(field.Element).Invert(Z)
	x := new(field.Element).Multiply(X, zInv).Bytes()
	reverse(x)
	return c.ReduceBytes(x)
}

// Ed25519Scalar implements Scalar
type Ed25519Scalar struct {
	s *edwards25519.Scalar
}

func mustEd25519Scalar(s Scalar) *Ed25519Scalar {
	o, ok := s.(*Ed25519Scalar)
	if !ok {
		panic("type mismatch")
	}
	return o
}

func (s *Ed25519Scalar) Bytes() []byte {
	b := s.s.Bytes()
	reverse(b)
	return b
}

func (s *Ed25519Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s.Bytes())
}

func (s *Ed25519Scalar) Add(other Scalar) Scalar {
	res := edwards25519.NewScalar().Add(s.s, mustEd25519Scalar(other).s)
	return &Ed25519Scalar{s: res}
}

func (s *Ed25519Scalar) Mul(other Scalar) Scalar {
	res := edwards25519.NewScalar().Multiply(s.s, mustEd25519Scalar(other).s)
	return &Ed25519Scalar{s: res}
}

func (s *Ed25519Scalar) Negate() Scalar {
	return &Ed25519Scalar{s: edwards25519.NewScalar().Negate(s.s)}
}

func (s *Ed25519Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrZeroInverse
	}
	res := edwards25519.NewScalar().Invert(s.s)
	return &Ed25519Scalar{s: res}, nil
}

func (s *Ed25519Scalar) IsZero() bool {
	return s.s.Equal(edwards25519.NewScalar()) == 1
}

func (s *Ed25519Scalar) Equal(other Scalar) bool {
	return s.s.Equal(mustEd25519Scalar(other).s) == 1
}

func (s *Ed25519Scalar) Zero() {
	s.s.Set(edwards25519.NewScalar())
}

// Ed25519Point implements Point
type Ed25519Point struct {
	p *edwards25519.Point
}

func mustEd25519Point(p Point) *Ed25519Point {
	o, ok := p.(*Ed25519Point)
	if !ok {
		panic("type mismatch")
	}
	return o
}

func (p *Ed25519Point) Bytes() []byte {
	return p.p.Bytes()
}

func (p *Ed25519Point) Add(other Point) Point {
	res := edwards25519.NewIdentityPoint().Add(p.p, mustEd25519Point(other).p)
	return &Ed25519Point{p: res}
}

func (p *Ed25519Point) Sub(other Point) Point {
	res := edwards25519.NewIdentityPoint().Subtract(p.p, mustEd25519Point(other).p)
	return &Ed25519Point{p: res}
}

func (p *Ed25519Point) ScalarMult(scalar Scalar) Point {
	res := edwards25519.NewIdentityPoint().ScalarMult(mustEd25519Scalar(scalar).s, p.p)
	return &Ed25519Point{p: res}
}

func (p *Ed25519Point) Equal(other Point) bool {
	return subtle.ConstantTimeCompare(p.Bytes(), other.Bytes()) == 1
}

func (p *Ed25519Point) IsIdentity() bool {
	return p.p.Equal(edwards25519.NewIdentityPoint()) == 1
}

// inPrimeOrderSubgroup checks [l]P = O, computed as [l-1]P + P.
func (p *Ed25519Point) inPrimeOrderSubgroup() bool {
	minusOne := edwards25519.NewScalar().Negate(scalarOne())
	q := edwards25519.NewIdentityPoint().ScalarMult(minusOne, p.p)
	q.Add(q, p.p)
	return q.Equal(edwards25519.NewIdentityPoint()) == 1
}

func scalarOne() *edwards25519.Scalar {
	var b [ed25519Size]byte
	b[0] = 1
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	return s
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
