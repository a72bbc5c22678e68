package curves

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	secpScalarSize = 32
	secpPointSize  = 33
)

// Secp256k1 implements Group over secp256k1 using the decred field and group code.
type Secp256k1 struct{}

// NewSecp256k1 returns a new instance of the Secp256k1 group.
func NewSecp256k1() Group {
	return &Secp256k1{}
}

func (c *Secp256k1) Name() string {
	return "secp256k1"
}

func (c *Secp256k1) Order() *big.Int {
	return new(big.Int).Set(secp256k1.S256().Params().N)
}

func (c *Secp256k1) ScalarSize() int { return secpScalarSize }
func (c *Secp256k1) PointSize() int  { return secpPointSize }

func (c *Secp256k1) NewScalar() (Scalar, error) {
	return c.RandomScalar(rand.Reader)
}

func (c *Secp256k1) RandomScalar(r io.Reader) (Scalar, error) {
	n := secp256k1.S256().Params().N
	return nonZeroScalar(func() (Scalar, error) {
		// Generate random integer in [0, N-1]
		k, err := rand.Int(r, n)
		if err != nil {
			return nil, err
		}
		return c.NewScalarFromBigInt(k), nil
	})
}

func (c *Secp256k1) NewScalarFromBigInt(n *big.Int) Scalar {
	var buf [secpScalarSize]byte
	new(big.Int).Mod(n, secp256k1.S256().Params().N).FillBytes(buf[:])
	s := &secpScalar{}
	s.s.SetBytes(&buf)
	return s
}

func (c *Secp256k1) NewScalarFromUint64(v uint64) Scalar {
	return c.NewScalarFromBigInt(new(big.Int).SetUint64(v))
}

func (c *Secp256k1) ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != secpScalarSize {
		return nil, ErrInvalidScalar
	}
	s := &secpScalar{}
	if overflow := s.s.SetByteSlice(b); overflow {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

func (c *Secp256k1) ReduceBytes(b []byte) Scalar {
	if len(b) == secpScalarSize {
		s := &secpScalar{}
		s.s.SetByteSlice(b)
		return s
	}
	return c.NewScalarFromBigInt(new(big.Int).SetBytes(b))
}

func (c *Secp256k1) NewPointFromBytes(b []byte) (Point, error) {
	if len(b) != secpPointSize {
		return nil, ErrInvalidPoint
	}
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	p := &secpPoint{}
	pk.AsJacobian(&p.p)
	return p, nil
}

func (c *Secp256k1) BasePoint() Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	p := &secpPoint{}
	secp256k1.ScalarBaseMultNonConst(&one, &p.p)
	p.p.ToAffine()
	return p
}

func (c *Secp256k1) Identity() Point {
	p := &secpPoint{}
	p.p.Z.SetInt(1)
	return p
}

func (c *Secp256k1) PointFromHash(digest []byte) (Point, error) {
	if len(digest) != secpScalarSize {
		return nil, ErrInvalidPoint
	}
	candidate := make([]byte, 0, secpPointSize)
	candidate = append(candidate, secp256k1.PubKeyFormatCompressedEven)
	candidate = append(candidate, digest...)
	return c.NewPointFromBytes(candidate)
}

func (c *Secp256k1) XScalar(p Point) Scalar {
	sp := mustSecpPoint(p)
	x := sp.p.X.Bytes()
	s := &secpScalar{}
	s.s.SetBytes(x)
	return s
}

// secpScalar implements Scalar
type secpScalar struct {
	s secp256k1.ModNScalar
}

func mustSecpScalar(s Scalar) *secpScalar {
	o, ok := s.(*secpScalar)
	if !ok {
		panic("type mismatch")
	}
	return o
}

func (s *secpScalar) Bytes() []byte {
	b := s.s.Bytes()
	return b[:]
}

func (s *secpScalar) BigInt() *big.Int {
	b := s.s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

func (s *secpScalar) Add(other Scalar) Scalar {
	res := &secpScalar{}
	res.s.Add2(&s.s, &mustSecpScalar(other).s)
	return res
}

func (s *secpScalar) Mul(other Scalar) Scalar {
	res := &secpScalar{}
	res.s.Mul2(&s.s, &mustSecpScalar(other).s)
	return res
}

func (s *secpScalar) Negate() Scalar {
	res := &secpScalar{}
	res.s.NegateVal(&s.s)
	return res
}

func (s *secpScalar) Invert() (Scalar, error) {
	if s.s.IsZero() {
		return nil, ErrZeroInverse
	}
	res := &secpScalar{}
	res.s.InverseValNonConst(&s.s)
	return res, nil
}

func (s *secpScalar) IsZero() bool {
	return s.s.IsZero()
}

func (s *secpScalar) Equal(other Scalar) bool {
	return s.s.Equals(&mustSecpScalar(other).s)
}

func (s *secpScalar) Zero() {
	s.s.Zero()
}

// secpPoint implements Point. The Jacobian point is always kept in affine
// form (Z = 1); the identity is (0, 0, 1).
type secpPoint struct {
	p secp256k1.JacobianPoint
}

func mustSecpPoint(p Point) *secpPoint {
	o, ok := p.(*secpPoint)
	if !ok {
		panic("type mismatch")
	}
	return o
}

func (p *secpPoint) Bytes() []byte {
	if p.IsIdentity() {
		return make([]byte, secpPointSize)
	}
	return secp256k1.NewPublicKey(&p.p.X, &p.p.Y).SerializeCompressed()
}

func (p *secpPoint) Add(other Point) Point {
	res := &secpPoint{}
	secp256k1.AddNonConst(&p.p, &mustSecpPoint(other).p, &res.p)
	res.p.ToAffine()
	return res
}

func (p *secpPoint) Sub(other Point) Point {
	var neg secp256k1.JacobianPoint
	neg.Set(&mustSecpPoint(other).p)
	neg.Y.Negate(1).Normalize()
	res := &secpPoint{}
	secp256k1.AddNonConst(&p.p, &neg, &res.p)
	res.p.ToAffine()
	return res
}

func (p *secpPoint) ScalarMult(scalar Scalar) Point {
	res := &secpPoint{}
	secp256k1.ScalarMultNonConst(&mustSecpScalar(scalar).s, &p.p, &res.p)
	res.p.ToAffine()
	return res
}

func (p *secpPoint) Equal(other Point) bool {
	return subtle.ConstantTimeCompare(p.Bytes(), other.Bytes()) == 1
}

func (p *secpPoint) IsIdentity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}
