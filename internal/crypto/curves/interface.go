package curves

import (
	"errors"
	"io"
	"math/big"
)

var (
	ErrInvalidPoint  = errors.New("curves: invalid point encoding")
	ErrIdentityPoint = errors.New("curves: point is the identity")
	ErrInvalidScalar = errors.New("curves: invalid scalar encoding")
	ErrZeroInverse   = errors.New("curves: inversion of zero scalar")
	ErrUnknownCurve  = errors.New("curves: unknown curve")
)

// Point represents an element of a prime-order elliptic curve group.
// It abstracts away the underlying coordinate system (Affine, Jacobian, Edwards).
// Points are immutable: every operation returns a fresh value.
type Point interface {
	// Bytes returns the canonical compressed serialization of the point.
	Bytes() []byte

	// Add adds this point to another point.
	Add(p Point) Point

	// Sub subtracts another point from this point.
	Sub(p Point) Point

	// ScalarMult multiplies this point by a scalar.
	ScalarMult(s Scalar) Point

	// Equal reports whether both points have the same canonical encoding.
	// The comparison of encodings runs in constant time.
	Equal(p Point) bool

	// IsIdentity reports whether the point is the group identity.
	IsIdentity() bool
}

// Scalar represents a value in the curve's scalar field (integers mod the group order).
type Scalar interface {
	// Bytes returns the fixed-width big-endian serialization of the scalar.
	Bytes() []byte

	// BigInt returns the scalar as a big integer.
	BigInt() *big.Int

	// Add adds this scalar to another scalar.
	Add(s Scalar) Scalar

	// Mul multiplies this scalar by another scalar.
	Mul(s Scalar) Scalar

	// Negate returns the additive inverse of the scalar.
	Negate() Scalar

	// Invert returns the modular inverse of the scalar, or ErrZeroInverse.
	Invert() (Scalar, error)

	// IsZero reports whether the scalar is zero.
	IsZero() bool

	// Equal reports whether both scalars hold the same value.
	Equal(s Scalar) bool

	// Zero overwrites the scalar in place. Used to wipe secrets.
	Zero()
}

// Group is the algebra the proof system is written against. Swapping the
// implementation changes the curve without touching protocol code.
type Group interface {
	// Name returns the name of the curve.
	Name() string

	// Order returns the order of the base point (group order).
	Order() *big.Int

	// ScalarSize is the width of Scalar.Bytes.
	ScalarSize() int

	// PointSize is the width of Point.Bytes.
	PointSize() int

	// NewScalar generates a random non-zero scalar from crypto/rand.
	NewScalar() (Scalar, error)

	// RandomScalar generates a random non-zero scalar from r.
	RandomScalar(r io.Reader) (Scalar, error)

	// NewScalarFromBigInt reduces n modulo the group order.
	NewScalarFromBigInt(n *big.Int) Scalar

	// NewScalarFromUint64 creates a scalar from a small integer.
	NewScalarFromUint64(v uint64) Scalar

	// ScalarFromBytes decodes a canonical big-endian scalar, rejecting values >= Order.
	ScalarFromBytes(b []byte) (Scalar, error)

	// ReduceBytes interprets b as a big-endian integer and reduces it modulo Order.
	// It maps hash digests to scalars.
	ReduceBytes(b []byte) Scalar

	// NewPointFromBytes decodes a canonical compressed point. Encodings that are
	// off the curve, outside the prime-order subgroup, or the identity are rejected.
	NewPointFromBytes(b []byte) (Point, error)

	// BasePoint returns the generator point G.
	BasePoint() Point

	// Identity returns the neutral element.
	Identity() Point

	// PointFromHash treats a 32-byte digest as the coordinate of a compressed
	// point with even parity and tries to decode it.
	PointFromHash(digest []byte) (Point, error)

	// XScalar returns the affine x-coordinate of p reduced modulo Order.
	// This is the ECDSA conversion function r = x(R) mod n.
	XScalar(p Point) Scalar
}

// ByName returns the group registered under name.
func ByName(name string) (Group, error) {
	switch name {
	case "secp256k1", "":
		return NewSecp256k1(), nil
	case "ed25519":
		return NewEd25519(), nil
	default:
		return nil, ErrUnknownCurve
	}
}

// nonZeroScalar retries draw until it yields a non-zero scalar.
func nonZeroScalar(draw func() (Scalar, error)) (Scalar, error) {
	for {
		s, err := draw()
		if err != nil {
			return nil, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
}
