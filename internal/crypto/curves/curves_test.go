package curves

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupsUnderTest() []Group {
	return []Group{NewSecp256k1(), NewEd25519()}
}

func TestSecp256k1BasePoint(t *testing.T) {
	g := NewSecp256k1()
	want := "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	assert.Equal(t, want, hex.EncodeToString(g.BasePoint().Bytes()))
	assert.Len(t, g.BasePoint().Bytes(), g.PointSize())
}

func TestSecp256k1ScalarEncoding(t *testing.T) {
	g := NewSecp256k1()

	_, err := g.ScalarFromBytes(g.Order().Bytes())
	assert.ErrorIs(t, err, ErrInvalidScalar, "n itself is not canonical")

	_, err = g.ScalarFromBytes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidScalar)

	s := g.NewScalarFromUint64(12345)
	b := s.Bytes()
	require.Len(t, b, 32)
	assert.Equal(t, byte(0x39), b[31])
	assert.Equal(t, byte(0x30), b[30])
}

func TestSecp256k1ReduceBytes(t *testing.T) {
	g := NewSecp256k1()
	over := new(big.Int).Add(g.Order(), big.NewInt(7))
	buf := make([]byte, 32)
	over.FillBytes(buf)
	assert.Equal(t, big.NewInt(7), g.ReduceBytes(buf).BigInt())
}

func TestSecp256k1PointFromHash(t *testing.T) {
	g := NewSecp256k1()
	// x = 0x79be...1798 is G's x coordinate, and G has even y.
	x, _ := hex.DecodeString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	p, err := g.PointFromHash(x)
	require.NoError(t, err)
	assert.True(t, p.Equal(g.BasePoint()))

	// An all-ones coordinate is larger than the field prime.
	overflow := bytes.Repeat([]byte{0xff}, 32)
	_, err = g.PointFromHash(overflow)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestGroupArithmetic(t *testing.T) {
	for _, g := range groupsUnderTest() {
		t.Run(g.Name(), func(t *testing.T) {
			a, err := g.NewScalar()
			require.NoError(t, err)
			b, err := g.NewScalar()
			require.NoError(t, err)

			G := g.BasePoint()

			// (a + b)G = aG + bG
			lhs := G.ScalarMult(a.Add(b))
			rhs := G.ScalarMult(a).Add(G.ScalarMult(b))
			assert.True(t, lhs.Equal(rhs))

			// a(bG) = (ab)G
			assert.True(t, G.ScalarMult(b).ScalarMult(a).Equal(G.ScalarMult(a.Mul(b))))

			// aG - aG = O
			aG := G.ScalarMult(a)
			assert.True(t, aG.Sub(aG).IsIdentity())
			assert.True(t, aG.Add(g.Identity()).Equal(aG))

			// a + (-a) = 0
			assert.True(t, a.Add(a.Negate()).IsZero())

			inv, err := a.Invert()
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(1), inv.Mul(a).BigInt())

			_, err = g.NewScalarFromUint64(0).Invert()
			assert.ErrorIs(t, err, ErrZeroInverse)

			decoded, err := g.NewPointFromBytes(aG.Bytes())
			require.NoError(t, err)
			assert.True(t, decoded.Equal(aG))
			assert.Len(t, aG.Bytes(), g.PointSize())
		})
	}
}

func TestScalarZero(t *testing.T) {
	for _, g := range groupsUnderTest() {
		s, err := g.NewScalar()
		require.NoError(t, err)
		s.Zero()
		assert.True(t, s.IsZero(), g.Name())
		assert.True(t, bytes.Equal(s.Bytes(), make([]byte, g.ScalarSize())), g.Name())
	}
}

func TestXScalarMatchesCoordinate(t *testing.T) {
	g := NewSecp256k1()
	k := g.NewScalarFromUint64(2)
	P := g.BasePoint().ScalarMult(k)
	// Compressed encoding carries x after the parity byte.
	assert.Equal(t, P.Bytes()[1:], g.XScalar(P).Bytes())
}

func TestByName(t *testing.T) {
	g, err := ByName("secp256k1")
	require.NoError(t, err)
	assert.Equal(t, "secp256k1", g.Name())

	g, err = ByName("ed25519")
	require.NoError(t, err)
	assert.Equal(t, "ed25519", g.Name())

	_, err = ByName("p521")
	assert.ErrorIs(t, err, ErrUnknownCurve)
}
