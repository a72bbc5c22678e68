package signer

import (
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRelation(t *testing.T) {
	for _, g := range []curves.Group{curves.NewSecp256k1(), curves.NewEd25519()} {
		t.Run(g.Name(), func(t *testing.T) {
			d, Q, err := GenerateKeys(g)
			require.NoError(t, err)
			z := g.NewScalarFromUint64(12345)

			sig, err := Sign(g, d, z, nil)
			require.NoError(t, err)
			assert.True(t, VerifyRelation(g, sig, z, Q))
			assert.False(t, VerifyRelation(g, sig, g.NewScalarFromUint64(12346), Q))
		})
	}
}

func TestSignMatchesDecredVerify(t *testing.T) {
	g := curves.NewSecp256k1()
	d, _, err := GenerateKeys(g)
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("interop"))
	z := g.ReduceBytes(hash[:])

	sig, err := Sign(g, d, z, nil)
	require.NoError(t, err)

	var r, s secp256k1.ModNScalar
	r.SetByteSlice(g.XScalar(sig.R).Bytes())
	s.SetByteSlice(sig.S.Bytes())
	priv := PrivateKey(d)
	assert.True(t, ecdsa.NewSignature(&r, &s).Verify(hash[:], priv.PubKey()))
}

func TestSignSecp256k1(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("Zero Knowledge ECDSA"))

	sig, err := SignSecp256k1(priv, hash[:])
	require.NoError(t, err)

	g := curves.NewSecp256k1()
	Q, err := g.NewPointFromBytes(priv.PubKey().SerializeCompressed())
	require.NoError(t, err)

	z := g.ReduceBytes(hash[:])
	assert.True(t, VerifyRelation(g, sig, z, Q))

	// r carried in the compact form matches x(R) mod n.
	compact := ecdsa.SignCompact(priv, hash[:], true)
	assert.Equal(t, compact[1:33], g.XScalar(sig.R).Bytes())
}

func TestFromCompactRejectsGarbage(t *testing.T) {
	_, err := FromCompact(make([]byte, 64))
	assert.ErrorIs(t, err, ErrInvalidCompact)

	bad := make([]byte, 65)
	bad[0] = 27
	_, err = FromCompact(bad)
	assert.ErrorIs(t, err, ErrInvalidCompact)

	bad[0] = 27 + 12
	_, err = FromCompact(bad)
	assert.ErrorIs(t, err, ErrInvalidCompact)
}

func TestFromCompactBothParities(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	g := curves.NewSecp256k1()
	Q, err := g.NewPointFromBytes(priv.PubKey().SerializeCompressed())
	require.NoError(t, err)

	seen := map[byte]bool{}
	for i := 0; i < 64; i++ {
		hash := sha256.Sum256([]byte{byte(i)})
		compact := ecdsa.SignCompact(priv, hash[:], true)
		sig, err := FromCompact(compact)
		require.NoError(t, err)

		prefix := sig.R.Bytes()[0]
		assert.Equal(t, byte(0x02)|((compact[0]-27-4)&1), prefix)
		assert.True(t, VerifyRelation(g, sig, g.ReduceBytes(hash[:]), Q))
		seen[prefix] = true
	}
	assert.True(t, seen[0x02] && seen[0x03], "expected nonce points of both parities")
}
