// Package signer produces the ECDSA signatures the proof system consumes.
// It stands in for the external signer: the proofs trust its output and do
// not re-validate it.
package signer

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

const (
	compactSigSize     = 65
	compactSigMagic    = 27
	compactSigCompFlag = 4
)

var ErrInvalidCompact = errors.New("signer: invalid compact signature")

// Signature is an ECDSA signature carrying the full nonce point R rather
// than only r = x(R) mod n.
type Signature struct {
	R curves.Point
	S curves.Scalar
}

// GenerateKeys returns a fresh secret scalar d and its public point Q = d*G.
func GenerateKeys(g curves.Group) (curves.Scalar, curves.Point, error) {
	d, err := g.NewScalar()
	if err != nil {
		return nil, nil, err
	}
	return d, g.BasePoint().ScalarMult(d), nil
}

// Sign computes s = k^-1 (z + r*d) with a fresh random nonce k over any
// group. It retries in the negligible cases r = 0 or s = 0.
func Sign(g curves.Group, d, z curves.Scalar, rnd io.Reader) (*Signature, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	for {
		k, err := g.RandomScalar(rnd)
		if err != nil {
			return nil, err
		}
		R := g.BasePoint().ScalarMult(k)
		r := g.XScalar(R)
		if r.IsZero() {
			continue
		}
		kInv, err := k.Invert()
		k.Zero()
		if err != nil {
			return nil, err
		}
		s := kInv.Mul(z.Add(r.Mul(d)))
		kInv.Zero()
		if s.IsZero() {
			continue
		}
		return &Signature{R: R, S: s}, nil
	}
}

// VerifyRelation checks s*R = z*G + r*Q.
func VerifyRelation(g curves.Group, sig *Signature, z curves.Scalar, Q curves.Point) bool {
	if sig == nil || sig.R == nil || sig.S == nil || z == nil || Q == nil {
		return false
	}
	r := g.XScalar(sig.R)
	lhs := sig.R.ScalarMult(sig.S)
	rhs := g.BasePoint().ScalarMult(z).Add(Q.ScalarMult(r))
	return lhs.Equal(rhs)
}

// PrivateKey converts a secp256k1 scalar into a decred private key.
func PrivateKey(d curves.Scalar) *secp256k1.PrivateKey {
	return secp256k1.PrivKeyFromBytes(d.Bytes())
}

// SignSecp256k1 signs a 32-byte hash with decred's RFC6979 signer and
// rebuilds R from the recovery code of the compact signature.
func SignSecp256k1(priv *secp256k1.PrivateKey, hash []byte) (*Signature, error) {
	return FromCompact(ecdsa.SignCompact(priv, hash, true))
}

// FromCompact decodes a 65-byte compact signature [code || r || s]. Bit 0 of
// the recovery code is the parity of R.y, bit 1 signals that R.x = r + n.
func FromCompact(compact []byte) (*Signature, error) {
	if len(compact) != compactSigSize || compact[0] < compactSigMagic {
		return nil, ErrInvalidCompact
	}
	code := compact[0] - compactSigMagic
	if code >= compactSigCompFlag {
		code -= compactSigCompFlag
	}
	if code > 3 {
		return nil, ErrInvalidCompact
	}

	params := secp256k1.S256().Params()
	x := new(big.Int).SetBytes(compact[1:33])
	if code&2 != 0 {
		x.Add(x, params.N)
	}
	if x.Cmp(params.P) >= 0 {
		return nil, ErrInvalidCompact
	}

	enc := make([]byte, 33)
	enc[0] = secp256k1.PubKeyFormatCompressedEven | (code & 1)
	x.FillBytes(enc[1:])

	g := curves.NewSecp256k1()
	R, err := g.NewPointFromBytes(enc)
	if err != nil {
		return nil, ErrInvalidCompact
	}
	s, err := g.ScalarFromBytes(compact[33:])
	if err != nil || s.IsZero() {
		return nil, ErrInvalidCompact
	}
	return &Signature{R: R, S: s}, nil
}
