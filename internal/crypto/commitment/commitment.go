// Package commitment hides a public key behind a Pedersen commitment
// C = Q + rho*H, where H is the nothing-up-my-sleeve second generator.
//
// The commitment is perfectly hiding with respect to Q and computationally
// binding under the discrete-log assumption, as long as log_G(H) is unknown.
package commitment

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"github.com/smallyu/go-zkecdsa/internal/crypto/zk/schnorr"
)

// PointCommitment represents a commitment to a public key together with
// its blinding factor.
//   - C is public and safe to disclose.
//   - Rho is secret, becomes part of the proof witness, and must be fresh per
//     commitment: reusing it across commitments breaks hiding.
type PointCommitment struct {
	C   curves.Point
	Rho curves.Scalar
}

// Commit samples a fresh blinding factor from rnd (crypto/rand when nil)
// and returns C = Q + rho*H.
func Commit(g curves.Group, H, Q curves.Point, rnd io.Reader) (*PointCommitment, error) {
	if g == nil || H == nil || Q == nil {
		return nil, errors.New("commitment: inputs cannot be nil")
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	// 1. Sample rho
	rho, err := g.RandomScalar(rnd)
	if err != nil {
		return nil, err
	}

	// 2. Compute C = Q + rho*H
	C := Q.Add(H.ScalarMult(rho))

	return &PointCommitment{
		C:   C,
		Rho: rho,
	}, nil
}

// Open checks that the commitment opens to Q with its blinding factor.
func (c *PointCommitment) Open(H, Q curves.Point) bool {
	if c == nil || c.C == nil || c.Rho == nil {
		return false
	}
	return Verify(c.C, c.Rho, H, Q)
}

// Verify checks C == Q + rho*H.
func Verify(C curves.Point, rho curves.Scalar, H, Q curves.Point) bool {
	if C == nil || rho == nil || H == nil || Q == nil {
		return false
	}
	return C.Equal(Q.Add(H.ScalarMult(rho)))
}

// Zero wipes the blinding factor.
func (c *PointCommitment) Zero() {
	if c != nil && c.Rho != nil {
		c.Rho.Zero()
	}
}

// ProveOpening proves that C commits to Q without revealing rho: it is a
// Schnorr proof of knowledge of rho with base H for the point C - Q.
func (c *PointCommitment) ProveOpening(g curves.Group, H, Q curves.Point, context []byte, rnd io.Reader) (*schnorr.Proof, error) {
	if c == nil || c.C == nil || c.Rho == nil {
		return nil, errors.New("commitment: missing blinding factor")
	}
	return schnorr.Prove(g, H, c.Rho, c.C.Sub(Q), context, rnd)
}

// VerifyOpening checks a proof produced by ProveOpening.
func VerifyOpening(g curves.Group, H, C, Q curves.Point, proof *schnorr.Proof, context []byte) bool {
	if C == nil || Q == nil {
		return false
	}
	return proof.Verify(g, H, C.Sub(Q), context)
}
