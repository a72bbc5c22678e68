package sig

import (
	"crypto/rand"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

// Prove generates a proof that the caller knows s (and rho) such that
// s*R = z*G + r*Q with C_Q = Q + rho*H.
//
// r is always recomputed from R; it is never accepted from the caller.
// The blinding scalars are drawn fresh for every call and wiped on return.
func Prove(params *Params, w *Witness, R, CQ curves.Point, z curves.Scalar) (*Proof, error) {
	if params == nil || w == nil || w.S == nil || R == nil || CQ == nil || z == nil {
		return nil, ErrNilInput
	}
	g := params.Group
	rnd := params.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	// 1. Sample blinding scalars alpha1, alpha2
	alpha1, err := g.RandomScalar(rnd)
	if err != nil {
		return nil, err
	}
	defer alpha1.Zero()
	alpha2, err := g.RandomScalar(rnd)
	if err != nil {
		return nil, err
	}
	defer alpha2.Zero()

	// 2. T = alpha1*R + alpha2*H
	T := R.ScalarMult(alpha1).Add(params.H.ScalarMult(alpha2))

	// 3. r = x(R) mod n
	r := g.XScalar(R)

	// 4. c = Hash(T, R, C_Q, z)
	c, err := params.challenge(T, R, CQ, z)
	if err != nil {
		return nil, err
	}

	// 5. z1 = alpha1 + c*s, z2 = alpha2 + c*r*rho
	rho := w.Rho
	if rho == nil {
		rho = g.NewScalarFromUint64(0)
	}
	z1 := alpha1.Add(c.Mul(w.S))
	z2 := alpha2.Add(c.Mul(r).Mul(rho))

	return &Proof{
		T:  T,
		Z1: z1,
		Z2: z2,
	}, nil
}
