// Package sig implements a non-interactive Sigma protocol proving knowledge
// of the scalar s of an ECDSA signature (R, s) on a message digest z, for a
// public key Q that is either disclosed or hidden behind a Pedersen
// commitment C_Q = Q + rho*H.
//
// The prover knows the witness (s, rho) and sends
//
//	T  = alpha1*R + alpha2*H
//	z1 = alpha1 + c*s
//	z2 = alpha2 + c*r*rho
//
// where r = x(R) mod n and c = Hash(label, T, R, C_Q, z). The verifier
// accepts iff
//
//	z1*R + z2*H == T + c*(z*G + r*C_Q)
//
// which, expanding C_Q, holds exactly when s*R = z*G + r*Q and the claimed
// blinding factor is consistent with C_Q. When Q is disclosed, pass Q as C_Q
// and leave Rho unset.
package sig
