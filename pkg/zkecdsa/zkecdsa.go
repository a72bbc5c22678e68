// Package zkecdsa proves that an ECDSA signature over a message digest
// verifies under a public key that is either disclosed or hidden behind a
// Pedersen commitment, without revealing the signature scalar.
//
// The package-level functions run on the default secp256k1 system with the
// SHA-256 transcript, which interoperates with other implementations using
// the same label. New builds systems over other curves or transcripts.
package zkecdsa

import (
	"crypto/sha256"
	"sync"

	"github.com/smallyu/go-zkecdsa/internal/crypto/commitment"
	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"github.com/smallyu/go-zkecdsa/internal/crypto/transcript"
	"github.com/smallyu/go-zkecdsa/internal/crypto/zk/sig"
	"github.com/smallyu/go-zkecdsa/internal/signer"
)

type (
	Point     = curves.Point
	Scalar    = curves.Scalar
	Group     = curves.Group
	Proof     = sig.Proof
	Witness   = sig.Witness
	Signature = signer.Signature
)

// Config selects the group and transcript of a System.
type Config struct {
	Curve      string // "secp256k1" (default) or "ed25519"
	Transcript string // "sha256" (default) or "merlin"
	Label      string // transcript label, DefaultLabel when empty
}

// DefaultLabel is the interoperable transcript label.
const DefaultLabel = transcript.DefaultLabel

// System is an immutable, concurrency-safe proof context.
type System struct {
	params *sig.Params
}

// New builds a System. It fails with ErrUnknownCurve, ErrUnknownTranscript or
// ErrGeneratorExhausted.
func New(cfg Config) (*System, error) {
	g, err := curves.ByName(cfg.Curve)
	if err != nil {
		return nil, fieldErr("curve", err)
	}
	kind := transcript.Kind(cfg.Transcript)
	if kind == "" {
		kind = transcript.SHA256
	}
	opts := []sig.Option{sig.WithTranscript(kind)}
	if cfg.Label != "" {
		opts = append(opts, sig.WithLabel([]byte(cfg.Label)))
	}
	params, err := sig.NewParams(g, opts...)
	if err != nil {
		return nil, err
	}
	return &System{params: params}, nil
}

var (
	defaultOnce sync.Once
	defaultSys  *System
	defaultErr  error
)

// Default returns the shared secp256k1/SHA-256 system.
func Default() (*System, error) {
	defaultOnce.Do(func() {
		defaultSys, defaultErr = New(Config{})
	})
	return defaultSys, defaultErr
}

// Group returns the system's algebra.
func (s *System) Group() Group { return s.params.Group }

// H returns the second generator used by commitments and proofs.
func (s *System) H() Point { return s.params.H }

// Curve returns the name of the system's group.
func (s *System) Curve() string { return s.params.Group.Name() }

// GenerateKeys returns a fresh secret d and public key Q = d*G.
func (s *System) GenerateKeys() (Scalar, Point, error) {
	return signer.GenerateKeys(s.params.Group)
}

// CommitToPublicKey hides Q as C = Q + rho*H and returns (C, rho).
func (s *System) CommitToPublicKey(Q Point) (Point, Scalar, error) {
	c, err := commitment.Commit(s.params.Group, s.params.H, Q, s.params.Rand)
	if err != nil {
		return nil, nil, err
	}
	return c.C, c.Rho, nil
}

// OpenCommitment reports whether (C, rho) opens to Q.
func (s *System) OpenCommitment(C Point, rho Scalar, Q Point) bool {
	return commitment.Verify(C, rho, s.params.H, Q)
}

// HashMessage maps a message to a digest scalar: SHA-256 reduced mod n.
func (s *System) HashMessage(msg []byte) Scalar {
	sum := sha256.Sum256(msg)
	return s.params.Group.ReduceBytes(sum[:])
}

// Sign produces an ECDSA signature (R, s) on digest z under d.
func (s *System) Sign(d, z Scalar) (*Signature, error) {
	return signer.Sign(s.params.Group, d, z, s.params.Rand)
}

// GenerateProof proves knowledge of w for the statement (R, CQ, z). Pass a
// witness with a nil Rho and CQ = Q to prove against a disclosed key.
func (s *System) GenerateProof(w *Witness, R, CQ Point, z Scalar) (*Proof, error) {
	return sig.Prove(s.params, w, R, CQ, z)
}

// VerifyProof checks proof against (z, R, CQ).
func (s *System) VerifyProof(proof *Proof, z Scalar, R, CQ Point) bool {
	return proof.Verify(s.params, z, R, CQ)
}

// DecodeProof parses the T || z1 || z2 encoding.
func (s *System) DecodeProof(b []byte) (*Proof, error) {
	p, err := sig.UnmarshalProof(s.params.Group, b)
	if err != nil {
		return nil, fieldErr("proof", ErrInvalidEncoding)
	}
	return p, nil
}

// GenerateKeys runs on the default system.
func GenerateKeys() (Scalar, Point, error) {
	s, err := Default()
	if err != nil {
		return nil, nil, err
	}
	return s.GenerateKeys()
}

// CommitToPublicKey runs on the default system.
func CommitToPublicKey(Q Point) (Point, Scalar, error) {
	s, err := Default()
	if err != nil {
		return nil, nil, err
	}
	return s.CommitToPublicKey(Q)
}

// GenerateProof runs on the default system.
func GenerateProof(w *Witness, R, CQ Point, z Scalar) (*Proof, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	return s.GenerateProof(w, R, CQ, z)
}

// VerifyProof runs on the default system.
func VerifyProof(proof *Proof, z Scalar, R, CQ Point) bool {
	s, err := Default()
	if err != nil {
		return false
	}
	return s.VerifyProof(proof, z, R, CQ)
}

// HashMessage runs on the default system.
func HashMessage(msg []byte) Scalar {
	s, err := Default()
	if err != nil {
		return nil
	}
	return s.HashMessage(msg)
}
