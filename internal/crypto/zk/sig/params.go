package sig

import (
	"crypto/rand"
	"io"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
	"github.com/smallyu/go-zkecdsa/internal/crypto/generator"
	"github.com/smallyu/go-zkecdsa/internal/crypto/transcript"
)

// Params fixes everything prover and verifier must agree on.
type Params struct {
	Group curves.Group
	H     curves.Point    // second generator
	Label []byte          // transcript domain separator
	Kind  transcript.Kind // transcript construction
	Rand  io.Reader       // prover randomness, crypto/rand by default
}

// Option configures Params.
type Option func(*Params)

// WithLabel overrides the transcript label.
func WithLabel(label []byte) Option {
	return func(p *Params) { p.Label = append([]byte(nil), label...) }
}

// WithTranscript selects the transcript construction.
func WithTranscript(kind transcript.Kind) Option {
	return func(p *Params) { p.Kind = kind }
}

// WithRand sets the prover's randomness source. It must be cryptographically
// secure; a predictable source leaks the witness and cannot be detected here.
func WithRand(r io.Reader) Option {
	return func(p *Params) { p.Rand = r }
}

// NewParams builds Params for g, deriving (or loading the cached) H.
func NewParams(g curves.Group, opts ...Option) (*Params, error) {
	if g == nil {
		return nil, ErrNilInput
	}
	H, err := generator.Second(g)
	if err != nil {
		return nil, err
	}

	p := &Params{
		Group: g,
		H:     H,
		Label: []byte(transcript.DefaultLabel),
		Kind:  transcript.SHA256,
		Rand:  rand.Reader,
	}
	for _, opt := range opts {
		opt(p)
	}

	if _, err := transcript.New(p.Kind, g, p.Label); err != nil {
		return nil, err
	}
	return p, nil
}

// challenge runs the transcript over (T, R, C_Q, z) in that order.
func (p *Params) challenge(T, R, CQ curves.Point, z curves.Scalar) (curves.Scalar, error) {
	t, err := transcript.New(p.Kind, p.Group, p.Label)
	if err != nil {
		return nil, err
	}
	t.AppendPoint(T)
	t.AppendPoint(R)
	t.AppendPoint(CQ)
	t.AppendScalar(z)
	return t.Challenge(), nil
}
