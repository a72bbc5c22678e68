// Package transcript implements the Fiat-Shamir transcripts that bind a proof
// challenge to every public value of the statement.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"hash"

	"github.com/gtank/merlin"
	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

// DefaultLabel initialises every transcript unless configured otherwise.
// Two implementations only interoperate if their labels are byte-identical.
const DefaultLabel = "QmxpdHpMZWFyaW5nWktQ"

// Kind selects a transcript construction.
type Kind string

const (
	// SHA256 feeds raw canonical encodings into one SHA-256 state.
	SHA256 Kind = "sha256"
	// Merlin uses a STROBE-based merlin transcript. It is a different
	// protocol and never verifies SHA256 proofs.
	Merlin Kind = "merlin"
)

var ErrUnknownKind = errors.New("transcript: unknown kind")

// Transcript is an ordered, domain-separated hash accumulator.
// Prover and verifier must append the same items in the same order.
type Transcript interface {
	// AppendPoint absorbs the canonical compressed encoding of p.
	AppendPoint(p curves.Point)

	// AppendScalar absorbs the fixed-width big-endian encoding of s.
	AppendScalar(s curves.Scalar)

	// AppendBytes absorbs auxiliary data, e.g. a session identifier.
	AppendBytes(label string, b []byte)

	// Challenge derives a scalar from the current state. Appends made
	// afterwards are still absorbed.
	Challenge() curves.Scalar
}

// New returns a transcript of the given kind.
func New(kind Kind, g curves.Group, label []byte) (Transcript, error) {
	switch kind {
	case SHA256, "":
		return NewSHA256(g, label), nil
	case Merlin:
		return NewMerlin(g, label), nil
	default:
		return nil, ErrUnknownKind
	}
}

type shaTranscript struct {
	g curves.Group
	h hash.Hash
}

// NewSHA256 returns the transcript used by the reference protocol:
// SHA-256(label || items...) reduced modulo the group order.
func NewSHA256(g curves.Group, label []byte) Transcript {
	h := sha256.New()
	h.Write(label)
	return &shaTranscript{g: g, h: h}
}

func (t *shaTranscript) AppendPoint(p curves.Point) {
	t.h.Write(p.Bytes())
}

func (t *shaTranscript) AppendScalar(s curves.Scalar) {
	t.h.Write(s.Bytes())
}

// AppendBytes is length-prefixed so that adjacent auxiliary items cannot be
// shifted into each other.
func (t *shaTranscript) AppendBytes(label string, b []byte) {
	t.h.Write(lengthPrefix(len(label)))
	t.h.Write([]byte(label))
	t.h.Write(lengthPrefix(len(b)))
	t.h.Write(b)
}

func (t *shaTranscript) Challenge() curves.Scalar {
	// Sum does not reset the running state.
	return t.g.ReduceBytes(t.h.Sum(nil))
}

type merlinTranscript struct {
	g curves.Group
	t *merlin.Transcript
}

// NewMerlin returns a merlin-backed transcript.
func NewMerlin(g curves.Group, label []byte) Transcript {
	return &merlinTranscript{g: g, t: merlin.NewTranscript(string(label))}
}

func (m *merlinTranscript) AppendPoint(p curves.Point) {
	m.t.AppendMessage([]byte("point"), p.Bytes())
}

func (m *merlinTranscript) AppendScalar(s curves.Scalar) {
	m.t.AppendMessage([]byte("scalar"), s.Bytes())
}

func (m *merlinTranscript) AppendBytes(label string, b []byte) {
	m.t.AppendMessage([]byte(label), b)
}

func (m *merlinTranscript) Challenge() curves.Scalar {
	return m.g.ReduceBytes(m.t.ExtractBytes([]byte("challenge"), m.g.ScalarSize()))
}

func lengthPrefix(n int) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(n))
}
