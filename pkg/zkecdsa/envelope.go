package zkecdsa

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/smallyu/go-zkecdsa/internal/crypto/zk/sig"
	"google.golang.org/protobuf/encoding/protowire"
)

// Envelope field numbers on the wire.
const (
	fieldCurve  protowire.Number = 1
	fieldHidden protowire.Number = 2
	fieldR      protowire.Number = 3
	fieldCQ     protowire.Number = 4
	fieldDigest protowire.Number = 5
	fieldProof  protowire.Number = 6
)

// Envelope carries a complete public statement and its proof between
// prover and verifier. Hidden marks CQ as a commitment rather than the key.
type Envelope struct {
	Curve  string
	Hidden bool
	R      []byte
	CQ     []byte
	Digest []byte
	Proof  []byte
}

// Seal encodes proof and its statement into an Envelope.
func (s *System) Seal(proof *Proof, z Scalar, R, CQ Point, hidden bool) (*Envelope, error) {
	if z == nil || R == nil || CQ == nil {
		return nil, sig.ErrNilInput
	}
	pb, err := proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Curve:  s.Curve(),
		Hidden: hidden,
		R:      R.Bytes(),
		CQ:     CQ.Bytes(),
		Digest: z.Bytes(),
		Proof:  pb,
	}, nil
}

// Statement decodes e against the system's group. Every failure is a
// *FieldError naming the offending field.
func (s *System) Statement(e *Envelope) (*sig.Statement, error) {
	if e == nil {
		return nil, fieldErr("envelope", sig.ErrNilInput)
	}
	if e.Curve != "" && e.Curve != s.Curve() {
		return nil, fieldErr("curve", ErrCurveMismatch)
	}
	g := s.params.Group

	R, err := g.NewPointFromBytes(e.R)
	if err != nil {
		return nil, fieldErr("r", fmt.Errorf("%w: %v", ErrInvalidEncoding, err))
	}
	CQ, err := g.NewPointFromBytes(e.CQ)
	if err != nil {
		return nil, fieldErr("cq", fmt.Errorf("%w: %v", ErrInvalidEncoding, err))
	}
	z, err := g.ScalarFromBytes(e.Digest)
	if err != nil {
		return nil, fieldErr("digest", fmt.Errorf("%w: %v", ErrInvalidEncoding, err))
	}
	proof, err := s.DecodeProof(e.Proof)
	if err != nil {
		return nil, err
	}
	return &sig.Statement{Proof: proof, Digest: z, R: R, CQ: CQ}, nil
}

// VerifyEnvelope reports whether e carries a valid proof. Undecodable
// envelopes are invalid.
func (s *System) VerifyEnvelope(e *Envelope) bool {
	st, err := s.Statement(e)
	if err != nil {
		return false
	}
	return st.Proof.Verify(s.params, st.Digest, st.R, st.CQ)
}

// VerifyEnvelopes verifies envelopes in parallel with at most limit workers.
// Undecodable envelopes are reported invalid; the only error is ctx's.
func (s *System) VerifyEnvelopes(ctx context.Context, envs []*Envelope, limit int) ([]bool, error) {
	stmts := make([]sig.Statement, len(envs))
	for i, e := range envs {
		if st, err := s.Statement(e); err == nil {
			stmts[i] = *st
		}
	}
	return sig.VerifyBatch(ctx, s.params, stmts, limit)
}

// MarshalBinary encodes the envelope in protobuf wire format.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	var b []byte
	if e.Curve != "" {
		b = protowire.AppendTag(b, fieldCurve, protowire.BytesType)
		b = protowire.AppendString(b, e.Curve)
	}
	if e.Hidden {
		b = protowire.AppendTag(b, fieldHidden, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(e.Hidden))
	}
	for _, f := range []struct {
		num protowire.Number
		val []byte
	}{
		{fieldR, e.R},
		{fieldCQ, e.CQ},
		{fieldDigest, e.Digest},
		{fieldProof, e.Proof},
	} {
		if len(f.val) == 0 {
			continue
		}
		b = protowire.AppendTag(b, f.num, protowire.BytesType)
		b = protowire.AppendBytes(b, f.val)
	}
	return b, nil
}

// UnmarshalEnvelope decodes the protobuf wire format. Unknown fields are skipped.
func UnmarshalEnvelope(b []byte) (*Envelope, error) {
	e := &Envelope{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldHidden && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, protowire.ParseError(m))
			}
			e.Hidden = protowire.DecodeBool(v)
			n = m
		case num >= fieldCurve && num <= fieldProof && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, protowire.ParseError(m))
			}
			e.set(num, v)
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return e, nil
}

func (e *Envelope) set(num protowire.Number, v []byte) {
	cp := append([]byte(nil), v...)
	switch num {
	case fieldCurve:
		e.Curve = string(cp)
	case fieldR:
		e.R = cp
	case fieldCQ:
		e.CQ = cp
	case fieldDigest:
		e.Digest = cp
	case fieldProof:
		e.Proof = cp
	}
}

type envelopeJSON struct {
	Curve  string `json:"curve,omitempty"`
	Hidden bool   `json:"hidden"`
	R      string `json:"r"`
	CQ     string `json:"cq"`
	Digest string `json:"digest"`
	Proof  string `json:"proof"`
}

// MarshalJSON encodes byte fields as hex strings.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{
		Curve:  e.Curve,
		Hidden: e.Hidden,
		R:      hex.EncodeToString(e.R),
		CQ:     hex.EncodeToString(e.CQ),
		Digest: hex.EncodeToString(e.Digest),
		Proof:  hex.EncodeToString(e.Proof),
	})
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var aux envelopeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	out := Envelope{Curve: aux.Curve, Hidden: aux.Hidden}
	for _, f := range []struct {
		name string
		src  string
		dst  *[]byte
	}{
		{"r", aux.R, &out.R},
		{"cq", aux.CQ, &out.CQ},
		{"digest", aux.Digest, &out.Digest},
		{"proof", aux.Proof, &out.Proof},
	} {
		v, err := hex.DecodeString(f.src)
		if err != nil {
			return fieldErr(f.name, fmt.Errorf("%w: %v", ErrInvalidEncoding, err))
		}
		*f.dst = v
	}
	*e = out
	return nil
}
