package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/smallyu/go-zkecdsa/pkg/zkecdsa"
	"go.uber.org/zap"
)

// keyFile is the on-disk form of a key pair. The secret is hex encoded.
type keyFile struct {
	Curve  string `json:"curve"`
	Secret string `json:"secret"`
	Public string `json:"public"`
}

type env struct {
	cfg *Config
	sys *zkecdsa.System
	log *zap.Logger
}

func setup(cfg *Config) (*env, error) {
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	sys, err := cfg.System()
	if err != nil {
		return nil, fmt.Errorf("creating proof system: %w", err)
	}
	return &env{cfg: cfg, sys: sys, log: logger}, nil
}

func runKeygen(args []string, stdout io.Writer) error {
	fs, configFile := newFlagSet("keygen")
	out := fs.String("out", "", "write the key file here instead of stdout")
	cfg, err := readConfig(fs, configFile, args, nil)
	if err != nil {
		return err
	}
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	d, Q, err := e.sys.GenerateKeys()
	if err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}
	kf := keyFile{
		Curve:  e.sys.Curve(),
		Secret: hex.EncodeToString(d.Bytes()),
		Public: hex.EncodeToString(Q.Bytes()),
	}
	d.Zero()

	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := writeOutput(*out, data, stdout, 0o600); err != nil {
		return err
	}
	e.log.Info("generated key pair", zap.String("curve", kf.Curve), zap.String("public", kf.Public))
	return nil
}

func runProve(args []string, stdout io.Writer) error {
	fs, configFile := newFlagSet("prove")
	keyPath := fs.String("key", "", "key file produced by keygen")
	message := fs.String("message", "", "message to sign and prove")
	plain := fs.Bool("plain", false, "disclose the public key instead of committing to it")
	format := fs.String("format", "binary", "envelope format: binary or json")
	out := fs.String("out", "", "write the envelope here instead of stdout")
	cfg, err := readConfig(fs, configFile, args, nil)
	if err != nil {
		return err
	}
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	if *keyPath == "" {
		return fmt.Errorf("prove: -key is required")
	}
	d, Q, err := e.loadKey(*keyPath)
	if err != nil {
		return err
	}
	defer d.Zero()

	z := e.sys.HashMessage([]byte(*message))
	sig, err := e.sys.Sign(d, z)
	if err != nil {
		return fmt.Errorf("signing: %w", err)
	}

	w := &zkecdsa.Witness{S: sig.S}
	CQ := Q
	if !*plain {
		C, rho, err := e.sys.CommitToPublicKey(Q)
		if err != nil {
			return fmt.Errorf("committing to public key: %w", err)
		}
		w.Rho = rho
		CQ = C
	}
	proof, err := e.sys.GenerateProof(w, sig.R, CQ, z)
	w.Zero()
	if err != nil {
		return fmt.Errorf("generating proof: %w", err)
	}

	envelope, err := e.sys.Seal(proof, z, sig.R, CQ, !*plain)
	if err != nil {
		return err
	}
	data, err := encodeEnvelope(envelope, *format)
	if err != nil {
		return err
	}
	if err := writeOutput(*out, data, stdout, 0o644); err != nil {
		return err
	}
	e.log.Info("generated proof",
		zap.String("curve", envelope.Curve),
		zap.Bool("hidden", envelope.Hidden),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func runVerify(args []string, stdout io.Writer) error {
	fs, configFile := newFlagSet("verify")
	in := fs.String("in", "", "envelope file (binary or json), stdin when empty")
	message := fs.String("message", "", "when set, the envelope digest must be the hash of this message")
	cfg, err := readConfig(fs, configFile, args, nil)
	if err != nil {
		return err
	}
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	var data []byte
	if *in == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*in)
	}
	if err != nil {
		return fmt.Errorf("reading envelope: %w", err)
	}
	envelope, err := decodeEnvelope(data)
	if err != nil {
		return err
	}

	valid := e.sys.VerifyEnvelope(envelope)
	if valid && *message != "" {
		want := e.sys.HashMessage([]byte(*message)).Bytes()
		valid = bytes.Equal(want, envelope.Digest)
	}
	e.log.Info("verified proof", zap.String("curve", envelope.Curve), zap.Bool("valid", valid))

	if !valid {
		fmt.Fprintln(stdout, "invalid")
		return errInvalidProof
	}
	fmt.Fprintln(stdout, "valid")
	return nil
}

func (e *env) loadKey(path string) (zkecdsa.Scalar, zkecdsa.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, nil, fmt.Errorf("decoding key file: %w", err)
	}
	if kf.Curve != e.sys.Curve() {
		return nil, nil, &zkecdsa.FieldError{Field: "curve", Err: zkecdsa.ErrCurveMismatch}
	}
	g := e.sys.Group()

	raw, err := hex.DecodeString(kf.Secret)
	if err != nil {
		return nil, nil, &zkecdsa.FieldError{Field: "secret", Err: zkecdsa.ErrInvalidEncoding}
	}
	d, err := g.ScalarFromBytes(raw)
	if err != nil || d.IsZero() {
		return nil, nil, &zkecdsa.FieldError{Field: "secret", Err: zkecdsa.ErrInvalidEncoding}
	}
	Q := g.BasePoint().ScalarMult(d)

	if kf.Public != "" && kf.Public != hex.EncodeToString(Q.Bytes()) {
		return nil, nil, &zkecdsa.FieldError{Field: "public", Err: zkecdsa.ErrInvalidEncoding}
	}
	return d, Q, nil
}

func encodeEnvelope(e *zkecdsa.Envelope, format string) ([]byte, error) {
	switch format {
	case "binary":
		return e.MarshalBinary()
	case "json":
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// decodeEnvelope accepts either encoding. A JSON document starts with '{';
// envelopes from MarshalBinary start with the curve tag 0x0a.
func decodeEnvelope(data []byte) (*zkecdsa.Envelope, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var e zkecdsa.Envelope
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, fmt.Errorf("decoding json envelope: %w", err)
		}
		return &e, nil
	}
	return zkecdsa.UnmarshalEnvelope(data)
}

func writeOutput(path string, data []byte, stdout io.Writer, perm os.FileMode) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, perm)
}
