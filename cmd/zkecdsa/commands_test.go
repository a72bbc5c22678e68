package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProveVerifyRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name   string
		system []string
		prove  []string
	}{
		{"hidden-binary", nil, nil},
		{"plain-json", nil, []string{"-plain", "-format", "json"}},
		{"ed25519-merlin", []string{"-curve", "ed25519", "-transcript", "merlin"}, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			keyPath := filepath.Join(dir, "key.json")
			proofPath := filepath.Join(dir, "proof")
			base := append([]string{"-log-level", "error"}, tc.system...)

			var out bytes.Buffer
			require.NoError(t, run(append([]string{"keygen", "-out", keyPath}, base...), &out))

			args := append([]string{"prove", "-key", keyPath, "-message", "hello", "-out", proofPath}, base...)
			require.NoError(t, run(append(args, tc.prove...), &out))

			out.Reset()
			require.NoError(t, run(append([]string{"verify", "-in", proofPath, "-message", "hello"}, base...), &out))
			assert.Equal(t, "valid\n", out.String())

			out.Reset()
			err := run(append([]string{"verify", "-in", proofPath, "-message", "goodbye"}, base...), &out)
			assert.ErrorIs(t, err, errInvalidProof)
			assert.Equal(t, "invalid\n", out.String())
		})
	}
}

func TestProveRejectsKeyFromOtherCurve(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.json")
	var out bytes.Buffer
	require.NoError(t, run([]string{"keygen", "-out", keyPath, "-curve", "ed25519", "-log-level", "error"}, &out))

	err := run([]string{"prove", "-key", keyPath, "-message", "m", "-log-level", "error"}, &out)
	assert.Error(t, err)
}

func TestKeygenWritesPrivateFile(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, run([]string{"keygen", "-out", keyPath, "-log-level", "error"}, &bytes.Buffer{}))
	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRunUsage(t *testing.T) {
	assert.ErrorIs(t, run(nil, &bytes.Buffer{}), errUsage)
	assert.ErrorIs(t, run([]string{"sign"}, &bytes.Buffer{}), errUsage)
}
