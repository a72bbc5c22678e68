package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/smallyu/go-zkecdsa/pkg/zkecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sealedEnvelope(t *testing.T, sys *zkecdsa.System, msg string) *zkecdsa.Envelope {
	t.Helper()
	d, Q, err := sys.GenerateKeys()
	require.NoError(t, err)
	z := sys.HashMessage([]byte(msg))
	sig, err := sys.Sign(d, z)
	require.NoError(t, err)
	C, rho, err := sys.CommitToPublicKey(Q)
	require.NoError(t, err)
	proof, err := sys.GenerateProof(&zkecdsa.Witness{S: sig.S, Rho: rho}, sig.R, C, z)
	require.NoError(t, err)
	env, err := sys.Seal(proof, z, sig.R, C, true)
	require.NoError(t, err)
	return env
}

func newTestServer(t *testing.T) (*server, *zkecdsa.System) {
	t.Helper()
	sys, err := zkecdsa.Default()
	require.NoError(t, err)
	return newServer(sys, zap.NewNop(), 2), sys
}

func do(s *server, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"secp256k1"`)
}

func TestVerifyJSON(t *testing.T) {
	s, sys := newTestServer(t)
	env := sealedEnvelope(t, sys, "json body")
	body, err := json.Marshal(env)
	require.NoError(t, err)

	rec := do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp verifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "secp256k1", resp.Curve)
}

func TestVerifyProtobuf(t *testing.T) {
	s, sys := newTestServer(t)
	env := sealedEnvelope(t, sys, "protobuf body")
	body, err := env.MarshalBinary()
	require.NoError(t, err)

	rec := do(s, http.MethodPost, "/v1/verify", mimeProtobuf, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
}

func TestVerifyProtobufWithParameters(t *testing.T) {
	s, sys := newTestServer(t)
	env := sealedEnvelope(t, sys, "protobuf with parameters")
	body, err := env.MarshalBinary()
	require.NoError(t, err)

	for _, ct := range []string{"application/x-protobuf; charset=binary", "Application/X-Protobuf"} {
		rec := do(s, http.MethodPost, "/v1/verify", ct, body)
		require.Equal(t, http.StatusOK, rec.Code, ct)
		assert.Contains(t, rec.Body.String(), `"valid":true`, ct)
	}
}

func TestIsProtobuf(t *testing.T) {
	assert.True(t, isProtobuf("application/x-protobuf"))
	assert.True(t, isProtobuf("application/x-protobuf; charset=binary"))
	assert.False(t, isProtobuf("application/json"))
	assert.False(t, isProtobuf(""))
}

func TestVerifyInvalidProof(t *testing.T) {
	s, sys := newTestServer(t)
	env := sealedEnvelope(t, sys, "original")
	env.Digest = sys.HashMessage([]byte("forged")).Bytes()
	body, _ := json.Marshal(env)

	rec := do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
}

func TestVerifyMalformed(t *testing.T) {
	s, sys := newTestServer(t)

	rec := do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := sealedEnvelope(t, sys, "m")
	env.R = env.R[:5]
	body, _ := json.Marshal(env)
	rec = do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "r", resp.Field)

	rec = do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, bytes.Repeat([]byte{' '}, maxEnvelopeBytes+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyBatch(t *testing.T) {
	s, sys := newTestServer(t)
	good := sealedEnvelope(t, sys, "a")
	bad := sealedEnvelope(t, sys, "b")
	bad.Digest = good.Digest

	body, err := json.Marshal(batchRequest{Envelopes: []*zkecdsa.Envelope{good, bad, good}})
	require.NoError(t, err)
	rec := do(s, http.MethodPost, "/v1/verify/batch", echo.MIMEApplicationJSON, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []bool{true, false, true}, resp.Results)
}

func TestMetrics(t *testing.T) {
	s, sys := newTestServer(t)
	body, _ := json.Marshal(sealedEnvelope(t, sys, "metrics"))
	do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, body)
	do(s, http.MethodPost, "/v1/verify", echo.MIMEApplicationJSON, []byte("{"))

	rec := do(s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.True(t, strings.Contains(out, `zkecdsa_verifications_total{curve="secp256k1",result="valid"} 1`), out)
	assert.True(t, strings.Contains(out, `zkecdsa_verifications_total{curve="secp256k1",result="malformed"} 1`), out)
	assert.Contains(t, out, "zkecdsa_verify_duration_seconds_count 1")
}
