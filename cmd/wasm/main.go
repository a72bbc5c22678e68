//go:build js && wasm

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-zkecdsa/pkg/zkecdsa"
)

// Secret keys never leave the module. JS holds the public key hex as a handle.
var keys = make(map[string]zkecdsa.Scalar)

var sys *zkecdsa.System

func main() {
	c := make(chan struct{}, 0)

	var err error
	sys, err = zkecdsa.Default()
	if err != nil {
		fmt.Println("ZK-ECDSA WASM init failed:", err)
		return
	}
	fmt.Println("ZK-ECDSA WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("ZKECDSA", map[string]interface{}{
		"GenerateKeys": js.FuncOf(GenerateKeys),
		"Prove":        js.FuncOf(Prove),
		"Verify":       js.FuncOf(Verify),
		"Forget":       js.FuncOf(Forget),
	})

	<-c
}

// GenerateKeys creates a key pair inside the module.
// Returns:
// Public key hex (string), the handle for Prove
func GenerateKeys(this js.Value, args []js.Value) interface{} {
	d, Q, err := sys.GenerateKeys()
	if err != nil {
		return fmt.Sprintf("error: keygen failed: %v", err)
	}
	handle := hex.EncodeToString(Q.Bytes())
	keys[handle] = d
	return handle
}

// Prove signs a message with a stored key and proves the signature.
// Arguments:
// 0: JSON string {"key": "<public hex>", "message": "...", "plain": false}
// Returns:
// JSON envelope (string) or error string
func Prove(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	type ProveInput struct {
		Key     string `json:"key"`
		Message string `json:"message"`
		Plain   bool   `json:"plain"`
	}

	var input ProveInput
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	d, ok := keys[input.Key]
	if !ok {
		return "error: key not found"
	}
	Q := sys.Group().BasePoint().ScalarMult(d)

	z := sys.HashMessage([]byte(input.Message))
	sig, err := sys.Sign(d, z)
	if err != nil {
		return fmt.Sprintf("error: sign failed: %v", err)
	}

	w := &zkecdsa.Witness{S: sig.S}
	CQ := Q
	if !input.Plain {
		C, rho, err := sys.CommitToPublicKey(Q)
		if err != nil {
			return fmt.Sprintf("error: commit failed: %v", err)
		}
		w.Rho, CQ = rho, C
	}

	proof, err := sys.GenerateProof(w, sig.R, CQ, z)
	w.Zero()
	if err != nil {
		return fmt.Sprintf("error: prove failed: %v", err)
	}

	envelope, err := sys.Seal(proof, z, sig.R, CQ, !input.Plain)
	if err != nil {
		return fmt.Sprintf("error: seal failed: %v", err)
	}
	b, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Sprintf("error: marshal envelope failed: %v", err)
	}
	return string(b)
}

// Verify checks a JSON envelope.
// Arguments:
// 0: JSON envelope string
// Returns:
// bool or error string when the envelope does not decode
func Verify(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonEnvelope)"
	}
	var envelope zkecdsa.Envelope
	if err := json.Unmarshal([]byte(args[0].String()), &envelope); err != nil {
		return fmt.Sprintf("error: invalid envelope: %v", err)
	}
	st, err := sys.Statement(&envelope)
	if err != nil {
		return fmt.Sprintf("error: invalid envelope: %v", err)
	}
	return sys.VerifyProof(st.Proof, st.Digest, st.R, st.CQ)
}

// Forget wipes and drops a stored key.
// Arguments:
// 0: Public key hex
func Forget(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (key)"
	}
	handle := args[0].String()
	if d, ok := keys[handle]; ok {
		d.Zero()
		delete(keys, handle)
	}
	return nil
}
