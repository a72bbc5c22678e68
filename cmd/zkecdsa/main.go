// Command zkecdsa generates keys, produces and checks signature-knowledge
// proofs, and serves a verification endpoint.
//
//	zkecdsa keygen -out key.json
//	zkecdsa prove  -key key.json -message "hello" -out proof.bin
//	zkecdsa verify -in proof.bin -message "hello"
//	zkecdsa serve  -listen :8080
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	errUsage        = errors.New("usage: zkecdsa <keygen|prove|verify|serve> [flags]")
	errInvalidProof = errors.New("proof is invalid")
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "zkecdsa:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "keygen":
		return runKeygen(args[1:], stdout)
	case "prove":
		return runProve(args[1:], stdout)
	case "verify":
		return runVerify(args[1:], stdout)
	case "serve":
		return runServe(args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}
