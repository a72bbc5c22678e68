package sig

import (
	"testing"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

func FuzzUnmarshalProof(f *testing.F) {
	g := curves.NewSecp256k1()
	params, err := NewParams(g)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(make([]byte, Size(g)))
	f.Add([]byte{0x02})

	G := g.BasePoint()
	z := g.NewScalarFromUint64(1)

	f.Fuzz(func(t *testing.T, data []byte) {
		proof, err := UnmarshalProof(g, data)
		if err != nil {
			return
		}
		// Garbage proofs must never verify and never panic.
		if proof.Verify(params, z, G, G) {
			t.Fatal("random proof verified")
		}
	})
}
