// Package generator derives the second, nothing-up-my-sleeve basis point H
// used by the Pedersen commitment to a public key.
//
// H is found by try-and-increment: SHA-256(seed || counter) is read as the
// x-coordinate of a compressed point with even parity until it decodes.
// Nobody knows log_G(H) because nobody chose it.
package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/smallyu/go-zkecdsa/internal/crypto/curves"
)

// MaxAttempts caps the try-and-increment loop.
const MaxAttempts = 1_000_000

// SeedPrefix is prepended to the group name to form the derivation seed.
// Changing it changes H and breaks every existing commitment and proof.
const SeedPrefix = "zk-ecdsa-attest/second-generator/"

// ErrExhausted is returned when no candidate decodes within MaxAttempts.
var ErrExhausted = errors.New("generator: retry cap exhausted")

// Seed returns the derivation seed for g.
func Seed(g curves.Group) []byte {
	return []byte(SeedPrefix + g.Name())
}

// Derive computes H for g from scratch. It is pure: every call, in every
// process, returns the same point.
func Derive(g curves.Group) (curves.Point, error) {
	return derive(Seed(g), MaxAttempts, g.PointFromHash)
}

func derive(seed []byte, limit uint32, decode func([]byte) (curves.Point, error)) (curves.Point, error) {
	buf := make([]byte, len(seed)+4)
	copy(buf, seed)

	for counter := uint32(0); counter < limit; counter++ {
		binary.BigEndian.PutUint32(buf[len(seed):], counter)
		digest := sha256.Sum256(buf)
		p, err := decode(digest[:])
		if err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrExhausted, limit)
}

type cached struct {
	once sync.Once
	h    curves.Point
	err  error
}

var cache sync.Map // group name -> *cached

// Second returns the memoized H for g. The first caller for a given group
// computes it; concurrent callers block on the same sync.Once and read the
// cached value afterwards.
func Second(g curves.Group) (curves.Point, error) {
	v, _ := cache.LoadOrStore(g.Name(), &cached{})
	c := v.(*cached)
	c.once.Do(func() {
		c.h, c.err = Derive(g)
	})
	return c.h, c.err
}
