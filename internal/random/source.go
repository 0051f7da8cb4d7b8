// Package random provides the injectable random source used by spawning.
package random

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source yields uniform values in [0, 1).
// *rand.Rand satisfies it, as do scripted sources in tests.
type Source interface {
	Float64() float64
}

// New returns a PCG-backed source. A zero seed draws a random one.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = rand.Int64()
	}
	// Non-cryptographic PRNG is intentional: runs are replayable by seed.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "spawn"), seedWord(seed, "lane")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Sequence replays fixed values in order and then repeats the last one.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence creates a scripted source.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next scripted value.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos]
	if s.pos < len(s.values)-1 {
		s.pos++
	}
	return v
}
