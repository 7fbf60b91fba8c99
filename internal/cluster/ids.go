package cluster

import (
	"fmt"
	"math/rand/v2"
)

// Identifier strategies accepted by NewIDGenerator.
const (
	IDStrategyRandom     = "random"
	IDStrategySequential = "sequential"
)

// MaxRandomID bounds identifiers drawn by RandomIDs: [0, MaxRandomID).
const MaxRandomID = 10000

// IDGenerator hands out F_ID values, one call per cluster.
type IDGenerator interface {
	Next() int
}

// RandomIDs draws identifiers uniformly from [0, MaxRandomID).
// Collisions between clusters are possible.
type RandomIDs struct {
	rng *rand.Rand
}

// NewRandomIDs creates a RandomIDs. A zero seed selects a random seed.
func NewRandomIDs(seed uint64) *RandomIDs {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomIDs{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns the next random identifier.
func (r *RandomIDs) Next() int {
	return r.rng.IntN(MaxRandomID)
}

// SequentialIDs yields 1, 2, 3, ... and is unique for the lifetime of the generator.
type SequentialIDs struct {
	next int
}

// NewSequentialIDs creates a SequentialIDs starting at 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{next: 1}
}

// Next returns the next identifier.
func (s *SequentialIDs) Next() int {
	id := s.next
	s.next++
	return id
}

// NewIDGenerator builds the generator for a named strategy.
// The seed only applies to the random strategy.
func NewIDGenerator(strategy string, seed uint64) (IDGenerator, error) {
	switch strategy {
	case IDStrategyRandom, "":
		return NewRandomIDs(seed), nil
	case IDStrategySequential:
		return NewSequentialIDs(), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

var (
	_ IDGenerator = (*RandomIDs)(nil)
	_ IDGenerator = (*SequentialIDs)(nil)
)
