package engine

// Generator produces a deterministic stream of piece kinds via a 7-bag
// shuffled by a seeded linear-congruential generator (spec.md §4.1). It is a
// pure function of the seed and the number of prior draws: two Generators
// built from the same seed and advanced by the same number of Next() calls
// always agree.
//
// Grounded on GITRIS-backend's generatePieceQueue/GetNextPieceFromQueue
// (internal/services/tetris/game_state.go), which drives a 7-bag queue off
// *rand.Rand; this repo replaces that non-reproducible PRNG with the
// explicit 32-bit LCG spec.md §4.1 mandates, since cross-implementation
// determinism is the whole point of this component (spec.md §9 "Open
// questions" flags the LCG→index mapping as the detail most likely to
// silently diverge between implementations).
type Generator struct {
	state uint32
	bag   []Kind
	drawn int
}

// NewGenerator seeds a Generator with state0 = seed.
func NewGenerator(seed uint32) *Generator {
	return &Generator{state: seed}
}

// lcgNext advances the LCG state and returns the new value.
// state(n+1) = (1664525*state(n) + 1013904223) mod 2^32.
func (g *Generator) lcgNext() uint32 {
	g.state = g.state*1664525 + 1013904223
	return g.state
}

// fillBag performs a Fisher-Yates shuffle of the seven piece kinds using
// successive LCG outputs as the index source. For each position i from
// len-1 down to 1, the swap partner is lcgOutput mod (i+1) — the simplest
// reproducible reduction of a 32-bit LCG output into [0, i], chosen as the
// canonical mapping per spec.md §9 since no other implementation detail is
// available to disambiguate it.
func (g *Generator) fillBag() {
	bag := allKinds
	for i := len(bag) - 1; i > 0; i-- {
		j := int(g.lcgNext() % uint32(i+1))
		bag[i], bag[j] = bag[j], bag[i]
	}
	g.bag = append(g.bag, bag[:]...)
}

// Next returns the next piece kind in the stream and consumes it.
func (g *Generator) Next() Kind {
	if len(g.bag) == 0 {
		g.fillBag()
	}
	k := g.bag[0]
	g.bag = g.bag[1:]
	g.drawn++
	return k
}

// Peek returns the next n piece kinds without mutating the generator's
// observable draw count.
func (g *Generator) Peek(n int) []Kind {
	clone := &Generator{state: g.state, bag: append([]Kind(nil), g.bag...)}
	out := make([]Kind, n)
	for i := 0; i < n; i++ {
		out[i] = clone.Next()
	}
	return out
}
