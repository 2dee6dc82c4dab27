package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorDeterministicForSeed(t *testing.T) {
	a := NewGenerator(1)
	b := NewGenerator(1)

	for i := 0; i < 50; i++ {
		require.Equal(t, a.Next(), b.Next(), "draw %d diverged", i)
	}
}

func TestGeneratorDependsOnlyOnSeedAndDrawCount(t *testing.T) {
	a := NewGenerator(42)
	for i := 0; i < 10; i++ {
		a.Next()
	}

	b := NewGenerator(42)
	peeked := b.Peek(10)
	assert.Len(t, peeked, 10)

	// b has not consumed any draws yet; after consuming the same number of
	// draws it must match a's next value.
	for i := 0; i < 10; i++ {
		b.Next()
	}
	assert.Equal(t, a.Next(), b.Next())
}

func TestGeneratorEachBagIsAPermutation(t *testing.T) {
	g := NewGenerator(7)
	seen := make(map[Kind]int)
	for i := 0; i < kindCount; i++ {
		seen[g.Next()]++
	}
	for _, k := range allKinds {
		assert.Equal(t, 1, seen[k], "kind %v should appear exactly once per bag", k)
	}
}

func TestGeneratorPeekDoesNotMutate(t *testing.T) {
	g := NewGenerator(99)
	before := g.Peek(5)
	after := g.Peek(5)
	assert.Equal(t, before, after)

	// Next() after two identical peeks should reproduce the first peeked
	// value, proving Peek had no side effect.
	assert.Equal(t, before[0], g.Next())
}
