package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreClearBaseTable(t *testing.T) {
	ctx := ScoringContext{ComboIndex: -1}
	cases := []struct {
		lines int
		want  uint64
	}{
		{1, 40},
		{2, 100},
		{3, 300},
		{4, 1200},
	}
	for _, c := range cases {
		delta, combo, b2b := ScoreClear(c.lines, TSpinNone, ctx, 0)
		assert.Equal(t, c.want, delta, "lines=%d", c.lines)
		assert.Equal(t, int32(0), combo)
		assert.Equal(t, c.lines == 4, b2b)
	}
}

func TestScoreClearLevelMultiplier(t *testing.T) {
	ctx := ScoringContext{ComboIndex: -1}
	delta, _, _ := ScoreClear(1, TSpinNone, ctx, 3)
	assert.Equal(t, uint64(40*4), delta)
}

func TestScoreClearTSpinReplacesBaseTable(t *testing.T) {
	ctx := ScoringContext{ComboIndex: -1}

	delta, _, b2b := ScoreClear(1, TSpinFull, ctx, 0)
	assert.Equal(t, uint64(800), delta)
	assert.True(t, b2b)

	delta, _, b2b = ScoreClear(1, TSpinMini, ctx, 0)
	assert.Equal(t, uint64(200), delta)
	assert.False(t, b2b)

	delta, combo, b2b := ScoreClear(0, TSpinFull, ctx, 0)
	assert.Equal(t, uint64(400), delta, "a zero-line T-spin still scores its base value")
	assert.Equal(t, int32(-1), combo, "no lines cleared resets combo to the no-combo sentinel")
	assert.False(t, b2b)
}

func TestScoreClearBackToBackMultiplier(t *testing.T) {
	ctx := ScoringContext{ComboIndex: -1, B2BActive: true}
	delta, _, b2b := ScoreClear(4, TSpinNone, ctx, 0)
	assert.Equal(t, uint64(1200*3/2), delta)
	assert.True(t, b2b)

	// A non-qualifying clear (single/double/triple, no T-spin) does not
	// receive the B2B multiplier even while a streak is active, but it does
	// break the streak.
	delta, _, b2b = ScoreClear(1, TSpinNone, ctx, 0)
	assert.Equal(t, uint64(40), delta)
	assert.False(t, b2b)
}

func TestScoreClearComboEscalates(t *testing.T) {
	ctx := ScoringContext{ComboIndex: -1}

	_, combo, _ := ScoreClear(1, TSpinNone, ctx, 0)
	assert.Equal(t, int32(0), combo)

	ctx.ComboIndex = combo
	delta, combo, _ := ScoreClear(1, TSpinNone, ctx, 0)
	assert.Equal(t, int32(1), combo)
	assert.Equal(t, uint64(40+50), delta)

	ctx.ComboIndex = combo
	delta, combo, _ = ScoreClear(1, TSpinNone, ctx, 0)
	assert.Equal(t, int32(2), combo)
	assert.Equal(t, uint64(40+100), delta)
}

func TestScoreClearNoLinesResetsCombo(t *testing.T) {
	ctx := ScoringContext{ComboIndex: 4, B2BActive: true}
	delta, combo, b2b := ScoreClear(0, TSpinNone, ctx, 0)
	assert.Equal(t, uint64(0), delta)
	assert.Equal(t, int32(-1), combo)
	assert.True(t, b2b, "a non-clearing lock does not itself break an existing back-to-back streak")
}
