package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateCwSucceedsOnOpenBoard(t *testing.T) {
	s := NewState(1)
	s.HasActive = true
	s.Active = ActivePiece{Kind: T, Rotation: North, X: 4, Y: 5}

	require.True(t, s.ApplyAction(ActionRotateCw))
	assert.Equal(t, East, s.Active.Rotation)
}

func TestRotateFailsWhenEveryKickCollidesWithTheStack(t *testing.T) {
	s := NewState(1)
	s.HasActive = true
	s.Active = ActivePiece{Kind: T, Rotation: North, X: 4, Y: 10}

	// Fill the whole board so every kick candidate, regardless of its
	// offset, lands on an occupied cell.
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s.Board.Set(x, y, I)
		}
	}

	assert.False(t, s.ApplyAction(ActionRotateCw))
	assert.Equal(t, North, s.Active.Rotation, "a blocked rotation must leave the piece untouched")
}

// TestRotateCwUsesWallKickWhenInPlaceRotationCollides checks that a rotation
// whose zero-offset placement collides still succeeds via a later kick-table
// entry, rather than just failing outright.
func TestRotateCwUsesWallKickWhenInPlaceRotationCollides(t *testing.T) {
	s := NewState(1)
	s.HasActive = true
	s.Active = ActivePiece{Kind: T, Rotation: North, X: 4, Y: 5}
	s.Board.Set(5, 5, I) // occupies the zero-offset North->East mino at (x+1, y)

	require.True(t, s.ApplyAction(ActionRotateCw))
	assert.Equal(t, East, s.Active.Rotation)
	assert.Equal(t, 3, s.Active.X)
	assert.Equal(t, 5, s.Active.Y)
}

// TestRotateIKickUsesCorrectVerticalDirection pins the sign of the I piece's
// kick table against this engine's y-down board convention: only the fourth
// North->East candidate (dx=-2, dy=+1) is left reachable, so the test fails
// if dy were applied with the canonical y-up sign instead.
func TestRotateIKickUsesCorrectVerticalDirection(t *testing.T) {
	s := NewState(1)
	s.HasActive = true
	x0, y0 := 3, 5
	s.Active = ActivePiece{Kind: I, Rotation: North, X: x0, Y: y0}

	for dy := 0; dy < 4; dy++ {
		s.Board.Set(x0+2, y0+dy, I)
		s.Board.Set(x0+3, y0+dy, I)
	}
	s.Board.Set(x0, y0, I)

	require.True(t, s.ApplyAction(ActionRotateCw))
	assert.Equal(t, East, s.Active.Rotation)
	assert.Equal(t, x0-2, s.Active.X)
	assert.Equal(t, y0+1, s.Active.Y)
}
