package engine

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Snapshot is a plain owned record mirroring the observable state of a
// State at an instant (spec.md §3 "Snapshot", §4.5.4). It is built
// in-place by SnapshotInto so the adapter's per-tick hot path never
// allocates a new Snapshot.
type Snapshot struct {
	Board     [Height][Width]Cell
	HasActive bool
	Active    ActivePiece
	GhostY    int

	Next      Kind
	NextQueue [nextQueueLen]Kind

	Hold         Kind
	HoldOccupied bool
	CanHold      bool

	HasLastEvent bool
	LastEvent    LastEvent

	StateHash string

	Score uint64
	Level uint32
	Lines uint32

	Timers Timers

	Episode EpisodeCounters

	Playable bool
	Paused   bool
	GameOver bool
}

// SnapshotInto writes every observable field of s into dst, overwriting
// its previous contents. dst may be reused across ticks to avoid
// allocation on the hot path (spec.md §4.5.4).
func (s *State) SnapshotInto(dst *Snapshot) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			dst.Board[y][x] = s.Board.Get(x, y)
		}
	}

	dst.HasActive = s.HasActive
	dst.Active = s.Active
	if s.HasActive {
		dst.GhostY = s.GhostY()
	} else {
		dst.GhostY = 0
	}

	dst.Next = s.NextQueue[0]
	dst.NextQueue = s.NextQueue

	dst.Hold = s.Hold.Kind
	dst.HoldOccupied = s.Hold.Occupied
	dst.CanHold = s.Hold.CanHoldThisPiece

	dst.HasLastEvent = s.LastEvent.Present
	dst.LastEvent = s.LastEvent

	dst.Score = s.Scoring.Score
	dst.Level = s.Scoring.Level
	dst.Lines = s.Scoring.Lines

	dst.Timers = s.Timers
	dst.Episode = s.Episode

	dst.Playable = s.Phase == PhasePlaying && !s.Paused
	dst.Paused = s.Paused
	dst.GameOver = s.Phase == PhaseGameOver

	dst.StateHash = stateHash(dst)
}

// stateHash derives a stable lowercase hex digest from the canonical byte
// serialization of the observable state (spec.md §4.5.4 "suggested: 64-bit
// hash of the canonical byte serialization"). The byte layout is internal
// to this function and only needs to be stable within one program, not
// portable across languages — determinism tests compare hashes produced by
// this same implementation across independent runs, never across
// implementations.
func stateHash(snap *Snapshot) string {
	h := fnv.New64a()
	var buf [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeByte := func(v byte) { h.Write([]byte{v}) }

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			writeByte(byte(snap.Board[y][x]))
		}
	}
	if snap.HasActive {
		writeByte(1)
		writeByte(byte(snap.Active.Kind))
		writeByte(byte(snap.Active.Rotation))
		writeU64(uint64(int64(snap.Active.X)))
		writeU64(uint64(int64(snap.Active.Y)))
	} else {
		writeByte(0)
	}
	for _, k := range snap.NextQueue {
		writeByte(byte(k))
	}
	writeByte(byte(snap.Hold))
	if snap.HoldOccupied {
		writeByte(1)
	} else {
		writeByte(0)
	}
	writeU64(snap.Score)
	writeU64(uint64(snap.Level))
	writeU64(uint64(snap.Lines))
	writeU64(uint64(snap.Timers.DropMS))
	writeU64(uint64(snap.Timers.LockMS))
	writeU64(uint64(snap.Timers.LineClearMS))
	writeU64(snap.Episode.EpisodeID)
	writeU64(uint64(snap.Episode.Seed))
	writeU64(snap.Episode.PieceID)
	writeU64(snap.Episode.StepInPiece)
	writeU64(snap.Episode.BoardID)

	return fmt.Sprintf("%016x", h.Sum64())
}
