package adapter

import (
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/engine"
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

// onTick is the fixed-step adapter loop of spec.md §4.6.7, run once per
// TickMS on the engine task.
func (s *Server) onTick() {
	s.drainCommands()

	prevPaused := s.snapshot.Paused
	prevGameOver := s.snapshot.GameOver
	prevPieceID := s.snapshot.Episode.PieceID

	// softDrop is always false here: the wire protocol only ever carries a
	// discrete one-shot softDrop action (applied immediately in
	// drainCommands via ApplyAction), not a held-key state, so there is no
	// continuous gravity multiplier to report across network frames.
	s.game.Tick(engine.TickMS, false)

	s.game.SnapshotInto(&s.snapshot)
	s.lastObservedSnapshot = &s.snapshot

	observers := s.reg.broadcastObservers()
	if len(observers) == 0 {
		return
	}

	critical := s.snapshot.Episode.PieceID != prevPieceID ||
		(s.snapshot.HasLastEvent && s.snapshot.LastEvent.Locked) ||
		s.snapshot.Paused != prevPaused ||
		s.snapshot.GameOver != prevGameOver

	now := nowMS()
	var obs *protocol.Observation
	interval := s.cfg.ObsIntervalMS()

	for _, cs := range observers {
		due := critical || now-cs.lastObservationSentMS >= interval
		if !due {
			continue
		}
		if obs == nil {
			obs = s.buildObservation()
		}
		cs.send(obs)
		cs.lastObservationSentMS = now
	}
}

// drainCommands applies every enqueued controller command's expanded
// actions in seq order, per spec.md §4.6.7 step 1. Commands are only
// enqueued while their sender is the controller (spec.md §4.6.5); a client
// that released control since then still has its queued commands applied.
func (s *Server) drainCommands() {
	for _, cs := range s.reg.clients {
		if len(cs.pending) == 0 {
			continue
		}
		for _, cmd := range cs.pending {
			s.applyQueuedCommand(cmd)
		}
		cs.pending = cs.pending[:0]
	}
}

func (s *Server) applyQueuedCommand(cmd queuedCommand) {
	for _, a := range cmd.actions {
		if a == engine.ActionRestart {
			seed := cmd.restartSeed
			var sv uint32
			if seed != nil {
				sv = *seed
			} else {
				sv = newRandomSeed()
			}
			s.game.Restart(sv)
			continue
		}
		s.game.ApplyAction(a)
	}
}

// buildObservation serializes the engine's current snapshot (already
// refreshed into s.snapshot by the caller) into the wire Observation type
// (spec.md §4.6.7 step 3, §6).
func (s *Server) buildObservation() *protocol.Observation {
	snap := &s.snapshot

	cells := make(protocol.BoardCells, engine.Height)
	for y := 0; y < engine.Height; y++ {
		row := make([]int, engine.Width)
		for x := 0; x < engine.Width; x++ {
			row[x] = int(snap.Board[y][x])
		}
		cells[y] = row
	}

	obs := &protocol.Observation{
		Envelope:     protocol.Envelope{Type: protocol.TypeObservation, TS: nowMS()},
		HasActive:    snap.HasActive,
		GhostY:       snap.GhostY,
		Next:         snap.Next.String(),
		Hold:         snap.Hold.String(),
		HoldOccupied: snap.HoldOccupied,
		CanHold:      snap.CanHold,
		Score:        snap.Score,
		Level:        snap.Level,
		Lines:        snap.Lines,
		DropMS:       snap.Timers.DropMS,
		LockMS:       snap.Timers.LockMS,
		LineClearMS:  snap.Timers.LineClearMS,
		EpisodeID:    snap.Episode.EpisodeID,
		Seed:         snap.Episode.Seed,
		PieceID:      snap.Episode.PieceID,
		StepInPiece:  snap.Episode.StepInPiece,
		BoardID:      snap.Episode.BoardID,
		Playable:     snap.Playable,
		Paused:       snap.Paused,
		GameOver:     snap.GameOver,
		StateHash:    snap.StateHash,
	}
	obs.Board.Cells = cells

	if snap.HasActive {
		obs.Active = &protocol.ActivePieceView{
			Kind:     snap.Active.Kind.String(),
			Rotation: int(snap.Active.Rotation),
			X:        snap.Active.X,
			Y:        snap.Active.Y,
		}
	}

	nq := make([]string, len(snap.NextQueue))
	for i, k := range snap.NextQueue {
		nq[i] = k.String()
	}
	obs.NextQueue = nq

	if snap.HasLastEvent {
		obs.LastEvent = &protocol.LastEventView{
			Locked:         snap.LastEvent.Locked,
			LinesCleared:   snap.LastEvent.LinesCleared,
			LineClearScore: snap.LastEvent.LineClearScore,
			TSpin:          tspinName(snap.LastEvent.TSpin),
			Combo:          snap.LastEvent.Combo,
			BackToBack:     snap.LastEvent.BackToBack,
		}
	}

	return obs
}

func tspinName(k engine.TSpinKind) string {
	switch k {
	case engine.TSpinFull:
		return "full"
	case engine.TSpinMini:
		return "mini"
	default:
		return "none"
	}
}
