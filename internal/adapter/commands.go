package adapter

import (
	"errors"
	"fmt"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/engine"
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

var (
	errSnapshotRequired = errors.New("no snapshot available yet for place mapping")
	errInvalidPlace     = errors.New("requested placement is not reachable")
	errHoldUnavailable  = errors.New("hold is not available for the current piece")
)

// actionTable maps the wire action vocabulary to the engine's enum
// (spec.md §6 "Actions enum").
var actionTable = map[protocol.ActionName]engine.Action{
	protocol.ActionMoveLeft:  engine.ActionMoveLeft,
	protocol.ActionMoveRight: engine.ActionMoveRight,
	protocol.ActionSoftDrop:  engine.ActionSoftDrop,
	protocol.ActionHardDrop:  engine.ActionHardDrop,
	protocol.ActionRotateCw:  engine.ActionRotateCw,
	protocol.ActionRotateCcw: engine.ActionRotateCcw,
	protocol.ActionHold:      engine.ActionHold,
	protocol.ActionPause:     engine.ActionPause,
	protocol.ActionRestart:   engine.ActionRestart,
}

func mapAction(name protocol.ActionName) (engine.Action, error) {
	a, ok := actionTable[name]
	if !ok {
		return 0, fmt.Errorf("adapter: unknown action %q", name)
	}
	return a, nil
}

// resolveCommandActions validates and expands a wire Command into the
// engine.Action sequence the tick loop will apply, per spec.md §4.6.5. The
// returned restartSeed is non-nil only when the command's mode="action"
// actions include "restart" with an explicit seed.
func (s *Server) resolveCommandActions(c protocol.Command) ([]engine.Action, *uint32, error) {
	switch c.Mode {
	case protocol.ModeAction:
		actions := make([]engine.Action, 0, len(c.Actions))
		var restartSeed *uint32
		for _, name := range c.Actions {
			a, err := mapAction(name)
			if err != nil {
				return nil, nil, err
			}
			actions = append(actions, a)
			if name == protocol.ActionRestart && c.Restart != nil {
				restartSeed = c.Restart.Seed
			}
		}
		return actions, restartSeed, nil

	case protocol.ModePlace:
		if c.Place == nil {
			return nil, nil, fmt.Errorf("adapter: place mode requires a place payload")
		}
		if s.lastObservedSnapshot == nil {
			return nil, nil, errSnapshotRequired
		}
		actions, err := placeToActions(*c.Place, s.lastObservedSnapshot)
		if err != nil {
			return nil, nil, err
		}
		return actions, nil, nil

	default:
		return nil, nil, fmt.Errorf("adapter: unknown command mode %q", c.Mode)
	}
}

// placeToActions expands a mode="place" command into the concrete action
// sequence the engine must apply: optionally hold, rotate to the target
// orientation, translate to the target column, then hard-drop (spec.md
// §4.6.5). Every step is replayed against a board cloned from snap so an
// unreachable target (a blocked kick, a translate that runs into the stack)
// is rejected here as invalid_place rather than silently resolving to
// whatever orientation/column the live engine's re-validation happens to
// leave the piece in.
func placeToActions(place protocol.Place, snap *engine.Snapshot) ([]engine.Action, error) {
	if !snap.Playable || !snap.HasActive {
		return nil, errInvalidPlace
	}
	if place.X < 0 || place.X >= engine.Width {
		return nil, errInvalidPlace
	}

	board := engine.BoardFromCells(snap.Board)
	active := snap.Active

	var out []engine.Action

	if place.UseHold {
		if !snap.CanHold {
			return nil, errHoldUnavailable
		}
		held := snap.Hold
		if !snap.HoldOccupied {
			held = snap.Next
		}
		active = engine.SpawnPosition(held)
		if board.Collides(active) {
			return nil, errInvalidPlace
		}
		out = append(out, engine.ActionHold)
	}

	target := engine.Rotation(((place.Rotation % 4) + 4) % 4)
	for active.Rotation != target {
		next, ok := engine.SimulateRotate(&board, active, active.Rotation.Cw())
		if !ok {
			return nil, errInvalidPlace
		}
		active = next
		out = append(out, engine.ActionRotateCw)
	}

	for active.X < place.X {
		candidate := active
		candidate.X++
		if board.Collides(candidate) {
			return nil, errInvalidPlace
		}
		active = candidate
		out = append(out, engine.ActionMoveRight)
	}
	for active.X > place.X {
		candidate := active
		candidate.X--
		if board.Collides(candidate) {
			return nil, errInvalidPlace
		}
		active = candidate
		out = append(out, engine.ActionMoveLeft)
	}

	out = append(out, engine.ActionHardDrop)
	return out, nil
}
