package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/engine"
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

func TestDrainCommandsAppliesInOrderAndClearsQueue(t *testing.T) {
	s := newTestServer(t, 10)
	cs := s.reg.add(pipeConn(t))

	var before engine.Snapshot
	s.game.SnapshotInto(&before)

	cs.pending = []queuedCommand{
		{seq: 1, actions: []engine.Action{engine.ActionMoveRight}},
	}

	s.drainCommands()

	var after engine.Snapshot
	s.game.SnapshotInto(&after)

	assert.Empty(t, cs.pending)
	if before.HasActive && after.HasActive {
		assert.GreaterOrEqual(t, after.Active.X, before.Active.X)
	}
}

func TestApplyQueuedCommandRestartUsesExplicitSeed(t *testing.T) {
	s := newTestServer(t, 10)
	var want uint32 = 777
	s.applyQueuedCommand(queuedCommand{actions: []engine.Action{engine.ActionRestart}, restartSeed: &want})

	var snap engine.Snapshot
	s.game.SnapshotInto(&snap)
	assert.Equal(t, want, snap.Episode.Seed)
}

func TestApplyQueuedCommandRestartGeneratesSeedWhenOmitted(t *testing.T) {
	s := newTestServer(t, 10)

	s.applyQueuedCommand(queuedCommand{actions: []engine.Action{engine.ActionRestart}})

	var snap engine.Snapshot
	s.game.SnapshotInto(&snap)
	// A randomly generated seed could in principle collide with the
	// original, but restart always bumps EpisodeID regardless.
	assert.Equal(t, uint64(2), snap.Episode.EpisodeID)
}

func TestOnTickSkipsObservationWhenNoObservers(t *testing.T) {
	s := newTestServer(t, 10)
	s.onTick() // must not panic with zero observers registered
}

func TestOnTickSendsObservationToStreamingObserver(t *testing.T) {
	s := newTestServer(t, 10)
	cs := s.reg.add(pipeConn(t))
	cs.handshaken = true
	cs.streamObservations = true
	cs.lastObservationSentMS = nowMS() // not due yet, but the first tick should still be far enough under interval

	s.onTick()

	// Either a throttled skip or a sent observation is valid depending on
	// timing granularity; what must hold is buildObservation never panics
	// and the registry-visible snapshot always advances.
	assert.NotNil(t, s.lastObservedSnapshot)
}

func TestOnTickAlwaysFlushesOnCriticalEvent(t *testing.T) {
	s := newTestServer(t, 10)
	cs := s.reg.add(pipeConn(t))
	cs.handshaken = true
	cs.streamObservations = true
	cs.lastObservationSentMS = nowMS()

	// Force a hard drop to guarantee a lock (and hence a critical event)
	// on the very next tick regardless of the throttle interval.
	s.game.ApplyAction(engine.ActionHardDrop)
	s.onTick()

	select {
	case msg := <-cs.out:
		_, ok := msg.(*protocol.Observation)
		assert.True(t, ok)
	default:
		t.Fatal("expected an observation to be sent on a critical event")
	}
}

func TestBuildObservationMirrorsSnapshot(t *testing.T) {
	s := newTestServer(t, 10)
	s.game.SnapshotInto(&s.snapshot)

	obs := s.buildObservation()
	require.NotNil(t, obs)
	assert.Equal(t, protocol.TypeObservation, obs.Type)
	assert.Equal(t, s.snapshot.Score, obs.Score)
	assert.Equal(t, s.snapshot.Episode.Seed, obs.Seed)
	assert.Len(t, obs.Board.Cells, engine.Height)
	assert.Len(t, obs.Board.Cells[0], engine.Width)
}

func TestTspinNameMapping(t *testing.T) {
	assert.Equal(t, "none", tspinName(engine.TSpinNone))
	assert.Equal(t, "mini", tspinName(engine.TSpinMini))
	assert.Equal(t, "full", tspinName(engine.TSpinFull))
}
