package engine

// Phase is the top-level game state machine of spec.md §4.5.
type Phase int

const (
	PhaseInitial Phase = iota
	PhasePlaying
	PhaseGameOver
)

// Action is the vocabulary of player-issued commands (spec.md §4.5.1).
type Action int

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionSoftDrop
	ActionHardDrop
	ActionRotateCw
	ActionRotateCcw
	ActionHold
	ActionPause
	ActionRestart
)

// lastAction records what the most recent successful piece movement was,
// for T-spin gating: only a rotation sets it; any translation or gravity
// step clears it (spec.md §4.5/§9 "T-spin gating on last action").
type lastActionKind int

const (
	lastActionNone lastActionKind = iota
	lastActionRotation
	lastActionTranslation
)

// Timers mirrors spec.md §3 "Timers".
type Timers struct {
	DropMS      int64
	LockMS      int64
	LineClearMS int64
}

// LastEvent mirrors spec.md §3 "LastEvent"; Present is false when no lock
// or clear happened on the most recent tick, in which case the rest of the
// struct is not meaningful and snapshots omit it.
type LastEvent struct {
	Present        bool
	Locked         bool
	LinesCleared   int
	LineClearScore uint64
	TSpin          TSpinKind
	Combo          int32
	BackToBack     bool
}

// Gravity interval table keyed by level, per spec.md §4.5.2: "1000 at
// level 0, down to 120 at level >= 9". Grounded on GITRIS-backend's
// GetFallInterval (internal/services/tetris/game_logic.go), which computes
// a similar decreasing-by-level interval from a formula rather than a
// table; this repo uses spec.md's explicit anchor points instead since the
// formula isn't pinned by the spec beyond those two values.
var dropIntervalMS = [10]int64{1000, 900, 800, 700, 600, 500, 400, 300, 200, 120}

func dropInterval(level uint32) int64 {
	if level >= uint32(len(dropIntervalMS)) {
		return dropIntervalMS[len(dropIntervalMS)-1]
	}
	return dropIntervalMS[level]
}

const (
	// TickMS is the adapter's fixed step (spec.md §4.6.7).
	TickMS = 16
	// LockDelayMS is how long a grounded piece may linger before locking
	// (spec.md §3, §8).
	LockDelayMS = 450
	// LockResetLimit bounds how many times a grounded piece's lock timer
	// may be reset by further moves (spec.md §4.5.3, §8).
	LockResetLimit = 15
	// SoftDropMultiplier scales the gravity accumulator during soft drop
	// (spec.md §4.5.2).
	SoftDropMultiplier = 20
	// lineClearPauseMS is how long the board pauses after a clear before
	// falling through to spawning (spec.md §3 "line_clear_ms").
	lineClearPauseMS = 180
	// nextQueueLen is the fixed length of the visible next-piece queue
	// (spec.md §3 "NextQueue").
	nextQueueLen = 5
	// linesPerLevel ties lines cleared to level per spec.md §9 "Open
	// questions": "use level = lines / 10 unless the test vectors
	// disagree".
	linesPerLevel = 10
)

// EpisodeCounters mirrors spec.md §3 "Episode counters".
type EpisodeCounters struct {
	EpisodeID   uint64
	Seed        uint32
	PieceID     uint64
	StepInPiece uint64
	BoardID     uint64
}

// HoldSlot mirrors spec.md §3 "HoldSlot".
type HoldSlot struct {
	Kind             Kind
	Occupied         bool
	CanHoldThisPiece bool
}

// State is the full game state machine of spec.md §4.5. A State is owned
// exclusively by one caller at a time (the adapter's engine tick task, per
// spec.md §5); it has no internal locking.
//
// Grounded on GITRIS-backend's PlayerGameState (internal/services/tetris/
// game_state.go) for the overall shape (board + current/next/held piece +
// score/level/lines + RNG-backed queue), generalized from that repo's
// per-player/per-session/deck-score fields (which have no place in this
// single-game, no-persistence spec) to exactly the fields spec.md §3 names.
type State struct {
	Phase Phase
	Paused bool

	Board Board
	Gen   *Generator

	Active      ActivePiece
	HasActive   bool
	lastAction  lastActionKind
	lockResets  int

	Hold HoldSlot

	NextQueue [nextQueueLen]Kind

	Timers Timers

	Scoring ScoringContext

	Episode EpisodeCounters

	LastEvent LastEvent

	// pendingHardDrop is set by apply_action(HardDrop) and consumed by the
	// next tick's lock step, per spec.md §4.5.2 step 4: "lock_ms >=
	// LOCK_DELAY_MS OR a hard-drop is pending".
	pendingHardDrop bool
}

// NewState constructs a fresh State in PhaseInitial and immediately
// restarts it with the given seed, matching spec.md §4.5 "Restart
// transitions to Initial then Playing".
func NewState(seed uint32) *State {
	s := &State{}
	s.Restart(seed)
	return s
}

// Restart resets the episode to PhasePlaying with the given seed and spawns
// its first active piece. Per spec.md §9 "Open questions", restart always
// produces Playing regardless of the prior phase (including Paused).
func (s *State) Restart(seed uint32) {
	prevEpisode := s.Episode.EpisodeID
	*s = State{}
	s.Episode.EpisodeID = prevEpisode + 1
	s.Episode.Seed = seed
	s.Gen = NewGenerator(seed)
	s.Scoring.ComboIndex = -1
	s.Hold.CanHoldThisPiece = true
	s.Phase = PhasePlaying

	for i := range s.NextQueue {
		s.NextQueue[i] = s.Gen.Next()
	}
	s.spawn()
}

// popNextQueue draws the head of the next queue as the piece to spawn
// and shifts a freshly-drawn piece into the tail.
func (s *State) popNextQueue() Kind {
	head := s.NextQueue[0]
	copy(s.NextQueue[:], s.NextQueue[1:])
	s.NextQueue[nextQueueLen-1] = s.Gen.Next()
	return head
}

func spawnAt(k Kind) ActivePiece {
	return ActivePiece{Kind: k, Rotation: North, X: spawnX, Y: spawnY}
}

// spawn places a new active piece at the spawn position, drawing from the
// next queue. It transitions to GameOver if the spawn position collides.
func (s *State) spawn() {
	k := s.popNextQueue()
	p := spawnAt(k)

	s.Active = p
	s.HasActive = true
	s.lastAction = lastActionNone
	s.lockResets = 0
	s.Timers.DropMS = 0
	s.Timers.LockMS = 0
	s.Hold.CanHoldThisPiece = true
	s.Episode.PieceID++
	s.Episode.StepInPiece = 0

	if s.Board.Collides(s.Active) {
		s.Phase = PhaseGameOver
		s.HasActive = false
	}
}

func (s *State) grounded() bool {
	return s.Board.Collides(ActivePiece{Kind: s.Active.Kind, Rotation: s.Active.Rotation, X: s.Active.X, Y: s.Active.Y + 1})
}

// consumeLockReset applies the "successful moves/rotations while grounded
// reset the lock timer, up to LockResetLimit" rule (spec.md §4.5.3).
func (s *State) consumeLockReset() {
	if !s.grounded() {
		return
	}
	if s.lockResets >= LockResetLimit {
		return
	}
	s.lockResets++
	s.Timers.LockMS = 0
}

// ApplyAction applies a single player action, gated by phase and the
// line-clear pause, per spec.md §4.5.1.
func (s *State) ApplyAction(a Action) bool {
	if a == ActionRestart {
		s.Restart(s.Episode.Seed)
		return true
	}

	if s.Phase == PhaseGameOver {
		return false
	}

	if s.Paused {
		if a == ActionPause {
			s.Paused = false
			return true
		}
		return false
	}

	if a == ActionPause {
		s.Paused = true
		return true
	}

	if s.Timers.LineClearMS > 0 {
		return false
	}

	if !s.HasActive {
		return false
	}

	switch a {
	case ActionMoveLeft:
		return s.translate(-1, 0)
	case ActionMoveRight:
		return s.translate(1, 0)
	case ActionSoftDrop:
		if s.translate(0, 1) {
			s.Scoring.Score++
			return true
		}
		return false
	case ActionHardDrop:
		s.hardDrop()
		return true
	case ActionRotateCw:
		return s.rotate(s.Active.Rotation.Cw())
	case ActionRotateCcw:
		return s.rotate(s.Active.Rotation.Ccw())
	case ActionHold:
		return s.hold()
	}
	return false
}

func (s *State) translate(dx, dy int) bool {
	candidate := s.Active
	candidate.X += dx
	candidate.Y += dy
	if s.Board.Collides(candidate) {
		return false
	}
	s.Active = candidate
	s.lastAction = lastActionTranslation
	s.consumeLockReset()
	return true
}

func (s *State) rotate(target Rotation) bool {
	next, ok := SimulateRotate(&s.Board, s.Active, target)
	if !ok {
		return false
	}
	s.Active = next
	s.lastAction = lastActionRotation
	s.consumeLockReset()
	return true
}

// SimulateRotate mirrors rotate's kick-resolution logic against a caller-
// owned board and piece, without requiring a live State. Adapters use it to
// check a place command's rotation step is reachable before enqueuing the
// action sequence, per spec.md §4.6.5's invalid_place contract.
func SimulateRotate(b *Board, p ActivePiece, target Rotation) (ActivePiece, bool) {
	for _, k := range kickSequence(p.Kind, p.Rotation, target) {
		candidate := p
		candidate.Rotation = target
		candidate.X += k.dx
		candidate.Y += k.dy
		if !b.Collides(candidate) {
			return candidate, true
		}
	}
	return p, false
}

func (s *State) hardDrop() {
	for !s.grounded() {
		s.Active.Y++
		s.Scoring.Score += 2
	}
	s.pendingHardDrop = true
}

func (s *State) hold() bool {
	if !s.Hold.CanHoldThisPiece {
		return false
	}
	current := s.Active.Kind
	if s.Hold.Occupied {
		s.Active = spawnAt(s.Hold.Kind)
	} else {
		s.Active = spawnAt(s.popNextQueue())
	}
	s.Hold.Kind = current
	s.Hold.Occupied = true
	s.Hold.CanHoldThisPiece = false
	s.lastAction = lastActionNone
	s.lockResets = 0
	s.Timers.LockMS = 0

	if s.Board.Collides(s.Active) {
		s.Phase = PhaseGameOver
	}
	return true
}

// Tick advances the fixed-step simulation by elapsedMS, per spec.md
// §4.5.2. softDrop is true while the controlling client holds soft-drop
// down (as opposed to the one-shot ActionSoftDrop translation).
func (s *State) Tick(elapsedMS int64, softDrop bool) {
	s.LastEvent = LastEvent{}

	if s.Phase == PhaseGameOver {
		return
	}
	if s.Paused {
		return
	}

	// 1. Line-clear pause.
	if s.Timers.LineClearMS > 0 {
		s.Timers.LineClearMS -= elapsedMS
		s.Episode.StepInPiece++
		if s.Timers.LineClearMS > 0 {
			return
		}
		s.Timers.LineClearMS = 0
	}

	// 2. Spawning.
	if !s.HasActive {
		s.spawn()
		if s.Phase == PhaseGameOver {
			return
		}
	}

	// 3. Gravity.
	mult := int64(1)
	if softDrop {
		mult = SoftDropMultiplier
	}
	s.Timers.DropMS += elapsedMS * mult
	interval := dropInterval(s.Scoring.Level)
	for s.Timers.DropMS >= interval {
		candidate := s.Active
		candidate.Y++
		if s.Board.Collides(candidate) {
			break
		}
		s.Active = candidate
		s.lastAction = lastActionTranslation
		s.Timers.DropMS -= interval
	}

	grounded := s.grounded()

	// 4 & 5. Lock delay and lock.
	if grounded {
		s.Timers.LockMS += elapsedMS
	} else {
		s.Timers.LockMS = 0
	}

	if (grounded && s.Timers.LockMS >= LockDelayMS) || s.pendingHardDrop {
		s.lock()
	}

	// 7. Step counter.
	s.Episode.StepInPiece++
}

func (s *State) lock() {
	s.pendingHardDrop = false

	tspin := TSpinNone
	if s.Active.Kind == T && s.lastAction == lastActionRotation {
		tspin = DetectTSpin(&s.Board, s.Active)
	}

	for _, xy := range s.Active.Blocks() {
		s.Board.Set(xy[0], xy[1], s.Active.Kind)
	}
	s.Episode.BoardID++
	s.HasActive = false

	var rows [maxClearRows]int
	n := s.Board.FullRows(&rows)
	if n > 0 {
		s.Board.ClearRows(rows[:n])
		s.Episode.BoardID++
		s.Timers.LineClearMS = lineClearPauseMS
	}

	preClearLevel := s.Scoring.Level
	delta, newCombo, newB2B := ScoreClear(n, tspin, s.Scoring, preClearLevel)
	s.Scoring.Score += delta
	s.Scoring.ComboIndex = newCombo
	s.Scoring.B2BActive = newB2B
	s.Scoring.Lines += uint32(n)
	s.Scoring.Level = s.Scoring.Lines / linesPerLevel

	s.LastEvent = LastEvent{
		Present:        true,
		Locked:         true,
		LinesCleared:   n,
		LineClearScore: delta,
		TSpin:          tspin,
		Combo:          newCombo,
		BackToBack:     newB2B,
	}
	if tspin != TSpinNone && n == 0 {
		s.LastEvent.TSpin = TSpinNone
		s.LastEvent.LineClearScore = 0
	}

	s.Hold.CanHoldThisPiece = true
}

// GhostY returns the deepest collision-free y the active piece could
// reach via repeated downward translation, for ghost-piece rendering
// (spec.md §3 "Ghost y").
func (s *State) GhostY() int {
	if !s.HasActive {
		return 0
	}
	p := s.Active
	for {
		candidate := p
		candidate.Y++
		if s.Board.Collides(candidate) {
			return p.Y
		}
		p = candidate
	}
}
