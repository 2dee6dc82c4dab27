// Package adapter implements the AI adapter protocol server of spec.md
// §4.6: a single-threaded "engine tick" task that owns the game.State
// exclusively, fed by per-connection reader/writer goroutines communicating
// only through channels (spec.md §5).
package adapter

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/engine"
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

// Server is the adapter's engine task plus its connection-accepting front
// door. Grounded on GITRIS-backend's SessionManager (internal/services/
// tetris/session_manager.go) for the single select-loop-over-channels
// shape, generalized from that repo's multi-room/multi-session design (this
// protocol drives exactly one game.State) and from WebSocket framing to
// line-delimited JSON over a raw net.Conn.
type Server struct {
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
	gameID string

	listener net.Listener

	reg        *registry
	frames     chan frame
	accepted   chan net.Conn
	disconnect chan uint64

	game     *engine.State
	snapshot engine.Snapshot

	// lastObservedSnapshot is a stable pointer to the most recent snapshot,
	// used by mode="place" command mapping (spec.md §4.6.5). It aliases
	// snapshot's contents only between ticks that overwrite snapshot via
	// SnapshotInto; place mapping always runs synchronously on the engine
	// task before the next tick can mutate it.
	lastObservedSnapshot *engine.Snapshot

	frameLog *frameLogger
}

// NewServer constructs a Server bound to cfg but does not yet listen.
func NewServer(cfg Config, logger *log.Logger, clock quartz.Clock, seed uint32) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		clock:      clock,
		gameID:     uuid.NewString(),
		reg:        newRegistry(),
		frames:     make(chan frame, 256),
		accepted:   make(chan net.Conn, 16),
		disconnect: make(chan uint64, 16),
		game:       engine.NewState(seed),
		frameLog:   newFrameLogger(cfg),
	}
	s.game.SnapshotInto(&s.snapshot)
	s.lastObservedSnapshot = &s.snapshot
	return s
}

// Run listens on cfg.Addr and drives the engine tick task until ctx is
// cancelled. If cfg.Disabled, Run returns nil immediately without binding a
// socket (spec.md §6 "TETRIS_AI_DISABLED disables the listener entirely").
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Disabled {
		s.logger.Info("adapter disabled via TETRIS_AI_DISABLED")
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("adapter: listen %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln
	s.logger.Info("adapter listening", "addr", s.cfg.Addr(), "game_id", s.gameID)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.acceptLoop(ctx) })
	g.Go(func() error { return s.engineLoop(ctx) })

	<-ctx.Done()
	ln.Close()

	return g.Wait()
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("adapter: accept: %w", err)
			}
		}
		select {
		case s.accepted <- conn:
		case <-ctx.Done():
			conn.Close()
			return nil
		}
	}
}

// engineLoop is the engine tick task: the sole goroutine that ever reads or
// writes s.game or s.reg (spec.md §5).
func (s *Server) engineLoop(ctx context.Context) error {
	ticker := s.clock.NewTicker(engine.TickMS * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case conn := <-s.accepted:
			s.onAccept(conn)

		case fr := <-s.frames:
			s.onFrame(fr)

		case id := <-s.disconnect:
			s.onDisconnect(id)

		case <-ticker.C:
			s.onTick()
		}
	}
}

func (s *Server) onAccept(conn net.Conn) {
	cs := s.reg.add(conn)
	go readPump(cs.id, conn, s.frames, s.disconnect, s.logger)
	go writePump(conn, cs.out, s.logger)
}

func (s *Server) onDisconnect(id uint64) {
	cs, ok := s.reg.clients[id]
	if !ok {
		return
	}
	close(cs.out)
	wasController := s.reg.controllerID != nil && *s.reg.controllerID == id
	s.reg.remove(id)
	if wasController {
		s.reg.promoteLowestObserver()
	}
	s.logger.Debug("client disconnected", "client_id", id)
}
