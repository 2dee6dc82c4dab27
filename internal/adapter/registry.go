package adapter

import (
	"net"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/engine"
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

// queuedCommand is a single enqueued client command awaiting drain at the
// next tick boundary (spec.md §4.6.6).
type queuedCommand struct {
	seq         int64
	actions     []engine.Action
	restartSeed *uint32
}

// clientState is everything the engine task tracks about one connection. It
// is created and mutated only on the engine task goroutine, per spec.md §5
// ("Client registry ... owned by the engine and mutated only during the
// engine tick or at accept/close events processed by the engine"); the
// reader/writer goroutines never touch it directly, only send/receive on
// channels.
//
// Grounded on GITRIS-backend's Client (internal/services/tetris/
// session_manager.go), generalized from that repo's per-user WebSocket
// fields (UserID, RoomID) to this spec's per-connection role/sequencing/
// queueing fields, and from its single Send []byte channel to a typed
// outbound channel matching this protocol's message structs.
type clientState struct {
	id   uint64
	conn net.Conn
	out  chan any

	handshaken bool
	role       protocol.Role
	lastSeq    int64

	streamObservations bool
	commandMode        protocol.CommandMode

	pending []queuedCommand

	lastObservationSentMS int64
}

const outboundQueueCapacity = 64

func newClientState(id uint64, conn net.Conn) *clientState {
	return &clientState{
		id:   id,
		conn: conn,
		out:  make(chan any, outboundQueueCapacity),
	}
}

// send enqueues a frame for the writer goroutine without blocking the
// engine task; if the outbound queue is full the frame is dropped (the
// connection is presumed unhealthy and will be reaped by a subsequent read
// error).
func (c *clientState) send(msg any) {
	select {
	case c.out <- msg:
	default:
	}
}

// registry is the engine task's map of connected clients plus controller
// assignment bookkeeping (spec.md §4.6.3).
type registry struct {
	nextID       uint64
	clients      map[uint64]*clientState
	controllerID *uint64
}

func newRegistry() *registry {
	return &registry{clients: make(map[uint64]*clientState)}
}

func (r *registry) add(conn net.Conn) *clientState {
	r.nextID++
	cs := newClientState(r.nextID, conn)
	r.clients[cs.id] = cs
	return cs
}

func (r *registry) remove(id uint64) {
	delete(r.clients, id)
	if r.controllerID != nil && *r.controllerID == id {
		r.controllerID = nil
	}
}

// promoteLowestObserver implements the advertised "auto-promote lowest-id
// observer" policy (spec.md §4.6.3) after the controller slot empties.
func (r *registry) promoteLowestObserver() {
	if r.controllerID != nil {
		return
	}
	var lowest uint64
	found := false
	for id, cs := range r.clients {
		if !cs.handshaken || cs.role != protocol.RoleObserver {
			continue
		}
		if !found || id < lowest {
			lowest = id
			found = true
		}
	}
	if found {
		id := lowest
		r.controllerID = &id
		r.clients[id].role = protocol.RoleController
	}
}

func (r *registry) broadcastObservers() []*clientState {
	var out []*clientState
	for _, cs := range r.clients {
		if cs.handshaken && cs.streamObservations {
			out = append(out, cs)
		}
	}
	return out
}
