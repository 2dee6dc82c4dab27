package adapter

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/engine"
	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

func nowMS() int64 { return time.Now().UnixMilli() }

func (s *Server) onFrame(fr frame) {
	cs, ok := s.reg.clients[fr.clientID]
	if !ok {
		return
	}
	s.frameLog.record(fr.clientID, fr.raw)

	typ, err := protocol.PeekType(fr.raw)
	if err != nil {
		cs.send(&protocol.Error{
			Envelope: protocol.Envelope{Type: protocol.TypeError, TS: nowMS()},
			Code:     protocol.ErrInvalidCommand,
			Message:  "malformed frame",
		})
		return
	}

	if !cs.handshaken {
		if typ != protocol.TypeHello {
			cs.send(&protocol.Error{
				Envelope: protocol.Envelope{Type: protocol.TypeError, TS: nowMS()},
				Code:     protocol.ErrHandshakeRequired,
				Message:  "hello required before any other message",
			})
			return
		}
		s.onHello(cs, fr.raw)
		return
	}

	switch typ {
	case protocol.TypeCommand:
		s.onCommand(cs, fr.raw)
	case protocol.TypeControl:
		s.onControl(cs, fr.raw)
	default:
		var env protocol.Envelope
		_ = json.Unmarshal(fr.raw, &env)
		s.replyError(cs, env.Seq, protocol.ErrInvalidCommand, fmt.Sprintf("unexpected message type %q", typ))
	}
}

func (s *Server) replyError(cs *clientState, seq int64, code protocol.ErrorCode, msg string) {
	cs.send(&protocol.Error{
		Envelope: protocol.Envelope{Type: protocol.TypeError, Seq: seq, TS: nowMS()},
		Code:     code,
		Message:  msg,
	})
}

func (s *Server) replyAck(cs *clientState, seq int64) {
	cs.send(&protocol.Ack{
		Envelope: protocol.Envelope{Type: protocol.TypeAck, Seq: seq, TS: nowMS()},
		Status:   "ok",
	})
}

// onHello implements spec.md §4.6.2.
func (s *Server) onHello(cs *clientState, raw []byte) {
	var h protocol.Hello
	if err := json.Unmarshal(raw, &h); err != nil {
		s.replyError(cs, 0, protocol.ErrInvalidCommand, "malformed hello")
		return
	}
	if h.Seq != 1 {
		s.replyError(cs, h.Seq, protocol.ErrInvalidCommand, "hello.seq must be 1")
		return
	}
	if majorVersion(h.ProtocolVersion) != majorVersion(protocol.ProtocolVersion) {
		s.replyError(cs, h.Seq, protocol.ErrProtocolMismatch, "protocol_version major mismatch")
		return
	}

	cs.handshaken = true
	cs.lastSeq = 1
	cs.streamObservations = h.Requested.StreamObservations
	cs.commandMode = h.Requested.CommandMode

	if s.reg.controllerID == nil && h.Requested.Role != protocol.RequestedObserver {
		id := cs.id
		s.reg.controllerID = &id
		cs.role = protocol.RoleController
	} else {
		cs.role = protocol.RoleObserver
	}

	var controllerID *uint64
	if s.reg.controllerID != nil {
		id := *s.reg.controllerID
		controllerID = &id
	}

	cs.send(&protocol.Welcome{
		Envelope:        protocol.Envelope{Type: protocol.TypeWelcome, Seq: h.Seq, TS: nowMS()},
		ProtocolVersion: protocol.ProtocolVersion,
		GameID:          s.gameID,
		ClientID:        cs.id,
		Role:            cs.role,
		ControllerID:    controllerID,
		Capabilities: protocol.Capabilities{
			Formats:          []string{"json"},
			CommandModes:     []string{string(protocol.ModeAction), string(protocol.ModePlace)},
			Features:         []string{"ghost_y", "hold", "tspin", "back_to_back", "combo"},
			FeaturesAlways:   []string{"ghost_y", "hold", "tspin", "back_to_back", "combo"},
			FeaturesOptional: nil,
			ControlPolicy: protocol.ControlPolicy{
				AutoPromoteOnDisconnect: true,
				PromotionOrder:          "lowest_client_id",
			},
		},
	})

	cs.send(s.buildObservation())
}

func majorVersion(v string) string {
	parts := strings.SplitN(v, ".", 2)
	return parts[0]
}

// checkSeq applies spec.md §4.6.4's strictly-increasing rule. On failure it
// replies invalid_command and returns false without mutating cs.lastSeq.
func (s *Server) checkSeq(cs *clientState, seq int64) bool {
	if seq <= cs.lastSeq {
		s.replyError(cs, seq, protocol.ErrInvalidCommand, "seq must strictly increase")
		return false
	}
	return true
}

// onCommand implements spec.md §4.6.5 and §4.6.6.
func (s *Server) onCommand(cs *clientState, raw []byte) {
	var c protocol.Command
	if err := json.Unmarshal(raw, &c); err != nil {
		var env protocol.Envelope
		_ = json.Unmarshal(raw, &env)
		s.replyError(cs, env.Seq, protocol.ErrInvalidCommand, "malformed command")
		return
	}
	if !s.checkSeq(cs, c.Seq) {
		return
	}
	if cs.role != protocol.RoleController {
		cs.lastSeq = c.Seq
		s.replyError(cs, c.Seq, protocol.ErrNotController, "only the controller may send commands")
		return
	}

	actions, restartSeed, err := s.resolveCommandActions(c)
	if err != nil {
		cs.lastSeq = c.Seq
		code := protocol.ErrInvalidCommand
		switch err {
		case errSnapshotRequired:
			code = protocol.ErrSnapshotRequired
		case errInvalidPlace:
			code = protocol.ErrInvalidPlace
		case errHoldUnavailable:
			code = protocol.ErrHoldUnavailable
		}
		s.replyError(cs, c.Seq, code, err.Error())
		return
	}

	if len(cs.pending) >= s.cfg.MaxPending {
		cs.lastSeq = c.Seq
		s.replyBackpressure(cs, c.Seq, engine.TickMS)
		return
	}

	cs.lastSeq = c.Seq
	cs.pending = append(cs.pending, queuedCommand{seq: c.Seq, actions: actions, restartSeed: restartSeed})
	s.replyAck(cs, c.Seq)
}

func (s *Server) replyBackpressure(cs *clientState, seq int64, retryAfterMS int64) {
	cs.send(&protocol.Error{
		Envelope:     protocol.Envelope{Type: protocol.TypeError, Seq: seq, TS: nowMS()},
		Code:         protocol.ErrBackpressure,
		Message:      "command queue full",
		RetryAfterMS: &retryAfterMS,
	})
}

// onControl implements spec.md §4.6.3.
func (s *Server) onControl(cs *clientState, raw []byte) {
	var ctl protocol.Control
	if err := json.Unmarshal(raw, &ctl); err != nil {
		var env protocol.Envelope
		_ = json.Unmarshal(raw, &env)
		s.replyError(cs, env.Seq, protocol.ErrInvalidCommand, "malformed control")
		return
	}
	if !s.checkSeq(cs, ctl.Seq) {
		return
	}
	cs.lastSeq = ctl.Seq

	switch ctl.Action {
	case protocol.ControlClaim:
		if cs.role == protocol.RoleController {
			s.replyAck(cs, ctl.Seq)
			return
		}
		if s.reg.controllerID == nil {
			id := cs.id
			s.reg.controllerID = &id
			cs.role = protocol.RoleController
			s.replyAck(cs, ctl.Seq)
			return
		}
		current := *s.reg.controllerID
		cs.send(&protocol.Error{
			Envelope:     protocol.Envelope{Type: protocol.TypeError, Seq: ctl.Seq, TS: nowMS()},
			Code:         protocol.ErrControllerActive,
			Message:      "another client already controls this game",
			ControllerID: &current,
		})
	case protocol.ControlRelease:
		if cs.role != protocol.RoleController {
			s.replyError(cs, ctl.Seq, protocol.ErrNotController, "only the controller may release")
			return
		}
		s.reg.controllerID = nil
		// Promote before demoting the releaser, so it is not itself the
		// lowest-id observer picked.
		s.reg.promoteLowestObserver()
		cs.role = protocol.RoleObserver
		s.replyAck(cs, ctl.Seq)
	default:
		s.replyError(cs, ctl.Seq, protocol.ErrInvalidCommand, "unknown control action")
	}
}

// newRandomSeed generates an adapter-chosen seed for a restart command that
// omitted one (spec.md §4.6.5 "when absent, the engine chooses any seed").
func newRandomSeed() uint32 {
	return rand.Uint32()
}
