package adapter

import (
	"errors"
	"io"
	"net"

	"github.com/charmbracelet/log"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

// frame is a raw inbound line paired with the client that sent it.
type frame struct {
	clientID uint64
	raw      []byte
}

// readPump accumulates newline-delimited frames from conn and forwards each
// to the engine task's frames channel, then reports the disconnect.
// Grounded on lox-pokerforbots' internal/server/connection.go readPump
// (itself grounded further on GITRIS-backend's session_manager.go readPump),
// adapted from that repo's WebSocket ReadMessage loop to a line-delimited
// protocol.Reader over a raw stream socket.
func readPump(id uint64, conn net.Conn, frames chan<- frame, disconnect chan<- uint64, logger *log.Logger) {
	defer func() {
		disconnect <- id
	}()

	r := protocol.NewReader(conn)
	for {
		line, err := r.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("read error", "client_id", id, "error", err)
			}
			return
		}
		frames <- frame{clientID: id, raw: append([]byte(nil), line...)}
	}
}

// writePump drains a client's outbound queue to the socket using the
// flush policy spec.md §4.6.1 mandates: immediate flush for welcome/ack/
// error, and a flush right after each observation write (satisfying the
// 16ms bound trivially, since at most one observation is enqueued per
// adapter tick). Grounded on lox-pokerforbots' connection.go writePump /
// GITRIS-backend's Client.writePump, adapted to frame via protocol.Writer
// instead of writing websocket frames directly.
func writePump(conn net.Conn, out <-chan any, logger *log.Logger) {
	w := protocol.NewWriter(conn)
	for msg := range out {
		var err error
		switch msg.(type) {
		case *protocol.Observation:
			err = w.WriteBuffered(msg)
			if err == nil {
				err = w.Flush()
			}
		default:
			err = w.WriteImmediate(msg)
		}
		if err != nil {
			logger.Debug("write error", "error", err)
			return
		}
	}
}
