package tui

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

// Client dials an adapter server as a read-only observer and feeds decoded
// frames into a running Bubble Tea Program. Grounded on lox-pokerforbots'
// sdk/ws_client.go dial-handshake-readloop shape, adapted from that SDK's
// WebSocket dial to a plain net.Dial against the adapter's line-delimited
// JSON socket.
type Client struct {
	conn net.Conn
	r    *protocol.Reader
	w    *protocol.Writer
}

// Dial connects to addr and performs the observer handshake (spec.md §4.6.2,
// requested.role="observer", stream_observations=true).
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("tui: dial %s: %w", addr, err)
	}
	c := &Client{
		conn: conn,
		r:    protocol.NewReader(conn),
		w:    protocol.NewWriter(conn),
	}

	hello := &protocol.Hello{
		Envelope:        protocol.Envelope{Type: protocol.TypeHello, Seq: 1, TS: time.Now().UnixMilli()},
		Client:          protocol.ClientInfo{Name: "tetris-ai-observe", Version: "dev"},
		ProtocolVersion: protocol.ProtocolVersion,
		Formats:         []string{"json"},
		Requested: protocol.Requested{
			StreamObservations: true,
			CommandMode:        protocol.ModeAction,
			Role:               protocol.RequestedObserver,
		},
	}
	if err := c.w.WriteImmediate(hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tui: send hello: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// Run drives the read loop, translating each frame into a tea.Msg delivered
// to p.Send, until the connection closes or a read error occurs.
func (c *Client) Run(p *tea.Program) {
	for {
		raw, err := c.r.ReadFrame()
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}

		typ, err := protocol.PeekType(raw)
		if err != nil {
			continue
		}

		switch typ {
		case protocol.TypeWelcome:
			var w protocol.Welcome
			if json.Unmarshal(raw, &w) == nil {
				p.Send(WelcomeMsg{Welcome: &w})
			}
		case protocol.TypeObservation:
			var o protocol.Observation
			if json.Unmarshal(raw, &o) == nil {
				p.Send(ObservationMsg{Obs: &o})
			}
		case protocol.TypeError:
			var e protocol.Error
			if json.Unmarshal(raw, &e) == nil {
				p.Send(ErrMsg{Err: fmt.Errorf("%s: %s", e.Code, e.Message)})
				return
			}
		}
	}
}
