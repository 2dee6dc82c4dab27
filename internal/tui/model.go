// Package tui renders streamed adapter observations in a terminal, for the
// tetris-ai observe subcommand. Grounded on lox-pokerforbots' internal/tui
// package (Bubble Tea model/view split, lipgloss-bordered panes), adapted
// from that repo's player-action input loop to a read-only observation
// renderer: this model never sends commands back to the game, it only
// renders whatever client.go feeds it.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/protocol"
)

// ObservationMsg wraps one decoded observation frame for delivery into the
// Bubble Tea update loop via Program.Send.
type ObservationMsg struct {
	Obs *protocol.Observation
}

// WelcomeMsg wraps the handshake reply, delivered once at startup.
type WelcomeMsg struct {
	Welcome *protocol.Welcome
}

// ErrMsg wraps a terminal connection error; receiving one quits the program.
type ErrMsg struct {
	Err error
}

// Model is the Bubble Tea model for the observe subcommand.
type Model struct {
	welcome *protocol.Welcome
	obs     *protocol.Observation
	err     error
	width   int
	height  int
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case WelcomeMsg:
		m.welcome = msg.Welcome

	case ObservationMsg:
		m.obs = msg.Obs

	case ErrMsg:
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("connection error: %v\n", m.err))
	}
	if m.obs == nil {
		return InfoStyle.Render("waiting for first observation...\n")
	}

	header := HeaderStyle.Render(" tetris-ai observe ")
	if m.welcome != nil {
		header += InfoStyle.Render(fmt.Sprintf("  game_id=%s  client_id=%d  role=%s", m.welcome.GameID, m.welcome.ClientID, m.welcome.Role))
	}

	board := BorderStyle.Render(renderBoard(m.obs))
	sidebar := BorderStyle.Render(renderSidebar(m.obs))

	body := lipgloss.JoinHorizontal(lipgloss.Top, board, sidebar)
	footer := InfoStyle.Render("q to quit")

	return lipgloss.JoinVertical(lipgloss.Top, header, body, footer)
}

// renderBoard draws the locked-block grid from board.cells. The active piece
// and its ghost are reported separately by the observation (active.x/y,
// ghost_y) rather than baked into cells, so this display-only client renders
// them as a status line under the grid rather than re-deriving per-kind
// shape offsets the engine package owns exclusively.
func renderBoard(obs *protocol.Observation) string {
	var b strings.Builder
	for _, row := range obs.Board.Cells {
		for _, cell := range row {
			glyph := "  "
			color := cellColors[0]
			if cell != 0 {
				color = cellColors[cell&7]
				glyph = "[]"
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render(glyph))
		}
		b.WriteString("\n")
	}
	if obs.HasActive && obs.Active != nil {
		fmt.Fprintf(&b, "active: %s rot=%d at (%d,%d)  ghost_y=%d\n",
			obs.Active.Kind, obs.Active.Rotation, obs.Active.X, obs.Active.Y, obs.GhostY)
	}
	return b.String()
}

func renderSidebar(obs *protocol.Observation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", SuccessStyle.Render(fmt.Sprintf("Score %d", obs.Score)))
	fmt.Fprintf(&b, "Level %d  Lines %d\n\n", obs.Level, obs.Lines)
	fmt.Fprintf(&b, "Hold: %s\n", holdLabel(obs))
	fmt.Fprintf(&b, "Next: %s\n\n", obs.Next)

	if len(obs.NextQueue) > 0 {
		b.WriteString("Queue: ")
		b.WriteString(strings.Join(obs.NextQueue, " "))
		b.WriteString("\n\n")
	}

	if obs.LastEvent != nil {
		if obs.LastEvent.Locked {
			fmt.Fprintf(&b, "locked: lines=%d tspin=%s combo=%d b2b=%v\n",
				obs.LastEvent.LinesCleared, obs.LastEvent.TSpin, obs.LastEvent.Combo, obs.LastEvent.BackToBack)
		}
	}

	if obs.Paused {
		b.WriteString(WarningStyle.Render("PAUSED") + "\n")
	}
	if obs.GameOver {
		b.WriteString(ErrorStyle.Render("GAME OVER") + "\n")
	}

	return b.String()
}

func holdLabel(obs *protocol.Observation) string {
	if !obs.HoldOccupied {
		return "-"
	}
	return obs.Hold
}
