package tui

import "github.com/charmbracelet/lipgloss"

// Static styles for content elements. Grounded on lox-pokerforbots'
// internal/tui/styles.go palette, narrowed to the colors this board-rendering
// view actually uses.
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))

	// cellColors maps a board cell's piece-kind code (spec.md §6: 0 empty,
	// 1..7 I,O,T,S,Z,J,L) to the block glyph's color.
	cellColors = [8]lipgloss.Color{
		"#1A1A1A", // empty
		"#00F0F0", // I cyan
		"#F0F000", // O yellow
		"#A000F0", // T purple
		"#00F000", // S green
		"#F00000", // Z red
		"#0000F0", // J blue
		"#F0A000", // L orange
	}
)
