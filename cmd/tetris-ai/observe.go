package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/tui"
)

// ObserveCmd connects to a running adapter as a read-only observer and
// renders its observation stream in a terminal, grounded on
// lox-pokerforbots' cmd/pokerforbots client subcommand shape.
type ObserveCmd struct {
	Host string `kong:"help='Adapter host',default='127.0.0.1'"`
	Port int    `kong:"help='Adapter port',default='7777'"`
}

func (c *ObserveCmd) Run() error {
	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)

	client, err := tui.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	p := tea.NewProgram(tui.NewModel(), tea.WithAltScreen())
	go client.Run(p)

	_, err = p.Run()
	return err
}
