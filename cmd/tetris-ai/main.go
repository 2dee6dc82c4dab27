// Command tetris-ai runs the Tetris deterministic core behind the AI
// adapter protocol server, or connects to a running instance as a
// read-only observer. Grounded on lox-pokerforbots' cmd/pokerforbots/
// main.go kong.CLI shape.
package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the adapter server"`
	Observe ObserveCmd       `cmd:"" help:"Connect as an observer and render remote snapshots"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tetris-ai"),
		kong.Description("Deterministic Tetris core with an AI adapter protocol server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
