package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"

	"github.com/progate-hackathon-strawberry-flavor/tetris-ai-core/internal/adapter"
)

// ServeCmd runs the adapter server until interrupted. Configuration is
// primarily environment-driven (spec.md §6); the flags here exist only to
// override the environment for local development, mirroring GITRIS-backend's
// cmd/api/main.go optional godotenv.Load() ahead of os.Getenv reads.
type ServeCmd struct {
	EnvFile string `kong:"help='Path to a .env file to load before reading TETRIS_AI_* variables',default='.env'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed for the initial game (optional)'"`
}

func (c *ServeCmd) Run() error {
	if _, err := os.Stat(c.EnvFile); err == nil {
		if err := godotenv.Load(c.EnvFile); err != nil {
			log.Warn("failed to load env file", "path", c.EnvFile, "error", err)
		}
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := adapter.LoadConfig()
	if err != nil {
		return err
	}

	var seed uint32
	if c.Seed != nil {
		seed = uint32(*c.Seed)
	} else {
		seed = rand.Uint32()
	}

	srv := adapter.NewServer(cfg, logger, quartz.NewReal(), seed)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	return srv.Run(ctx)
}
