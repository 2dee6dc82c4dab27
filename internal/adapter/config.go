package adapter

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the adapter server's environment-derived configuration
// (spec.md §6 "Environment variables"). Grounded on GITRIS-backend's
// cmd/api/main.go, which loads a handful of os.Getenv values after an
// optional godotenv.Load(); this repo generalizes that pattern to the full
// TETRIS_AI_* vocabulary spec.md defines, with typed defaults instead of
// GITRIS-backend's fatal-if-missing DATABASE_URL (nothing here is mandatory).
type Config struct {
	Host string
	Port int

	Disabled bool

	ObsHz      int
	MaxPending int

	LogPath     string
	LogEveryN   int
	LogMaxLines int
}

const (
	defaultHost       = "127.0.0.1"
	defaultPort       = 7777
	defaultObsHz      = 20
	defaultMaxPending = 10
)

// LoadConfig reads TETRIS_AI_* environment variables, applying spec.md §6's
// defaults for anything unset. Callers are expected to have already called
// godotenv.Load() (see cmd/tetris-ai) so a .env file populates os.Environ
// before this runs.
func LoadConfig() (Config, error) {
	cfg := Config{
		Host:       defaultHost,
		Port:       defaultPort,
		ObsHz:      defaultObsHz,
		MaxPending: defaultMaxPending,
	}

	if v := os.Getenv("TETRIS_AI_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("TETRIS_AI_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("adapter: invalid TETRIS_AI_PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("TETRIS_AI_DISABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("adapter: invalid TETRIS_AI_DISABLED %q: %w", v, err)
		}
		cfg.Disabled = b
	}
	if v := os.Getenv("TETRIS_AI_OBS_HZ"); v != "" {
		hz, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("adapter: invalid TETRIS_AI_OBS_HZ %q: %w", v, err)
		}
		if hz < 1 || hz > 60 {
			return Config{}, fmt.Errorf("adapter: TETRIS_AI_OBS_HZ must be in 1..60, got %d", hz)
		}
		cfg.ObsHz = hz
	}
	if v := os.Getenv("TETRIS_AI_MAX_PENDING"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("adapter: invalid TETRIS_AI_MAX_PENDING %q: %w", v, err)
		}
		cfg.MaxPending = n
	}

	cfg.LogPath = os.Getenv("TETRIS_AI_LOG_PATH")
	if v := os.Getenv("TETRIS_AI_LOG_EVERY_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("adapter: invalid TETRIS_AI_LOG_EVERY_N %q: %w", v, err)
		}
		cfg.LogEveryN = n
	}
	if v := os.Getenv("TETRIS_AI_LOG_MAX_LINES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("adapter: invalid TETRIS_AI_LOG_MAX_LINES %q: %w", v, err)
		}
		cfg.LogMaxLines = n
	}

	return cfg, nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ObsIntervalMS is the minimum time between observations sent to a single
// throttled observer (spec.md §4.6.7).
func (c Config) ObsIntervalMS() int64 {
	return int64(1000 / c.ObsHz)
}
