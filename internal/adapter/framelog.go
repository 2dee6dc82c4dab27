package adapter

import (
	"fmt"
	"os"
	"sync"
)

// frameLogger appends raw inbound frames to TETRIS_AI_LOG_PATH, sampled
// every LogEveryN frames and capped at LogMaxLines total, per spec.md §6.
// A zero-value Config.LogPath disables logging entirely. Grounded on
// GITRIS-backend's ad hoc log.Printf debug tracing throughout
// session_manager.go, generalized into a bounded, file-backed raw-frame
// recorder since this spec names explicit sampling/cap knobs that repo's
// logging never needed.
type frameLogger struct {
	mu       sync.Mutex
	file     *os.File
	everyN   int
	maxLines int
	seen     int
	written  int
}

func newFrameLogger(cfg Config) *frameLogger {
	if cfg.LogPath == "" {
		return &frameLogger{}
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &frameLogger{}
	}
	everyN := cfg.LogEveryN
	if everyN <= 0 {
		everyN = 1
	}
	return &frameLogger{file: f, everyN: everyN, maxLines: cfg.LogMaxLines}
}

func (l *frameLogger) record(clientID uint64, raw []byte) {
	if l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen++
	if l.seen%l.everyN != 0 {
		return
	}
	if l.maxLines > 0 && l.written >= l.maxLines {
		return
	}
	fmt.Fprintf(l.file, "%d %s\n", clientID, raw)
	l.written++
}
