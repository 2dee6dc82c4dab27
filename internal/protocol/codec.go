package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// maxFrameBytes is the longest line-delimited frame ReadFrame accepts. A
// longer line is read in full before it is rejected, so this limit does not
// bound the memory a single read uses.
const maxFrameBytes = 1 << 20

// Reader accumulates bytes from a connection until a newline, per spec.md
// §4.6.1 ("Readers accumulate bytes until a newline; parse the line; reject
// empty/partial frames"). It is not safe for concurrent use; each connection
// owns exactly one Reader on its reader goroutine.
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 4096)}
}

// ReadFrame returns the next newline-delimited frame with the trailing
// newline stripped. An empty frame (a bare newline) is rejected, and so is
// a partial frame cut off by the end of the stream before its newline.
func (r *Reader) ReadFrame() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return nil, fmt.Errorf("protocol: empty frame")
	}
	if len(line) > maxFrameBytes {
		return nil, fmt.Errorf("protocol: frame exceeds %d bytes", maxFrameBytes)
	}
	return line, nil
}

// PeekType unmarshals only the envelope's type field, enough to decide which
// concrete struct to decode the full frame into.
func PeekType(frame []byte) (Type, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}

// Writer serializes outbound frames with the flush policy spec.md §4.6.1
// mandates: immediate flush for welcome/ack/error, and a buffered write
// followed by an explicit Flush for observation. Grounded on
// lox-pokerforbots' internal/server/connection.go writePump, which drains a
// per-connection channel to a bufio-wrapped socket; this Writer is the
// framing layer that pump writes through.
type Writer struct {
	mu sync.Mutex
	bw *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 4096)}
}

func (w *Writer) writeLocked(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

// WriteImmediate marshals v, appends a newline, and flushes before
// returning. Used for welcome/ack/error.
func (w *Writer) WriteImmediate(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeLocked(v); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteBuffered marshals v and appends a newline without flushing. The
// caller is responsible for calling Flush; the adapter's writePump does so
// right after each observation. Used for observation.
func (w *Writer) WriteBuffered(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLocked(v)
}

// Flush flushes any buffered frames written via WriteBuffered.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bw.Flush()
}
