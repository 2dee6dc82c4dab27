package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderReadFrameSplitsOnNewline(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\n{\"b\":2}\n"))

	f1, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(f1))

	f2, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(f2))

	_, err = r.ReadFrame()
	assert.Error(t, err)
}

func TestReaderReadFrameRejectsEmptyLine(t *testing.T) {
	r := NewReader(strings.NewReader("\n{\"a\":1}\n"))
	_, err := r.ReadFrame()
	assert.Error(t, err)
}

func TestReaderReadFrameTrimsCarriageReturn(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\r\n"))
	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(f))
}

func TestReaderReadFrameRejectsOversizedFrame(t *testing.T) {
	huge := strings.Repeat("x", maxFrameBytes+1)
	r := NewReader(strings.NewReader(huge + "\n"))
	_, err := r.ReadFrame()
	assert.Error(t, err)
}

func TestPeekTypeExtractsDiscriminant(t *testing.T) {
	typ, err := PeekType([]byte(`{"type":"hello","seq":1,"ts":0}`))
	require.NoError(t, err)
	assert.Equal(t, TypeHello, typ)
}

func TestPeekTypeRejectsMalformedJSON(t *testing.T) {
	_, err := PeekType([]byte(`not json`))
	assert.Error(t, err)
}

func TestWriterWriteImmediateFlushesEachMessage(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteImmediate(&Ack{Envelope: Envelope{Type: TypeAck, Seq: 1}, Status: "ok"}))
	assert.Contains(t, buf.String(), `"status":"ok"`)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriterWriteBufferedRequiresExplicitFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteBuffered(&Ack{Envelope: Envelope{Type: TypeAck, Seq: 1}, Status: "ok"}))
	assert.Empty(t, buf.String())

	require.NoError(t, w.Flush())
	assert.Contains(t, buf.String(), `"status":"ok"`)
}

func TestReadFrameThenPeekTypeRoundTripsACommand(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteImmediate(&Command{
		Envelope: Envelope{Type: TypeCommand, Seq: 3},
		Mode:     ModeAction,
		Actions:  []ActionName{ActionHardDrop},
	}))

	r := NewReader(&buf)
	frame, err := r.ReadFrame()
	require.NoError(t, err)

	typ, err := PeekType(frame)
	require.NoError(t, err)
	assert.Equal(t, TypeCommand, typ)
}
