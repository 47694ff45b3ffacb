package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes each event as it arrives. Output is buffered; Flush
// and Close push it out.
type StreamTracer struct {
	mu     sync.Mutex
	dst    io.Writer
	w      *bufio.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{dst: w, w: bufio.NewWriter(w), level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// ошибки записи трассы не должны ронять прогон
	_, _ = t.w.Write(data)
	if ev.Kind == KindHeartbeat {
		// a heartbeat is only useful if it is visible now
		_ = t.w.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Flush()
}

// Close flushes and closes the destination unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.dst.(io.Closer); ok && !isStdStream(t.dst) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
