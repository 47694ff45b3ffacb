package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything; FromContext returns it when no tracer is attached.
var Nop Tracer = nopTracer{}

// multiTracer fans events out; its level is the most verbose member's.
type multiTracer []Tracer

// Multi combines tracers. Nil and disabled tracers are dropped.
func Multi(tracers ...Tracer) Tracer {
	var m multiTracer
	for _, t := range tracers {
		if t != nil && t.Enabled() {
			m = append(m, t)
		}
	}
	switch len(m) {
	case 0:
		return Nop
	case 1:
		return m[0]
	}
	return m
}

func (m multiTracer) Emit(ev *Event) {
	for _, t := range m {
		t.Emit(ev)
	}
}

func (m multiTracer) Flush() error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (m multiTracer) Close() error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

func (m multiTracer) Level() Level {
	var l Level
	for _, t := range m {
		l = max(l, t.Level())
	}
	return l
}

func (m multiTracer) Enabled() bool { return len(m) > 0 }

// StorageMode says where events go: written as they happen, kept in memory
// for a dump after a failed run, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func ParseMode(s string) (StorageMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer of one javamaybe invocation.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks NDJSON for .ndjson/.json paths
	Output     io.Writer // overrides OutputPath
	OutputPath string    // "-" or "" for stderr
	RingSize   int       // default 4096
}

func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch strings.ToLower(filepath.Ext(cfg.OutputPath)) {
	case ".ndjson", ".json":
		return FormatNDJSON
	}
	return FormatText
}

func (cfg Config) ringSize() int {
	if cfg.RingSize <= 0 {
		return 4096
	}
	return cfg.RingSize
}

// New builds the tracer for cfg. LevelError always records into a ring: unit
// events stay in memory and reach the output only through DumpRecent.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	mode := cfg.Mode
	if cfg.Level == LevelError {
		mode = ModeRing
	}
	switch mode {
	case ModeRing:
		return NewRingTracer(cfg.ringSize(), cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, cfg.format())
		if mode == ModeStream {
			return stream, nil
		}
		return Multi(stream, NewRingTracer(cfg.ringSize(), cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

// DumpRecent writes what a ring-only tracer remembers to the configured
// output. Streaming tracers already wrote every event and are left alone.
func DumpRecent(t Tracer, cfg Config) error {
	ring, ok := t.(*RingTracer)
	if !ok {
		return nil
	}
	w, err := openOutput(cfg)
	if err != nil {
		return err
	}
	err = ring.Dump(w, cfg.format())
	if c, ok := w.(io.Closer); ok && !isStdStream(w) {
		err = errors.Join(err, c.Close())
	}
	return err
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
