package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"javamaybe/internal/trace"
)

type traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		tf  traceFlags
		err error
	)
	if tf.output, err = pf.GetString("trace"); err != nil {
		return tf, err
	}
	if tf.level, err = pf.GetString("trace-level"); err != nil {
		return tf, err
	}
	if tf.mode, err = pf.GetString("trace-mode"); err != nil {
		return tf, err
	}
	if tf.ringSize, err = pf.GetInt("trace-ring-size"); err != nil {
		return tf, err
	}
	if tf.heartbeat, err = pf.GetDuration("trace-heartbeat"); err != nil {
		return tf, err
	}
	// --trace без уровня включает фазы
	if tf.output != "" && !pf.Changed("trace-level") {
		tf.level = "phase"
	}
	return tf, nil
}

// setupTracing attaches a tracer built from the trace flags to the command
// context and returns the function that flushes and closes it. A failed run
// also dumps what a ring tracer remembers.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	tf, err := readTraceFlags(cmd)
	if err != nil {
		return nil, fmt.Errorf("trace flags: %w", err)
	}
	level, err := trace.ParseLevel(tf.level)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	mode, err := trace.ParseMode(tf.mode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	output := tf.output
	if output == "" {
		output = "-"
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   tf.ringSize,
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	progress := &trace.Progress{}
	ctx := trace.WithProgress(trace.WithTracer(cmd.Context(), tracer), progress)
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, tf.heartbeat, progress)
	return func(failed bool) {
		heartbeat.Stop()
		if failed {
			if err := trace.DumpRecent(tracer, cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
