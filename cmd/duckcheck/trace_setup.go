package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"duckcheck/internal/project"
	"duckcheck/internal/trace"
)

// setupTracing builds the tracer from the trace flags, falling back to the
// [trace] table of duckcheck.toml for flags left unset, and attaches it to
// the command context. The returned cleanup stops the heartbeat and
// flushes the tracer; in ring mode with an output path it also writes the
// ring there.
func setupTracing(cmd *cobra.Command, cfg project.TraceConfig) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if !flags.Changed("trace") && cfg.Output != "" {
		traceOutput = cfg.Output
	}

	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if !flags.Changed("trace-level") && cfg.Level != "" {
		levelStr = cfg.Level
	}

	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	if !flags.Changed("trace-mode") && cfg.Mode != "" {
		modeStr = cfg.Mode
	}

	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// an output path alone turns tracing on at phase level
	if level == trace.LevelOff && traceOutput != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, heartbeatInterval)

	cleanup := func() {
		heartbeat.Stop()
		if mode == trace.ModeRing && traceOutput != "" {
			if err := dumpRing(tracer, traceOutput, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func dumpRing(tracer trace.Tracer, path string, format trace.Format) error {
	ring, ok := trace.RingOf(tracer)
	if !ok {
		return nil
	}
	if format == trace.FormatAuto {
		format = trace.FormatForPath(path)
	}
	if path == "-" {
		return ring.Dump(os.Stderr, format)
	}
	// #nosec G304 -- path comes from the command line
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// dumpTraceOnPanic writes the ring buffer to w before re-panicking, so the
// last events leading to a crash are not lost.
func dumpTraceOnPanic(tracer trace.Tracer, w io.Writer) {
	r := recover()
	if r == nil {
		return
	}
	if ring, ok := trace.RingOf(tracer); ok && ring.Len() > 0 {
		fmt.Fprintf(w, "duckcheck: panic, last %d trace events:\n", ring.Len())
		_ = ring.Dump(w, trace.FormatText)
	}
	panic(r)
}
