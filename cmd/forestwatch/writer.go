package main

import (
	"errors"
	"io"

	"forestwatch-sim/internal/config"
	"forestwatch-sim/internal/sim"
)

type writerOptions struct {
	printOnly bool
	// stdoutFallback prints rows when no external sink is configured.
	stdoutFallback bool
	logFile        string
}

// newWriters sets up the sink chain from configuration and flags, appending
// extra writers such as metrics or the TUI. The cleanup function closes any
// sinks holding resources.
func newWriters(cfg *config.SimulationConfig, opts writerOptions, extra ...sim.NodeWriter) (sim.NodeWriter, func(), error) {
	var writers []sim.NodeWriter
	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	external := false
	if !opts.printOnly {
		if cfg.Sinks.Greptime.Endpoint != "" {
			gw, err := sim.NewGreptimeDBWriter(cfg.Sinks.Greptime.Endpoint, cfg.Sinks.Greptime.Database, cfg.Sinks.Greptime.Table)
			if err != nil {
				return nil, nil, err
			}
			writers = append(writers, gw)
			external = true
		}
		if len(cfg.Sinks.Kafka.Brokers) > 0 {
			kw, err := sim.NewKafkaWriter(cfg.Sinks.Kafka.Brokers, cfg.Sinks.Kafka.Topic)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			writers = append(writers, kw)
			closers = append(closers, kw)
			external = true
		}
	}
	if opts.printOnly || (!external && opts.stdoutFallback) {
		writers = append(writers, sim.NewStdoutWriter())
	}

	if opts.logFile != "" {
		fw, err := sim.NewFileWriter(opts.logFile, opts.logFile+".snapshots")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		writers = append(writers, fw)
		closers = append(closers, fw)
	}
	for _, w := range extra {
		if w != nil {
			writers = append(writers, w)
		}
	}

	switch len(writers) {
	case 0:
		return nil, nil, errors.New("no writers configured")
	case 1:
		return writers[0], cleanup, nil
	}
	return sim.NewMultiWriter(writers...), cleanup, nil
}
