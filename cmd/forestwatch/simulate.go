package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"forestwatch-sim/internal/admin"
	"forestwatch-sim/internal/logging"
	"forestwatch-sim/internal/sim"
)

var (
	simPrintOnly bool
	simTick      time.Duration
	simLogFile   string
	simTUI       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a single simulated node network",
	Long:  "simulate owns one node table and fires the refresh trigger on a ticker, or from the r key with --tui.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" && !cmd.Flags().Changed("tick") {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return fmt.Errorf("invalid TICK_INTERVAL: %w", err)
			}
			tickInterval = d
		}

		var out io.Writer = os.Stdout
		var tui *sim.TUIWriter
		if simTUI {
			// the TUI owns the terminal
			out = io.Discard
			tui = sim.NewTUIWriter(admin.Title)
			defer tui.Close()
		}
		log := logging.NewWithWriter(out, cfg.LogLevel, cfg.LogFormat).With("cluster_id", cfg.ClusterID)

		var extra sim.NodeWriter
		if tui != nil {
			extra = tui
		}
		writer, cleanup, err := newWriters(cfg, writerOptions{
			printOnly:      simPrintOnly,
			stdoutFallback: !simTUI,
			logFile:        simLogFile,
		}, extra)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		simulator, err := sim.NewSimulator(cfg.ClusterID, cfg, writer, tickInterval, nil, nil)
		if err != nil {
			return err
		}
		if rs, ok := writer.(sim.RefresherSetter); ok {
			rs.SetRefresher(func() { simulator.Refresh(ctx) })
		}

		simulator.Run(ctx)
		log.Info("simulation stopped", "session_id", simulator.SessionID())
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print node rows to STDOUT instead of the configured sinks")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 5*time.Second, "Refresh interval (e.g. 500ms, 2s); 0 disables the ticker")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export node rows (JSONL); snapshots go to <path>.snapshots")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the terminal dashboard")
}
