package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"forestwatch-sim/internal/admin"
	"forestwatch-sim/internal/logging"
	"forestwatch-sim/internal/metrics"
	"forestwatch-sim/internal/sim"
)

var (
	serveAddr      string
	servePrintOnly bool
	serveLogFile   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long:  "serve starts the dashboard; every browser session gets its own independent node table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel, cfg.LogFormat).With("cluster_id", cfg.ClusterID)

		m := metrics.New()
		writer, cleanup, err := newWriters(cfg, writerOptions{printOnly: servePrintOnly, logFile: serveLogFile}, m)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		sessions := sim.NewSessions(cfg.ClusterID, cfg, writer, nil)
		sessions.OnChange(m.SetSessions)
		go sessions.Run(ctx, time.Minute)

		addr := cfg.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv := admin.NewServer(sessions, m, log)
		if err := srv.Start(ctx, addr); err != nil {
			return err
		}
		log.Info("dashboard stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address (overrides http_addr)")
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print node rows to STDOUT instead of the configured sinks")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Path to export node rows (JSONL)")
}
