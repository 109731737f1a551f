package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"forestwatch-sim/internal/config"
)

var (
	configPath string
	schemaPath string
)

var rootCmd = &cobra.Command{
	Use:   "forestwatch",
	Short: "Forest sensor network simulator",
	Long:  "forestwatch simulates a small network of forest sensor nodes reporting logging, intrusion and fire activity.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/forestwatch.yaml", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig reads the configuration file. A missing default file falls back
// to the built-in configuration; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*config.SimulationConfig, error) {
	cfg, err := config.Load(configPath, schemaPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets deployment environment variables override sink settings.
func applyEnv(cfg *config.SimulationConfig) {
	if v := os.Getenv("CLUSTER_ID"); v != "" {
		cfg.ClusterID = v
	}
	if v := os.Getenv("GREPTIMEDB_ENDPOINT"); v != "" {
		cfg.Sinks.Greptime.Endpoint = v
	}
	if v := os.Getenv("GREPTIMEDB_TABLE"); v != "" {
		cfg.Sinks.Greptime.Table = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Sinks.Kafka.Brokers = brokers
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Sinks.Kafka.Topic = v
	}
}
