// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"forestwatch-sim/internal/telemetry"
)

// Battery bounds the simulated battery draw and the critical threshold.
type Battery struct {
	Min           int `yaml:"min"`
	Max           int `yaml:"max"`
	CriticalBelow int `yaml:"critical_below"`
}

// Temperature bounds the simulated temperature draw in °C.
type Temperature struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// GreptimeSink configures the GreptimeDB writer.
type GreptimeSink struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
	Table    string `yaml:"table"`
}

// KafkaSink configures the Kafka writer.
type KafkaSink struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Sinks groups the optional external writers.
type Sinks struct {
	Greptime GreptimeSink `yaml:"greptime"`
	Kafka    KafkaSink    `yaml:"kafka"`
}

// SimulationConfig is the root configuration for nodes, draws and outputs.
type SimulationConfig struct {
	ClusterID    string                  `yaml:"cluster_id"`
	Nodes        []telemetry.NodeInfo    `yaml:"nodes"`
	EventWeights []telemetry.EventWeight `yaml:"event_weights"`
	Battery      Battery                 `yaml:"battery"`
	Temperature  Temperature             `yaml:"temperature"`
	Seed         int64                   `yaml:"seed"`
	SessionTTL   time.Duration           `yaml:"session_ttl"`
	HTTPAddr     string                  `yaml:"http_addr"`
	LogLevel     string                  `yaml:"log_level"`
	LogFormat    string                  `yaml:"log_format"`
	Sinks        Sinks                   `yaml:"sinks"`
}

// Default returns the built-in configuration: six nodes, stock weights and ranges.
func Default() *SimulationConfig {
	r := telemetry.DefaultRanges()
	return &SimulationConfig{
		ClusterID:    "forest-01",
		Nodes:        telemetry.DefaultRegistry(),
		EventWeights: telemetry.DefaultEventWeights(),
		Battery:      Battery{Min: r.BatteryMin, Max: r.BatteryMax, CriticalBelow: 20},
		Temperature:  Temperature{Min: r.TemperatureMin, Max: r.TemperatureMax},
		SessionTTL:   30 * time.Minute,
		HTTPAddr:     ":8080",
		LogLevel:     "info",
		LogFormat:    "text",
		Sinks: Sinks{
			Greptime: GreptimeSink{Database: "public"},
			Kafka:    KafkaSink{Topic: "forest-node-telemetry"},
		},
	}
}

// Load validates a YAML file against the CUE schema and decodes it over Default().
// An empty cueSchemaPath uses the embedded schema.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot decode YAML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the semantic constraints the schema cannot express.
func (c *SimulationConfig) Validate() error {
	if err := telemetry.ValidateRegistry(c.Nodes); err != nil {
		return fmt.Errorf("nodes: %w", err)
	}
	if err := c.Ranges().Validate(); err != nil {
		return err
	}
	total := 0
	for _, w := range c.EventWeights {
		if w.Weight < 0 {
			return fmt.Errorf("event_weights: negative weight for %q", w.Event)
		}
		total += w.Weight
	}
	if total == 0 {
		return fmt.Errorf("event_weights: weights sum to zero")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl: must not be negative")
	}
	return nil
}

// Ranges converts the battery and temperature bounds for the generator.
func (c *SimulationConfig) Ranges() telemetry.Ranges {
	return telemetry.Ranges{
		BatteryMin:     c.Battery.Min,
		BatteryMax:     c.Battery.Max,
		TemperatureMin: c.Temperature.Min,
		TemperatureMax: c.Temperature.Max,
	}
}

// Registry returns a copy of the configured node list.
func (c *SimulationConfig) Registry() []telemetry.NodeInfo {
	out := make([]telemetry.NodeInfo, len(c.Nodes))
	copy(out, c.Nodes)
	return out
}
