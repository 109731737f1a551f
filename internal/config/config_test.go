package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml", "")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ClusterID != "forest-test" {
		t.Errorf("cluster_id = %q", cfg.ClusterID)
	}
	if len(cfg.Nodes) != 2 || cfg.Nodes[1].ID != "North-2" || cfg.Nodes[1].Status != "Maintenance" {
		t.Errorf("unexpected nodes: %+v", cfg.Nodes)
	}
	// fields absent from the file keep their defaults
	if cfg.Battery.Min != 30 || cfg.Battery.Max != 95 || cfg.Battery.CriticalBelow != 35 {
		t.Errorf("unexpected battery: %+v", cfg.Battery)
	}
	if cfg.Temperature.Min != 15 || cfg.Temperature.Max != 60 {
		t.Errorf("unexpected temperature: %+v", cfg.Temperature)
	}
	if len(cfg.EventWeights) != 6 {
		t.Errorf("expected default event weights, got %+v", cfg.EventWeights)
	}
	if cfg.Seed != 11 || cfg.SessionTTL != 5*time.Minute {
		t.Errorf("seed=%d ttl=%s", cfg.Seed, cfg.SessionTTL)
	}
	if len(cfg.Sinks.Kafka.Brokers) != 1 || cfg.Sinks.Kafka.Topic != "forest-node-telemetry" {
		t.Errorf("unexpected kafka sink: %+v", cfg.Sinks.Kafka)
	}
}

func TestLoadConfig_SchemaErrors(t *testing.T) {
	for _, f := range []string{"testdata/bad_status.yaml", "testdata/unknown_field.yaml"} {
		if _, err := Load(f, ""); err == nil {
			t.Errorf("%s: expected schema error", f)
		}
	}
}

func TestLoadConfig_SemanticErrors(t *testing.T) {
	if _, err := Load("testdata/zero_weights.yaml", ""); err == nil {
		t.Fatalf("expected error for zero weights")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "inverted.yaml")
	if err := os.WriteFile(path, []byte("battery:\n  min: 90\n  max: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path, ""); err == nil {
		t.Fatalf("expected error for inverted battery range")
	}
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Nodes) != 6 || cfg.Battery.CriticalBelow != 20 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	cfg, err := Load("../../config/forestwatch.yaml", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Nodes) != 6 || cfg.Nodes[4].Status != "Maintenance" {
		t.Fatalf("unexpected nodes: %+v", cfg.Nodes)
	}
}

func TestValidateWithCue_ExternalSchema(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.cue")
	if err := os.WriteFile(schema, []byte("#Config: {cluster_id: =~\"^forest-\"}\n"), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(good, []byte("cluster_id: forest-9\n"), 0o644)
	os.WriteFile(bad, []byte("cluster_id: desert-9\n"), 0o644)
	if err := ValidateWithCue(good, schema); err != nil {
		t.Errorf("good config rejected: %v", err)
	}
	if err := ValidateWithCue(bad, schema); err == nil {
		t.Errorf("bad config accepted")
	}
	if err := ValidateWithCue(good, filepath.Join(dir, "missing.cue")); err == nil {
		t.Errorf("expected error for missing schema")
	}
}
