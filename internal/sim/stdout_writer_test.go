package sim

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"forestwatch-sim/internal/telemetry"
)

func TestStdoutWriterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &StdoutWriter{out: buf}
	rows := []telemetry.NodeRow{
		{ClusterID: "c1", NodeID: "Node-01", Timestamp: time.Unix(0, 0)},
		{ClusterID: "c1", NodeID: "Node-02", Timestamp: time.Unix(0, 0)},
	}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "{") {
		t.Fatalf("expected two JSON lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], `"node_id":"Node-02"`) {
		t.Fatalf("missing node id in %q", lines[1])
	}
}

func TestColorStdoutWriterSnapshot(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{out: buf}
	records := []telemetry.NodeRecord{
		{
			NodeInfo:       telemetry.NodeInfo{ID: "Node-01", Lat: 10.0765, Lon: 76.3472, Status: telemetry.StatusActive},
			Activity:       telemetry.ActivityWildfire,
			BatteryPercent: 15,
			TemperatureC:   55.5,
			OccurredAt:     "02:30:05 PM",
		},
		{
			NodeInfo:       telemetry.NodeInfo{ID: "Node-05", Status: telemetry.StatusMaintenance},
			Activity:       telemetry.ActivitySafe,
			BatteryPercent: 80,
			TemperatureC:   30,
		},
	}
	snap := Snapshot{ClusterID: "c1", Refreshes: 2, Records: records, Summary: Summarize(records, DefaultCriticalBattery), Timestamp: time.Unix(0, 0)}
	if err := w.WriteSnapshot(snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Node ID", "Occurred at",
		colorRed + "Wildfire" + colorReset,
		colorRed + "15%" + colorReset,
		"High (55.5°C)",
		colorGray + "Maintenance" + colorReset,
		"Fire Alerts=1", "Critical Batteries=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if err := w.Write(telemetry.NodeRow{}); err != nil || strings.Count(buf.String(), "Node ID") != 1 {
		t.Fatalf("row writes should not print")
	}
}

func TestColorStdoutWriterUsesConfiguredThreshold(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{out: buf}
	records := []telemetry.NodeRecord{
		{NodeInfo: telemetry.NodeInfo{ID: "Node-01", Status: telemetry.StatusActive}, Activity: telemetry.ActivitySafe, BatteryPercent: 25, TemperatureC: 30},
		{NodeInfo: telemetry.NodeInfo{ID: "Node-02", Status: telemetry.StatusActive}, Activity: telemetry.ActivitySafe, BatteryPercent: 35, TemperatureC: 30},
	}
	snap := Snapshot{Records: records, Summary: Summarize(records, 30), CriticalBelow: 30}
	if err := w.WriteSnapshot(snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, colorRed+"25%"+colorReset) {
		t.Errorf("battery below threshold should be red:\n%s", out)
	}
	if !strings.Contains(out, colorGreen+"35%"+colorReset) {
		t.Errorf("battery above threshold should be green:\n%s", out)
	}
}
