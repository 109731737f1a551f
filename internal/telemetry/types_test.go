package telemetry

import (
	"testing"
	"time"
)

func TestNewNodeRow(t *testing.T) {
	rec := NodeRecord{
		NodeInfo:       NodeInfo{ID: "Node-03", Lat: 10.0791, Lon: 76.35, Status: StatusActive},
		Activity:       ActivityWildfire,
		BatteryPercent: 42,
		TemperatureC:   55.2,
		OccurredAt:     "01:02:03 AM",
	}
	ts := time.Unix(0, 0).UTC()
	row := NewNodeRow("forest-01", "s1", "r1", rec, ts)
	if row.NodeID != "Node-03" || row.ClusterID != "forest-01" || row.SessionID != "s1" || row.RefreshID != "r1" {
		t.Fatalf("unexpected ids: %+v", row)
	}
	if row.TemperatureStatus != "High (55.2°C)" {
		t.Errorf("temperature status = %q", row.TemperatureStatus)
	}
	if row.Activity != "Wildfire" || row.Status != "Active" || row.BatteryPercent != 42 {
		t.Errorf("unexpected fields: %+v", row)
	}
	if !row.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v", row.Timestamp)
	}
}

func TestNodeRowTableName(t *testing.T) {
	orig := NodeTableName
	NodeTableName = "custom"
	defer func() { NodeTableName = orig }()
	if (NodeRow{}).TableName() != "custom" {
		t.Errorf("expected custom table name, got %s", (NodeRow{}).TableName())
	}
}
