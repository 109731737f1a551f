// Node structs and the exported row shape with greptime tags
package telemetry

import (
	"os"
	"time"
)

// OperationalStatus is fixed for the lifetime of a node.
type OperationalStatus string

// Operational status constants.
const (
	StatusActive      OperationalStatus = "Active"
	StatusMaintenance OperationalStatus = "Maintenance"
)

// ActivityStatus is the simulated event currently reported by a node.
type ActivityStatus string

// Activity status constants. The values are the labels shown on the dashboard.
const (
	ActivitySafe           ActivityStatus = "Safe"
	ActivityChainsaw       ActivityStatus = "Chainsaw"
	ActivityTreeFall       ActivityStatus = "Tree Fall"
	ActivityWildfire       ActivityStatus = "Wildfire"
	ActivityBatteryLow     ActivityStatus = "Battery Low"
	ActivityHumanIntrusion ActivityStatus = "Human Intrusion"
)

// OccurredAtLayout formats event times on a 12-hour clock.
const OccurredAtLayout = "03:04:05 PM"

// NodeInfo is the static identity of a sensor node.
type NodeInfo struct {
	ID     string            `json:"id" yaml:"id"`
	Lat    float64           `json:"lat" yaml:"lat"`
	Lon    float64           `json:"lon" yaml:"lon"`
	Status OperationalStatus `json:"status" yaml:"status"`
}

// NodeRecord holds a node's identity plus its latest simulated telemetry.
type NodeRecord struct {
	NodeInfo
	Activity       ActivityStatus `json:"activity"`
	BatteryPercent int            `json:"battery_percent"`
	TemperatureC   float64        `json:"temperature_c"`
	OccurredAt     string         `json:"occurred_at"`
}

// Active reports whether the node takes part in refreshes.
func (r NodeRecord) Active() bool {
	return r.Status == StatusActive
}

// NodeRow represents one exported node reading for GreptimeDB and log sinks.
type NodeRow struct {
	ClusterID         string    `json:"cluster_id"`      // TAG
	SessionID         string    `json:"session_id"`      // TAG
	NodeID            string    `json:"node_id"`         // TAG
	RefreshID         string    `json:"refresh_id"`      // FIELD
	Status            string    `json:"status"`          // FIELD
	Lat               float64   `json:"lat"`             // FIELD
	Lon               float64   `json:"lon"`             // FIELD
	BatteryPercent    int       `json:"battery_percent"` // FIELD
	TemperatureC      float64   `json:"temperature_c"`   // FIELD
	TemperatureStatus string    `json:"temperature_status"`
	Activity          string    `json:"activity"`
	OccurredAt        string    `json:"occurred_at"`
	Timestamp         time.Time `json:"ts"` // TIME INDEX
}

// NodeTableName holds the table name used when writing to GreptimeDB.
// It defaults to "forest_node_telemetry" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var NodeTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "forest_node_telemetry"
}()

func (NodeRow) TableName() string {
	return NodeTableName
}

// NewNodeRow flattens a record into an exportable row.
func NewNodeRow(clusterID, sessionID, refreshID string, rec NodeRecord, ts time.Time) NodeRow {
	return NodeRow{
		ClusterID:         clusterID,
		SessionID:         sessionID,
		NodeID:            rec.ID,
		RefreshID:         refreshID,
		Status:            string(rec.Status),
		Lat:               rec.Lat,
		Lon:               rec.Lon,
		BatteryPercent:    rec.BatteryPercent,
		TemperatureC:      rec.TemperatureC,
		TemperatureStatus: ClassifyTemperature(rec.TemperatureC),
		Activity:          string(rec.Activity),
		OccurredAt:        rec.OccurredAt,
		Timestamp:         ts,
	}
}
