package sim

import "forestwatch-sim/internal/telemetry"

// DefaultCriticalBattery is the battery percentage below which a node counts as critical.
const DefaultCriticalBattery = 20

// Summary aggregates node counts for the dashboard.
type Summary struct {
	TotalNodes           int `json:"total_nodes"`
	ActiveNodes          int `json:"active_nodes"`
	MaintenanceNodes     int `json:"maintenance_nodes"`
	AlertCount           int `json:"alert_count"`
	FireCount            int `json:"fire_count"`
	CriticalBatteryCount int `json:"critical_battery_count"`
}

// Summarize counts statuses, alerts, fires and critical batteries in one pass.
func Summarize(records []telemetry.NodeRecord, criticalBelow int) Summary {
	sum := Summary{TotalNodes: len(records)}
	for _, r := range records {
		switch r.Status {
		case telemetry.StatusActive:
			sum.ActiveNodes++
		case telemetry.StatusMaintenance:
			sum.MaintenanceNodes++
		}
		if r.Activity != telemetry.ActivitySafe {
			sum.AlertCount++
		}
		if r.Activity == telemetry.ActivityWildfire {
			sum.FireCount++
		}
		if r.BatteryPercent < criticalBelow {
			sum.CriticalBatteryCount++
		}
	}
	return sum
}

// Metric is one labelled summary value.
type Metric struct {
	Label string
	Value int
}

// Metrics returns the summary as labelled values in display order.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{"Total Nodes", s.TotalNodes},
		{"Active Nodes", s.ActiveNodes},
		{"Maintenance Nodes", s.MaintenanceNodes},
		{"Unusual Activity", s.AlertCount},
		{"Fire Alerts", s.FireCount},
		{"Critical Batteries", s.CriticalBatteryCount},
	}
}
