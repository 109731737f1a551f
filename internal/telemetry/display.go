package telemetry

import "fmt"

// DisplayColumns are the dashboard table headings, in order.
var DisplayColumns = []string{
	"Node ID",
	"Node Status",
	"Latitude",
	"Longitude",
	"Battery Percentage",
	"Temperature Status",
	"Activity Status",
	"Occurred at",
}

// FormatBattery renders a battery level as "N%".
func FormatBattery(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// DisplayRow projects a record onto the dashboard columns.
func DisplayRow(rec NodeRecord) []string {
	return []string{
		rec.ID,
		string(rec.Status),
		fmt.Sprintf("%.4f", rec.Lat),
		fmt.Sprintf("%.4f", rec.Lon),
		FormatBattery(rec.BatteryPercent),
		ClassifyTemperature(rec.TemperatureC),
		string(rec.Activity),
		rec.OccurredAt,
	}
}
