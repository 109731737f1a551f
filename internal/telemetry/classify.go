package telemetry

import "fmt"

// Temperature thresholds in °C. Both bounds are inclusive on their own side.
const (
	HighTemperatureC = 50.0
	LowTemperatureC  = 20.0
)

// TemperatureCategory returns "High", "Low" or "Normal" for a reading.
func TemperatureCategory(t float64) string {
	switch {
	case t >= HighTemperatureC:
		return "High"
	case t <= LowTemperatureC:
		return "Low"
	default:
		return "Normal"
	}
}

// ClassifyTemperature labels a reading, e.g. "Normal (35.5°C)".
func ClassifyTemperature(t float64) string {
	return fmt.Sprintf("%s (%.1f°C)", TemperatureCategory(t), t)
}
