// ColorStdoutWriter prints human-friendly, colorized node tables to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"forestwatch-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter renders each snapshot as a table with ANSI colors.
// Individual rows are ignored; the snapshot carries the full table.
type ColorStdoutWriter struct {
	out io.Writer
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{out: os.Stdout}
}

// Write implements NodeWriter; rows are rendered from the snapshot instead.
func (w *ColorStdoutWriter) Write(telemetry.NodeRow) error { return nil }

// WriteSnapshot prints the node table followed by the summary metrics.
func (w *ColorStdoutWriter) WriteSnapshot(snap Snapshot) error {
	fmt.Fprintf(w.out, "%s[%s]%s %scluster=%s%s %srefresh=%d%s\n",
		colorGray, snap.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, snap.ClusterID, colorReset,
		colorCyan, snap.Refreshes, colorReset)

	// every cell is painted so the escape bytes tabwriter counts are equal per column
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	header := make([]string, len(telemetry.DisplayColumns))
	for i, c := range telemetry.DisplayColumns {
		header[i] = paint(colorBlue, c)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, rec := range snap.Records {
		cells := telemetry.DisplayRow(rec)
		colors := []string{
			colorBlue,
			statusColor(rec.Status),
			colorGray,
			colorGray,
			batteryColor(rec.BatteryPercent, snap.CriticalBelow),
			temperatureColor(rec.TemperatureC),
			activityColor(rec.Activity),
			colorGray,
		}
		for i := range cells {
			cells[i] = paint(colors[i], cells[i])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var parts []string
	for _, m := range snap.Summary.Metrics() {
		parts = append(parts, fmt.Sprintf("%s=%d", m.Label, m.Value))
	}
	_, err := fmt.Fprintf(w.out, "%s%s%s\n\n", colorMagenta, strings.Join(parts, "  "), colorReset)
	return err
}

func paint(color, s string) string {
	return color + s + colorReset
}

func statusColor(s telemetry.OperationalStatus) string {
	if s == telemetry.StatusMaintenance {
		return colorGray
	}
	return colorGreen
}

func batteryColor(pct, criticalBelow int) string {
	if criticalBelow <= 0 {
		criticalBelow = DefaultCriticalBattery
	}
	if pct < criticalBelow {
		return colorRed
	}
	return colorGreen
}

func temperatureColor(t float64) string {
	switch telemetry.TemperatureCategory(t) {
	case "High":
		return colorRed
	case "Low":
		return colorCyan
	default:
		return colorGreen
	}
}

func activityColor(a telemetry.ActivityStatus) string {
	switch a {
	case telemetry.ActivitySafe:
		return colorGreen
	case telemetry.ActivityWildfire, telemetry.ActivityChainsaw:
		return colorRed
	default:
		return colorYellow
	}
}
