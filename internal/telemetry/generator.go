package telemetry

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Ranges bounds the random battery and temperature draws.
type Ranges struct {
	BatteryMin     int
	BatteryMax     int
	TemperatureMin float64
	TemperatureMax float64
}

// DefaultRanges returns the stock bounds: battery 10..95 %, temperature 15..60 °C.
func DefaultRanges() Ranges {
	return Ranges{BatteryMin: 10, BatteryMax: 95, TemperatureMin: 15.0, TemperatureMax: 60.0}
}

// Validate rejects inverted or empty ranges.
func (r Ranges) Validate() error {
	if r.BatteryMin < 0 || r.BatteryMax > 100 || r.BatteryMin > r.BatteryMax {
		return fmt.Errorf("invalid battery range [%d,%d]", r.BatteryMin, r.BatteryMax)
	}
	if math.IsNaN(r.TemperatureMin) || math.IsNaN(r.TemperatureMax) || r.TemperatureMin > r.TemperatureMax {
		return fmt.Errorf("invalid temperature range [%.1f,%.1f]", r.TemperatureMin, r.TemperatureMax)
	}
	return nil
}

// Generator simulates telemetry for sensor nodes.
type Generator struct {
	rand   *rand.Rand
	events *EventSimulator
	ranges Ranges
	now    func() time.Time
}

// NewGenerator creates a generator. A nil now defaults to time.Now.
func NewGenerator(r *rand.Rand, weights []EventWeight, ranges Ranges, now func() time.Time) (*Generator, error) {
	if err := ranges.Validate(); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	events, err := NewEventSimulator(r, weights)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rand: r, events: events, ranges: ranges, now: now}, nil
}

// Seed builds the initial record for a node: Safe, no timestamp, random readings.
func (g *Generator) Seed(info NodeInfo) NodeRecord {
	return NodeRecord{
		NodeInfo:       info,
		Activity:       ActivitySafe,
		BatteryPercent: g.battery(),
		TemperatureC:   g.temperature(),
		OccurredAt:     "",
	}
}

// Update overwrites the mutable fields of rec with a fresh draw.
// Identity and operational status are left untouched.
func (g *Generator) Update(rec *NodeRecord) {
	ev := g.events.Next()
	rec.Activity = ev
	rec.BatteryPercent = g.battery()
	rec.TemperatureC = g.temperature()
	if ev != ActivitySafe {
		rec.OccurredAt = g.now().Format(OccurredAtLayout)
	} else {
		rec.OccurredAt = ""
	}
}

// battery draws a uniform integer in [BatteryMin, BatteryMax].
func (g *Generator) battery() int {
	return g.ranges.BatteryMin + g.rand.Intn(g.ranges.BatteryMax-g.ranges.BatteryMin+1)
}

// temperature draws a uniform value in [TemperatureMin, TemperatureMax] rounded to 0.1.
func (g *Generator) temperature() float64 {
	span := g.ranges.TemperatureMax - g.ranges.TemperatureMin
	t := g.ranges.TemperatureMin + g.rand.Float64()*span
	t = math.Round(t*10) / 10
	// rounding may step outside bounds that are not on a 0.1 grid
	return math.Min(math.Max(t, g.ranges.TemperatureMin), g.ranges.TemperatureMax)
}
