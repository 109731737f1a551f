package telemetry

import (
	"math"
	"math/rand"
	"testing"
)

func TestEventFrequencies(t *testing.T) {
	const draws = 10000
	sim, err := NewEventSimulator(rand.New(rand.NewSource(2024)), DefaultEventWeights())
	if err != nil {
		t.Fatalf("NewEventSimulator: %v", err)
	}
	counts := make(map[ActivityStatus]int)
	for i := 0; i < draws; i++ {
		counts[sim.Next()]++
	}
	for _, w := range DefaultEventWeights() {
		p := float64(w.Weight) / 80
		if got := sim.Probability(w.Event); got != p {
			t.Errorf("Probability(%s) = %f, want %f", w.Event, got, p)
		}
		mean := draws * p
		sd := math.Sqrt(draws * p * (1 - p))
		if diff := math.Abs(float64(counts[w.Event]) - mean); diff > 4*sd {
			t.Errorf("%s: observed %d, expected %.0f ± %.1f", w.Event, counts[w.Event], mean, 4*sd)
		}
	}
}

func TestEventSimulatorSameSeedSameSequence(t *testing.T) {
	a, _ := NewEventSimulator(rand.New(rand.NewSource(9)), DefaultEventWeights())
	b, _ := NewEventSimulator(rand.New(rand.NewSource(9)), DefaultEventWeights())
	for i := 0; i < 200; i++ {
		if ea, eb := a.Next(), b.Next(); ea != eb {
			t.Fatalf("draw %d: %s != %s", i, ea, eb)
		}
	}
}

func TestEventSimulatorZeroWeightNeverDrawn(t *testing.T) {
	weights := []EventWeight{{Event: ActivitySafe, Weight: 0}, {Event: ActivityWildfire, Weight: 1}}
	sim, err := NewEventSimulator(rand.New(rand.NewSource(1)), weights)
	if err != nil {
		t.Fatalf("NewEventSimulator: %v", err)
	}
	for i := 0; i < 100; i++ {
		if ev := sim.Next(); ev != ActivityWildfire {
			t.Fatalf("drew %s with zero weight", ev)
		}
	}
}

func TestNewEventSimulatorErrors(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	cases := map[string]struct {
		r *rand.Rand
		w []EventWeight
	}{
		"nil source": {nil, DefaultEventWeights()},
		"empty":      {r, nil},
		"negative":   {r, []EventWeight{{Event: ActivitySafe, Weight: -1}, {Event: ActivityChainsaw, Weight: 2}}},
		"all zero":   {r, []EventWeight{{Event: ActivitySafe, Weight: 0}}},
	}
	for name, c := range cases {
		if _, err := NewEventSimulator(c.r, c.w); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
