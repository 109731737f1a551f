package telemetry

import (
	"fmt"
	"math/rand"
)

// EventWeight pairs an activity with its relative draw weight.
type EventWeight struct {
	Event  ActivityStatus `json:"event" yaml:"event"`
	Weight int            `json:"weight" yaml:"weight"`
}

// DefaultEventWeights returns the stock weight table (sum 80).
func DefaultEventWeights() []EventWeight {
	return []EventWeight{
		{Event: ActivitySafe, Weight: 40},
		{Event: ActivityChainsaw, Weight: 10},
		{Event: ActivityTreeFall, Weight: 7},
		{Event: ActivityWildfire, Weight: 5},
		{Event: ActivityBatteryLow, Weight: 3},
		{Event: ActivityHumanIntrusion, Weight: 15},
	}
}

// EventSimulator draws activity events proportionally to their weights.
type EventSimulator struct {
	rand    *rand.Rand
	weights []EventWeight
	total   int
}

// NewEventSimulator validates the weight table and binds it to a random source.
func NewEventSimulator(r *rand.Rand, weights []EventWeight) (*EventSimulator, error) {
	if r == nil {
		return nil, fmt.Errorf("event simulator: nil random source")
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("event simulator: no events")
	}
	total := 0
	for _, w := range weights {
		if w.Weight < 0 {
			return nil, fmt.Errorf("event simulator: negative weight %d for %q", w.Weight, w.Event)
		}
		total += w.Weight
	}
	if total == 0 {
		return nil, fmt.Errorf("event simulator: weights sum to zero")
	}
	ws := make([]EventWeight, len(weights))
	copy(ws, weights)
	return &EventSimulator{rand: r, weights: ws, total: total}, nil
}

// Next draws one event.
func (e *EventSimulator) Next() ActivityStatus {
	n := e.rand.Intn(e.total)
	for _, w := range e.weights {
		if n < w.Weight {
			return w.Event
		}
		n -= w.Weight
	}
	// unreachable while total is the sum of weights
	return e.weights[len(e.weights)-1].Event
}

// Probability returns weight/total for ev, or 0 when ev is not in the table.
func (e *EventSimulator) Probability(ev ActivityStatus) float64 {
	sum := 0
	for _, w := range e.weights {
		if w.Event == ev {
			sum += w.Weight
		}
	}
	return float64(sum) / float64(e.total)
}
