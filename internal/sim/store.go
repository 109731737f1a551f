package sim

import "forestwatch-sim/internal/telemetry"

// Store is the per-session node table. Record order follows the registry.
// A Store is not safe for concurrent use; Simulator serialises access.
type Store struct {
	records       []telemetry.NodeRecord
	index         map[string]int
	criticalBelow int
}

// Initialize seeds one record per registry entry.
func Initialize(registry []telemetry.NodeInfo, gen *telemetry.Generator, criticalBelow int) *Store {
	s := &Store{
		records:       make([]telemetry.NodeRecord, 0, len(registry)),
		index:         make(map[string]int, len(registry)),
		criticalBelow: criticalBelow,
	}
	for _, info := range registry {
		s.index[info.ID] = len(s.records)
		s.records = append(s.records, gen.Seed(info))
	}
	return s
}

// Refresh redraws event, battery and temperature for every Active node.
// Maintenance nodes are left exactly as they were.
func (s *Store) Refresh(gen *telemetry.Generator) {
	for i := range s.records {
		if !s.records[i].Active() {
			continue
		}
		gen.Update(&s.records[i])
	}
}

// Records returns a copy of the table in registry order.
func (s *Store) Records() []telemetry.NodeRecord {
	out := make([]telemetry.NodeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup returns the record for id.
func (s *Store) Lookup(id string) (telemetry.NodeRecord, bool) {
	i, ok := s.index[id]
	if !ok {
		return telemetry.NodeRecord{}, false
	}
	return s.records[i], true
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.records)
}

// Summarize computes the summary over the current records.
func (s *Store) Summarize() Summary {
	return Summarize(s.records, s.criticalBelow)
}
