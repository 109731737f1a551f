package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"forestwatch-sim/internal/config"
	"forestwatch-sim/internal/logging"
)

// Sessions hands out one independent Simulator per session ID.
type Sessions struct {
	clusterID string
	cfg       *config.SimulationConfig
	writer    NodeWriter
	ttl       time.Duration
	now       func() time.Time
	created   int64
	sims      map[string]*Simulator
	onChange  func(active int)
	mu        sync.Mutex
}

// NewSessions creates an empty session table. Sessions idle for longer than
// cfg.SessionTTL are dropped by Sweep; a zero TTL keeps them forever.
func NewSessions(clusterID string, cfg *config.SimulationConfig, writer NodeWriter, now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		clusterID: clusterID,
		cfg:       cfg,
		writer:    writer,
		ttl:       cfg.SessionTTL,
		now:       now,
		sims:      make(map[string]*Simulator),
	}
}

// OnChange registers a callback invoked with the session count after it changes.
func (ss *Sessions) OnChange(fn func(active int)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.onChange = fn
}

// Get returns the simulator for id. Unknown or empty IDs get a new session
// with a freshly generated ID, which is returned alongside it.
func (ss *Sessions) Get(id string) (*Simulator, string, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if s, ok := ss.sims[id]; ok && id != "" {
		s.touch()
		return s, id, nil
	}

	var r *rand.Rand
	if ss.cfg.Seed != 0 {
		// distinct but reproducible stream per session
		r = rand.New(rand.NewSource(ss.cfg.Seed + ss.created))
	}
	s, err := NewSimulator(ss.clusterID, ss.cfg, ss.writer, 0, r, ss.now)
	if err != nil {
		return nil, "", err
	}
	ss.created++
	ss.sims[s.sessionID] = s
	ss.notifyLocked()
	return s, s.sessionID, nil
}

// Len returns the number of live sessions.
func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sims)
}

// Sweep drops sessions idle longer than the TTL and returns how many were removed.
func (ss *Sessions) Sweep() int {
	if ss.ttl <= 0 {
		return 0
	}
	cutoff := ss.now().Add(-ss.ttl)
	ss.mu.Lock()
	defer ss.mu.Unlock()
	removed := 0
	for id, s := range ss.sims {
		if s.LastSeen().Before(cutoff) {
			delete(ss.sims, id)
			removed++
		}
	}
	if removed > 0 {
		ss.notifyLocked()
	}
	return removed
}

// Run sweeps idle sessions periodically until ctx is done.
func (ss *Sessions) Run(ctx context.Context, every time.Duration) {
	if ss.ttl <= 0 || every <= 0 {
		return
	}
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := ss.Sweep(); n > 0 {
				log.Info("expired sessions", "count", n, "remaining", ss.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}

func (ss *Sessions) notifyLocked() {
	if ss.onChange != nil {
		ss.onChange(len(ss.sims))
	}
}
