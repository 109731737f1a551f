// Simulator owning one session's node store
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"forestwatch-sim/internal/config"
	"forestwatch-sim/internal/logging"
	"forestwatch-sim/internal/telemetry"
)

// NodeWriter is an interface to support different output writers.
type NodeWriter interface {
	Write(telemetry.NodeRow) error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.NodeRow) error
}

// SnapshotWriter receives the full table and summary after each refresh.
type SnapshotWriter interface {
	WriteSnapshot(Snapshot) error
}

// Snapshot is the rendered state of one session at one point in time.
type Snapshot struct {
	ClusterID     string                 `json:"cluster_id"`
	SessionID     string                 `json:"session_id"`
	RefreshID     string                 `json:"refresh_id"`
	Refreshes     int                    `json:"refreshes"`
	Records       []telemetry.NodeRecord `json:"nodes"`
	Summary       Summary                `json:"summary"`
	CriticalBelow int                    `json:"critical_below"`
	RefreshedAt   time.Time              `json:"refreshed_at"`
	Timestamp     time.Time              `json:"ts"`
}

// Simulator owns the node store of a single session. The store is created on
// first access and every exported method is safe for concurrent use.
type Simulator struct {
	clusterID     string
	sessionID     string
	registry      []telemetry.NodeInfo
	gen           *telemetry.Generator
	criticalBelow int
	writer        NodeWriter
	tickInterval  time.Duration
	now           func() time.Time

	store         *Store
	refreshes     int
	lastRefresh   string
	lastRefreshAt time.Time
	lastSeen      time.Time
	mu            sync.Mutex
}

// NewSimulator builds a simulator from configuration. A nil r is seeded from
// cfg.Seed, or from the clock when the seed is zero; a nil now uses time.Now.
func NewSimulator(clusterID string, cfg *config.SimulationConfig, writer NodeWriter, tickInterval time.Duration, r *rand.Rand, now func() time.Time) (*Simulator, error) {
	if now == nil {
		now = time.Now
	}
	if r == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = now().UnixNano()
		}
		r = rand.New(rand.NewSource(seed))
	}
	gen, err := telemetry.NewGenerator(r, cfg.EventWeights, cfg.Ranges(), now)
	if err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}
	critical := cfg.Battery.CriticalBelow
	if critical <= 0 {
		critical = DefaultCriticalBattery
	}
	return &Simulator{
		clusterID:     clusterID,
		sessionID:     uuid.New().String(),
		registry:      cfg.Registry(),
		gen:           gen,
		criticalBelow: critical,
		writer:        writer,
		tickInterval:  tickInterval,
		now:           now,
		lastSeen:      now(),
	}, nil
}

// SessionID returns the identifier of the session owning this simulator.
func (s *Simulator) SessionID() string {
	return s.sessionID
}

// CriticalBelow is the battery percentage under which a node counts as critical.
func (s *Simulator) CriticalBelow() int {
	return s.criticalBelow
}

// ensureStore seeds the store on first use and exports the seed rows.
// Callers hold s.mu.
func (s *Simulator) ensureStore(ctx context.Context) {
	if s.store != nil {
		return
	}
	s.store = Initialize(s.registry, s.gen, s.criticalBelow)
	s.lastRefresh = uuid.New().String()
	s.lastRefreshAt = s.now().UTC()
	logging.FromContext(ctx).Debug("session store initialized", "session_id", s.sessionID, "nodes", s.store.Len())
	s.emit(ctx, s.snapshotLocked())
}

// Refresh is the refresh trigger: it redraws telemetry for all Active nodes,
// exports the resulting rows and returns the new snapshot.
func (s *Simulator) Refresh(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.ensureStore(ctx)
	s.store.Refresh(s.gen)
	s.refreshes++
	s.lastRefresh = uuid.New().String()
	s.lastRefreshAt = s.now().UTC()
	snap := s.snapshotLocked()
	s.emit(ctx, snap)
	return snap
}

// Snapshot returns the current table and summary without mutating anything
// except the lazily created store.
func (s *Simulator) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.ensureStore(ctx)
	return s.snapshotLocked()
}

// Summary recomputes the summary from the current store.
func (s *Simulator) Summary(ctx context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.ensureStore(ctx)
	return s.store.Summarize()
}

// Records returns a copy of the current node table.
func (s *Simulator) Records(ctx context.Context) []telemetry.NodeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	s.ensureStore(ctx)
	return s.store.Records()
}

// touch marks the session as accessed.
func (s *Simulator) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

// LastSeen reports when the session was last accessed.
func (s *Simulator) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Simulator) snapshotLocked() Snapshot {
	return Snapshot{
		ClusterID:     s.clusterID,
		SessionID:     s.sessionID,
		RefreshID:     s.lastRefresh,
		Refreshes:     s.refreshes,
		Records:       s.store.Records(),
		Summary:       s.store.Summarize(),
		CriticalBelow: s.criticalBelow,
		RefreshedAt:   s.lastRefreshAt,
		Timestamp:     s.now().UTC(),
	}
}
