package sim

import (
	"context"
	"time"

	"forestwatch-sim/internal/logging"
	"forestwatch-sim/internal/telemetry"
)

// Run fires the refresh trigger every tick and stops when the context is done.
// The seed state is exported before the first tick. A non-positive tick
// interval disables the ticker.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "session_id", s.sessionID)
	s.Snapshot(ctx)
	if s.tickInterval <= 0 {
		// refreshes only come from an external trigger
		<-ctx.Done()
		log.Info("stopping simulator")
		return
	}
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap := s.Refresh(ctx)
			log.Debug("refresh", "refresh_id", snap.RefreshID, "alerts", snap.Summary.AlertCount, "fires", snap.Summary.FireCount)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// emit writes one row per node and forwards the snapshot to snapshot-aware writers.
func (s *Simulator) emit(ctx context.Context, snap Snapshot) {
	if s.writer == nil {
		return
	}
	log := logging.FromContext(ctx)

	batch := make([]telemetry.NodeRow, 0, len(snap.Records))
	for _, rec := range snap.Records {
		batch = append(batch, telemetry.NewNodeRow(snap.ClusterID, snap.SessionID, snap.RefreshID, rec, snap.Timestamp))
	}

	// Batch support if writer implements WriteBatch
	if bw, ok := s.writer.(batchWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("batch write failed", "err", err)
		}
	} else {
		for _, row := range batch {
			if err := s.writer.Write(row); err != nil {
				log.Error("write failed", "node_id", row.NodeID, "err", err)
			}
		}
	}

	if sw, ok := s.writer.(SnapshotWriter); ok {
		if err := sw.WriteSnapshot(snap); err != nil {
			log.Error("snapshot write failed", "err", err)
		}
	}
}
