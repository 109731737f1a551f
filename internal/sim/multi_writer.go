package sim

import (
	"errors"

	"forestwatch-sim/internal/telemetry"
)

// MultiWriter fan-outs node rows and snapshots to multiple writers.
// Every writer is attempted; the errors are joined.
type MultiWriter struct {
	writers []NodeWriter
}

// NewMultiWriter creates a new MultiWriter, skipping nil writers.
func NewMultiWriter(ws ...NodeWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Write sends a node row to all writers.
func (mw *MultiWriter) Write(row telemetry.NodeRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple node rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.NodeRow) error {
	var errs []error
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

// WriteSnapshot forwards a snapshot to every writer that accepts one.
func (mw *MultiWriter) WriteSnapshot(snap Snapshot) error {
	var errs []error
	for _, w := range mw.writers {
		if sw, ok := w.(SnapshotWriter); ok {
			if err := sw.WriteSnapshot(snap); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// SetRefresher forwards a refresh trigger to writers that drive refreshes themselves.
func (mw *MultiWriter) SetRefresher(fn func()) {
	for _, w := range mw.writers {
		if r, ok := w.(RefresherSetter); ok {
			r.SetRefresher(fn)
		}
	}
}
