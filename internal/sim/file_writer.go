package sim

import (
	"encoding/json"
	"os"

	"forestwatch-sim/internal/telemetry"
)

// FileWriter writes node rows and snapshots to JSONL files.
type FileWriter struct {
	rowFile  *os.File
	snapFile *os.File
	rowEnc   *json.Encoder
	snapEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. snapshotPath may be empty to skip snapshots.
func NewFileWriter(rowPath, snapshotPath string) (*FileWriter, error) {
	rf, err := os.Create(rowPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{rowFile: rf, rowEnc: json.NewEncoder(rf)}
	if snapshotPath != "" {
		sf, err := os.Create(snapshotPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.snapFile = sf
		fw.snapEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// Write logs a single node row.
func (f *FileWriter) Write(row telemetry.NodeRow) error {
	return f.rowEnc.Encode(row)
}

// WriteBatch logs multiple node rows.
func (f *FileWriter) WriteBatch(rows []telemetry.NodeRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshot logs a snapshot, if enabled.
func (f *FileWriter) WriteSnapshot(snap Snapshot) error {
	if f.snapEnc == nil {
		return nil
	}
	return f.snapEnc.Encode(snap)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.rowFile != nil {
		if e := f.rowFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.snapFile != nil {
		if e := f.snapFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
