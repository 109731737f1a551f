package sim

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"forestwatch-sim/internal/telemetry"
)

// ReplayLog replays node rows from r to writer. A speed >0 scales the gaps
// between row timestamps; rows of the same refresh share a timestamp and are
// written back to back. If speed <= 0, no artificial delay is inserted.
func ReplayLog(r io.Reader, writer NodeWriter, speed float64) error {
	return replay(r, writer, speed, time.Sleep)
}

func replay(r io.Reader, writer NodeWriter, speed float64, sleep func(time.Duration)) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row telemetry.NodeRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				sleep(diff)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a JSONL file and replays its node rows.
func ReplayLogFile(path string, writer NodeWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
