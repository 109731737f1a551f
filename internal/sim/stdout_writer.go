// Writer implementation printing node rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"forestwatch-sim/internal/telemetry"
)

// StdoutWriter prints node rows to STDOUT as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// NewStdoutWriter picks the colored table writer when STDOUT is a terminal
// and JSON lines otherwise.
func NewStdoutWriter() NodeWriter {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return NewColorStdoutWriter()
	}
	return NewJSONStdoutWriter()
}

// Write outputs a single node row.
func (w *StdoutWriter) Write(row telemetry.NodeRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteBatch outputs multiple node rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.NodeRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
