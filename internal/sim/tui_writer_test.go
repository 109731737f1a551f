package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"forestwatch-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	rows := []telemetry.NodeRow{
		{NodeID: "Node-01", Activity: "Safe"},
		{NodeID: "Node-02", Activity: "Chainsaw", OccurredAt: "02:30:05 PM"},
	}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("only alert rows should be logged, got %d msgs", len(p.msgs))
	}
	lm, ok := p.msgs[0].(logMsg)
	if !ok || !strings.Contains(lm.line, "Node-02") {
		t.Fatalf("expected logMsg for Node-02, got %#v", p.msgs[0])
	}
	if err := w.WriteSnapshot(Snapshot{Refreshes: 1}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if _, ok := p.msgs[1].(snapshotMsg); !ok {
		t.Fatalf("expected snapshotMsg, got %T", p.msgs[1])
	}
	w.SetRefresher(func() {})
	if _, ok := p.msgs[2].(setRefresherMsg); !ok {
		t.Fatalf("expected setRefresherMsg, got %T", p.msgs[2])
	}
}

func TestTUIModelSnapshotFillsTable(t *testing.T) {
	m := newTUIModel("Forest")
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m = mi.(tuiModel)
	records := []telemetry.NodeRecord{
		{NodeInfo: telemetry.NodeInfo{ID: "Node-01", Status: telemetry.StatusActive}, Activity: telemetry.ActivityTreeFall, BatteryPercent: 40, TemperatureC: 18.2, OccurredAt: "02:30:05 PM"},
		{NodeInfo: telemetry.NodeInfo{ID: "Node-05", Status: telemetry.StatusMaintenance}, Activity: telemetry.ActivitySafe, BatteryPercent: 70, TemperatureC: 30},
	}
	snap := Snapshot{ClusterID: "c1", Refreshes: 4, Records: records, Summary: Summarize(records, DefaultCriticalBattery)}
	mi, _ = m.Update(snapshotMsg{snap: snap})
	m = mi.(tuiModel)
	if got := len(m.table.Rows()); got != 2 {
		t.Fatalf("table rows = %d", got)
	}
	if m.table.Rows()[0][6] != "Tree Fall" {
		t.Fatalf("activity cell = %q", m.table.Rows()[0][6])
	}
	view := m.View()
	for _, want := range []string{"Forest", "Unusual Activity", "refresh=4"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTUIModelKeys(t *testing.T) {
	m := newTUIModel("Forest")
	called := make(chan struct{}, 1)
	mi, _ := m.Update(setRefresherMsg{fn: func() { called <- struct{}{} }})
	m = mi.(tuiModel)
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(tuiModel)
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("refresh key did not trigger refresher")
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = mi.(tuiModel)
	if !strings.Contains(m.View(), "Key Bindings") {
		t.Fatalf("help view not shown")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestTUIModelWrapToggle(t *testing.T) {
	m := newTUIModel("Forest")
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "one two three four five six"})
	m = mi.(tuiModel)
	if view := m.vp.View(); strings.Contains(view, "four five") || !strings.Contains(view, "five six") {
		t.Fatalf("expected log line wrapped after \"four\", got %q", view)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if m.wrap {
		t.Fatalf("wrap should be off after toggle")
	}
}
