package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"forestwatch-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// RefresherSetter is implemented by writers that can trigger a refresh themselves.
type RefresherSetter interface {
	SetRefresher(fn func())
}

type logMsg struct{ line string }

type snapshotMsg struct{ snap Snapshot }

type setRefresherMsg struct{ fn func() }

const maxLogLines = 200

var columnWidths = []int{9, 12, 10, 10, 9, 20, 16, 12}

// TUIWriter renders the node table and summary in a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
// Quitting the TUI interrupts the process unless Close was called first.
func NewTUIWriter(title string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(title), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write logs rows that carry an alert; safe rows only show up in the table.
func (w *TUIWriter) Write(row telemetry.NodeRow) error {
	if row.Activity == string(telemetry.ActivitySafe) || row.OccurredAt == "" {
		return nil
	}
	color := colorYellow
	if row.Activity == string(telemetry.ActivityWildfire) || row.Activity == string(telemetry.ActivityChainsaw) {
		color = colorRed
	}
	line := fmt.Sprintf("%s%s%s %s%s%s %s at %.4f,%.4f",
		colorGray, row.OccurredAt, colorReset,
		colorBlue, row.NodeID, colorReset,
		paint(color, row.Activity), row.Lat, row.Lon)
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteBatch logs each row of a refresh.
func (w *TUIWriter) WriteBatch(rows []telemetry.NodeRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshot replaces the table contents and summary.
func (w *TUIWriter) WriteSnapshot(snap Snapshot) error {
	w.program.Send(snapshotMsg{snap: snap})
	return nil
}

// SetRefresher binds the "r" key to fn.
func (w *TUIWriter) SetRefresher(fn func()) {
	w.program.Send(setRefresherMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	title   string
	table   table.Model
	vp      viewport.Model
	logs    []string
	snap    Snapshot
	refresh func()
	wrap    bool
	help    bool
	width   int
	height  int
}

func newTUIModel(title string) tuiModel {
	cols := make([]table.Column, len(telemetry.DisplayColumns))
	for i, c := range telemetry.DisplayColumns {
		width := len(c)
		if i < len(columnWidths) && columnWidths[i] > width {
			width = columnWidths[i]
		}
		cols[i] = table.Column{Title: c, Width: width}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(len(telemetry.DefaultRegistry())+1),
	)
	return tuiModel{
		title: title,
		table: t,
		vp:    viewport.New(0, 0),
		wrap:  true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.resize()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.refresh != nil {
				go m.refresh()
			}
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "h", "?":
			m.help = !m.help
		}
	case snapshotMsg:
		m.snap = msg.snap
		rows := make([]table.Row, 0, len(msg.snap.Records))
		for _, rec := range msg.snap.Records {
			rows = append(rows, table.Row(telemetry.DisplayRow(rec)))
		}
		m.table.SetRows(rows)
		m.table.SetHeight(len(rows) + 1)
		m.resize()
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case setRefresherMsg:
		m.refresh = msg.fn
	}
	return m, nil
}

func (m *tuiModel) resize() {
	fixed := lipgloss.Height(m.renderTitle()) + lipgloss.Height(m.table.View()) +
		lipgloss.Height(m.renderSummary()) + 4
	h := m.height - fixed
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	m.vp.GotoBottom()
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			l = wordwrap.String(l, m.vp.Width)
		}
		lines = append(lines, l)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.width)
	return strings.Join([]string{
		m.renderTitle(),
		m.table.View(),
		divider,
		m.renderSummary(),
		divider,
		m.vp.View(),
		m.renderFooter(),
	}, "\n")
}

func (m tuiModel) renderTitle() string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render(m.title)
}

func (m tuiModel) renderSummary() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	value := lipgloss.NewStyle().Bold(true)
	alert := value.Foreground(lipgloss.Color("9"))
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(" │ \n │ ")
	var cells []string
	for i, metric := range m.snap.Summary.Metrics() {
		if i > 0 {
			cells = append(cells, sep)
		}
		v := value
		// alert-type counters turn red once non-zero
		if metric.Value > 0 && i >= 3 {
			v = alert
		}
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Left,
			label.Render(metric.Label), v.Render(fmt.Sprintf("%d", metric.Value))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m tuiModel) renderFooter() string {
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	return fmt.Sprintf("%scluster=%s%s %srefresh=%d%s | Wrap %s | r refresh  ? help  q quit",
		colorBlue, m.snap.ClusterID, colorReset,
		colorCyan, m.snap.Refreshes, colorReset,
		wrapIndicator)
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" r    refresh all active nodes",
		" w    toggle wrap for the alert log",
		" h/?  toggle this help view",
		" q    quit",
	}
	return strings.Join(lines, "\n")
}
