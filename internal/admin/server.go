package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"forestwatch-sim/internal/logging"
	"forestwatch-sim/internal/metrics"
	"forestwatch-sim/internal/sim"
	"forestwatch-sim/internal/telemetry"
)

// SessionCookie names the cookie carrying the dashboard session ID.
const SessionCookie = "forestwatch_session"

// Title is the dashboard heading.
const Title = "Illegal Forest Logging and Trespassing Detection"

//go:embed templates/index.html
var content embed.FS

// Server serves the web dashboard and JSON API. Every browser session gets
// its own simulator through the session table.
type Server struct {
	sessions  *sim.Sessions
	metrics   *metrics.Metrics
	log       *slog.Logger
	accessLog io.Writer
	tpl       *template.Template
}

// NewServer wires the dashboard to the session table. m may be nil.
func NewServer(sessions *sim.Sessions, m *metrics.Metrics, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{sessions: sessions, metrics: m, log: log, accessLog: os.Stdout, tpl: tpl}
}

// Router returns the routes without access logging.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/", s.instrument("/", s.handleIndex)).Methods(http.MethodGet)
	r.Handle("/refresh", s.instrument("/refresh", s.handleRefreshForm)).Methods(http.MethodPost)
	r.Handle("/api/nodes", s.instrument("/api/nodes", s.handleNodes)).Methods(http.MethodGet)
	r.Handle("/api/summary", s.instrument("/api/summary", s.handleSummary)).Methods(http.MethodGet)
	r.Handle("/api/refresh", s.instrument("/api/refresh", s.handleRefresh)).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// Handler returns the router wrapped with access logging.
func (s *Server) Handler() http.Handler {
	return handlers.LoggingHandler(s.accessLog, s.Router())
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) instrument(route string, fn http.HandlerFunc) http.Handler {
	if s.metrics == nil {
		return fn
	}
	return s.metrics.WrapHandler(route, fn)
}

// session resolves the caller's simulator and (re)issues the cookie when a
// new session had to be created.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*sim.Simulator, context.Context, bool) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	simulator, got, err := s.sessions.Get(id)
	if err != nil {
		s.log.Error("session setup failed", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, nil, false
	}
	if got != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    got,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	ctx := logging.NewContext(r.Context(), s.log.With("session_id", got))
	return simulator, ctx, true
}

type rowView struct {
	Cells       []string
	Alert       bool
	Fire        bool
	Maintenance bool
	LowBattery  bool
}

type pageData struct {
	Title     string
	Columns   []string
	Rows      []rowView
	Metrics   []sim.Metric
	Refreshes   int
	RefreshedAt string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	simulator, ctx, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := simulator.Snapshot(ctx)
	data := pageData{
		Title:       Title,
		Columns:     telemetry.DisplayColumns,
		Metrics:     snap.Summary.Metrics(),
		Refreshes:   snap.Refreshes,
		RefreshedAt: snap.RefreshedAt.Format(time.RFC1123),
	}
	critical := simulator.CriticalBelow()
	for _, rec := range snap.Records {
		data.Rows = append(data.Rows, rowView{
			Cells:       telemetry.DisplayRow(rec),
			Alert:       rec.Activity != telemetry.ActivitySafe,
			Fire:        rec.Activity == telemetry.ActivityWildfire,
			Maintenance: rec.Status == telemetry.StatusMaintenance,
			LowBattery:  rec.BatteryPercent < critical,
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render dashboard", "err", err)
	}
}

func (s *Server) handleRefreshForm(w http.ResponseWriter, r *http.Request) {
	simulator, ctx, ok := s.session(w, r)
	if !ok {
		return
	}
	simulator.Refresh(ctx)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type nodesResponse struct {
	SessionID string                 `json:"session_id"`
	Refreshes int                    `json:"refreshes"`
	Nodes     []telemetry.NodeRecord `json:"nodes"`
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	simulator, ctx, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := simulator.Snapshot(ctx)
	writeJSON(w, http.StatusOK, nodesResponse{SessionID: snap.SessionID, Refreshes: snap.Refreshes, Nodes: snap.Records})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	simulator, ctx, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, simulator.Summary(ctx))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	simulator, ctx, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, simulator.Refresh(ctx))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
