package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/simset-go/phgsim/internal/httputil"
	"github.com/simset-go/phgsim/internal/phg/store/sqlite"
)

// Config configures a report Server.
type Config struct {
	Address string
	Store   *sqlite.Store
}

// Server serves the run-history dashboard over HTTP.
type Server struct {
	address string
	store   *sqlite.Store
	server  *http.Server
}

// New builds a Server. The caller owns cfg.Store's lifetime.
func New(cfg Config) *Server {
	s := &Server{address: cfg.Address, store: cfg.Store}
	s.server = &http.Server{Addr: s.address, Handler: s.routes()}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/runs/chart", s.handleRunsChart)
	mux.HandleFunc("/runs/productivity", s.handleProductivityChart)
	return mux
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// handleIndex lists recent runs with links to their productivity chart.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(50)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var b strings.Builder
	b.WriteString("<html><head><title>phgsim report</title></head><body>")
	b.WriteString("<h1>Runs</h1>")
	b.WriteString(`<p><a href="/runs/chart">recent runs throughput chart</a></p>`)
	b.WriteString(`<table border="1" cellpadding="4"><tr><th>run</th><th>started (unix ns)</th><th>decays</th><th>photons</th><th>finished</th><th>error</th></tr>`)
	for _, run := range runs {
		errMsg := ""
		if run.ErrorMessage.Valid {
			errMsg = run.ErrorMessage.String
		}
		finished := "running"
		if run.FinishedUnixNanos.Valid {
			finished = strconv.FormatInt(run.FinishedUnixNanos.Int64, 10)
		}
		fmt.Fprintf(&b,
			`<tr><td><a href="/runs/productivity?run_id=%d">%d</a></td><td>%d</td><td>%d</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
			run.RunID, run.RunID, run.StartedUnixNanos, run.DecaysWritten, run.PhotonsWritten,
			html.EscapeString(finished), html.EscapeString(errMsg),
		)
	}
	b.WriteString("</table></body></html>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

// handleRunsChart renders a bar chart comparing decays/photons written
// across the most recent runs.
func (s *Server) handleRunsChart(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(20)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(runs) == 0 {
		s.writeError(w, http.StatusNotFound, "no runs recorded")
		return
	}

	bar := runSummaryBar(runs)
	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleProductivityChart renders the productivity table for one run
// as a scatter plot keyed by (slice, angle).
func (s *Server) handleProductivityChart(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.URL.Query().Get("run_id")
	if runIDStr == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'run_id' parameter")
		return
	}
	runID, err := strconv.ParseInt(runIDStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid 'run_id' parameter")
		return
	}

	table, err := s.store.LoadProductivityTable(runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if table.Len() == 0 {
		s.writeError(w, http.StatusNotFound, "no productivity data for run")
		return
	}

	scatter := productivityChart(runID, table)
	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		log.Printf("report: listening on %s", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("report: server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("report: shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("report: shutdown error: %v", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("report: force close: %w", err)
		}
	}
	return nil
}
