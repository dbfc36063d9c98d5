package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/balatro-seed-search/internal/search"
	"github.com/MJE43/balatro-seed-search/internal/store"
)

// runningSearch tracks the one search a Server may have in flight, or
// the most recently finished one — spec §5 allows at most one active
// search per process, but a finished search's status stays queryable
// until a new one replaces it.
type runningSearch struct {
	id         string
	filterText string
	filterID   string
	cancel     context.CancelFunc
	progress   *search.Progress
	done       chan struct{}

	mu     sync.Mutex
	status string // running | stopped | completed
	runErr error
}

func (rs *runningSearch) setStatus(status string, err error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status = status
	rs.runErr = err
}

func (rs *runningSearch) snapshot() (status string, err error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.status, rs.runErr
}

// Server handles HTTP requests against a single durable store,
// enforcing at most one active search at a time.
type Server struct {
	db store.DB

	mu      sync.Mutex
	current *runningSearch

	logger   *log.Logger
	security *SecurityLogger
}

// NewServer creates a new API server backed by db.
func NewServer(db store.DB) *Server {
	return &Server{
		db:       db,
		logger:   log.New(os.Stdout, "", log.LstdFlags|log.LUTC),
		security: NewSecurityLogger(),
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.SecurityLoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/health"))
	r.Use(s.CORSMiddleware)

	r.Post("/search", s.handleSearchStart)
	r.Get("/search", s.handleSearchStatus)
	r.Post("/search/stop", s.handleSearchStop)
	r.Post("/analyze", s.handleAnalyze)

	return r
}

// writeJSON writes a JSON response, stamping the engine version
// header on every response the way the teacher stamps build metadata.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a structured EngineError response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, eb *ErrorBuilder) {
	eb.WithRequestID(middleware.GetReqID(r.Context()))
	engErr := eb.Build()
	s.security.LogSecurityEvent(engErr.RequestID, string(engErr.Type), engErr.Message, engErr.Context, r.RemoteAddr)
	s.writeJSON(w, statusFor(engErr.Type), engErr)
}

// StopRunning cancels and drains the currently running search, if
// any. The HTTP façade calls this before serving any POST /search per
// spec §5's "at most one active search" concurrency rule.
func (s *Server) StopRunning() {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return
	}
	status, _ := current.snapshot()
	if status != "running" {
		return
	}
	current.cancel()
	<-current.done
}
