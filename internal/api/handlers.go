package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MJE43/balatro-seed-search/internal/search"
	"github.com/MJE43/balatro-seed-search/internal/seedspace"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// handleSearchStart starts a new search, replacing any search already
// in flight (spec §5: at most one active search per process). The
// fertilizer pile is replayed against the new filter synchronously so
// the response can include any immediate hits; the lattice
// enumeration itself runs in the background.
func (s *Server) handleSearchStart(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, "invalid JSON body").WithContext(map[string]any{"error": err.Error()}))
		return
	}

	pipeline, err := ValidateSearchRequest(&req)
	if err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, err.Error()))
		return
	}

	deck, stake, err := resolvePipelineDeckStake(pipeline, &req)
	if err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, err.Error()))
		return
	}

	driver, err := search.NewDriver(pipeline)
	if err != nil {
		s.writeError(w, r, NewError(ErrTypeDomain, err.Error()))
		return
	}

	prefixLen := req.PrefixLen
	if prefixLen == 0 {
		prefixLen = 4
	}
	threads := req.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	filterID := pipeline.Name
	if filterID == "" {
		filterID = hashSeed(req.FilterText)
	}

	s.StopRunning()
	s.mu.Lock()

	if err := s.db.ResetForFilter(r.Context(), filterID, driver.Columns(), 1); err != nil {
		s.mu.Unlock()
		s.writeError(w, r, NewError(ErrTypeInternal, "failed to reset search state").WithContext(map[string]any{"error": err.Error()}))
		return
	}

	fertilizerSeeds, err := s.db.FertilizerSeeds(r.Context())
	if err != nil {
		s.mu.Unlock()
		s.writeError(w, r, NewError(ErrTypeInternal, "failed to load fertilizer pile").WithContext(map[string]any{"error": err.Error()}))
		return
	}

	var fertilizedHits []search.Result
	if len(fertilizerSeeds) > 0 {
		replaySink := &fertilizerReplaySink{db: s.db}
		replayCfg := search.Config{Deck: int(deck), Stake: int(stake)}
		if err := driver.EvaluateSeeds(r.Context(), fertilizerSeeds, replayCfg, replaySink); err != nil {
			s.mu.Unlock()
			s.writeError(w, r, NewError(ErrTypeInternal, "failed to replay fertilizer pile").WithContext(map[string]any{"error": err.Error()}))
			return
		}
		fertilizedHits = replaySink.hits
	}

	ctx, cancel := context.WithCancel(context.Background())
	rs := &runningSearch{
		// A search outlives the HTTP request that started it — later
		// status/stop requests arrive with their own request IDs — so
		// it needs an identity independent of middleware.GetReqID.
		id:         uuid.New().String(),
		filterText: req.FilterText,
		filterID:   filterID,
		cancel:     cancel,
		progress:   &search.Progress{},
		done:       make(chan struct{}),
		status:     "running",
	}
	s.current = rs
	s.mu.Unlock()

	cfg := search.Config{
		PrefixLen:  prefixLen,
		StartBatch: 0,
		EndBatch:   seedspace.PrefixCount(prefixLen) - 1,
		Threads:    threads,
		Deck:       int(deck),
		Stake:      int(stake),
		Cutoff:     req.Cutoff,
		AutoCutoff: req.AutoCutoff,
	}

	s.security.LogSearchStart(requestID, rs.id, filterID, deck.String(), stake.String(), threads, prefixLen, req.Cutoff)

	go func() {
		defer close(rs.done)
		runErr := driver.Run(ctx, cfg, s.db, s.db, rs.progress)
		switch {
		case ctx.Err() != nil:
			rs.setStatus("stopped", nil)
		case runErr != nil:
			rs.setStatus("stopped", runErr)
		default:
			rs.setStatus("completed", nil)
		}
	}()

	s.writeJSON(w, http.StatusAccepted, SearchResponse{
		SearchID:       rs.id,
		FertilizedHits: fertilizedHits,
		EngineVersion:  EngineVersion,
	})
}

// fertilizerReplaySink collects EvaluateSeeds hits in memory for the
// response body while also persisting them to the durable store like
// any other result.
type fertilizerReplaySink struct {
	db   interface{ Insert(search.Result) error }
	hits []search.Result
}

func (f *fertilizerReplaySink) Insert(r search.Result) error {
	f.hits = append(f.hits, r)
	return f.db.Insert(r)
}

func (f *fertilizerReplaySink) TenthBestScore() (int, bool) { return 0, false }

// handleSearchStatus reports the current or most recently finished
// search's progress alongside the live top-1000 table.
func (s *Server) handleSearchStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rs := s.current
	s.mu.Unlock()

	if rs == nil {
		s.writeError(w, r, NewError(ErrTypeNotFound, "no search has been started"))
		return
	}

	status, _ := rs.snapshot()

	results, err := s.db.TopResults(r.Context(), 1000)
	if err != nil {
		s.writeError(w, r, NewError(ErrTypeInternal, "failed to load results").WithContext(map[string]any{"error": err.Error()}))
		return
	}

	state, err := s.db.State(r.Context())
	lastCompleted := int64(-1)
	if err == nil {
		lastCompleted = state.LastCompletedBatch
	}

	s.writeJSON(w, http.StatusOK, SearchStatusResponse{
		SearchID:           rs.id,
		Status:             status,
		FilterText:         rs.filterText,
		BatchesCompleted:   rs.progress.BatchesCompleted.Load(),
		SeedsEvaluated:     rs.progress.SeedsEvaluated.Load(),
		LastCompletedBatch: lastCompleted,
		Results:            results,
		EngineVersion:      EngineVersion,
	})
}

// handleSearchStop cancels the currently running search, if any, and
// waits for its worker pool to drain before responding.
func (s *Server) handleSearchStop(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req StopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, "invalid JSON body").WithContext(map[string]any{"error": err.Error()}))
		return
	}
	if err := ValidateStopRequest(&req); err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, err.Error()))
		return
	}

	s.mu.Lock()
	rs := s.current
	s.mu.Unlock()

	if rs == nil || rs.id != req.SearchID {
		s.writeError(w, r, NewError(ErrTypeNotFound, fmt.Sprintf("no active search with id %q", req.SearchID)))
		return
	}

	s.security.LogSearchStop(requestID, rs.id)
	s.StopRunning()

	status, _ := rs.snapshot()
	s.writeJSON(w, http.StatusOK, StopResponse{
		SearchID:      rs.id,
		Status:        status,
		EngineVersion: EngineVersion,
	})
}

// handleAnalyze runs a single seed's full per-ante resource report,
// independent of any running search.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, "invalid JSON body").WithContext(map[string]any{"error": err.Error()}))
		return
	}

	deck, stake, err := ValidateAnalyzeRequest(&req)
	if err != nil {
		s.writeError(w, r, NewError(ErrTypeValidation, err.Error()))
		return
	}

	s.security.LogAnalyzeOperation(requestID, req.Seed, deck.String(), stake.String())

	report, err := sim.Analyze(req.Seed, deck, stake)
	if err != nil {
		s.writeError(w, r, NewError(ErrTypeInternal, "analysis failed").WithContext(map[string]any{"error": err.Error()}))
		return
	}

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Report:        report,
		EngineVersion: EngineVersion,
		GeneratedAt:   time.Now().UTC(),
	})
}
