package api

import (
	"time"

	"github.com/MJE43/balatro-seed-search/internal/search"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

const (
	EngineVersion = "0.1.0"
	GitCommit     = "unknown"
	BuildTime     = "unknown"
)

// SearchRequest is POST /search's body: a filter document encoded as
// JSON text (the wire clause schema from the filter package), plus
// the run parameters the CLI's search subcommand also exposes.
type SearchRequest struct {
	FilterText string `json:"filterText"`
	Deck       string `json:"deck,omitempty"`
	Stake      string `json:"stake,omitempty"`
	Threads    int    `json:"threads,omitempty"`
	PrefixLen  int    `json:"prefixLen,omitempty"`
	Cutoff     int    `json:"cutoff,omitempty"`
	AutoCutoff bool   `json:"autoCutoff,omitempty"`
}

// SearchResponse answers a successful POST /search: the new search's
// id and any fertilizer-pile seeds that already pass the submitted
// filter, available before the enumeration itself produces anything.
type SearchResponse struct {
	SearchID      string          `json:"searchId"`
	FertilizedHits []search.Result `json:"fertilizedHits"`
	EngineVersion string          `json:"engineVersion"`
}

// SearchStatusResponse answers GET /search: current progress,
// the live top-1000 table, and the filter text the search was started
// with, so a client can resubmit it unmodified. It always describes the
// current or most recent search; an id query parameter is not read.
type SearchStatusResponse struct {
	SearchID         string          `json:"searchId"`
	Status           string          `json:"status"` // running | stopped | completed
	FilterText       string          `json:"filterText"`
	BatchesCompleted uint64          `json:"batchesCompleted"`
	SeedsEvaluated   uint64          `json:"seedsEvaluated"`
	LastCompletedBatch int64         `json:"lastCompletedBatch"`
	Results          []search.Result `json:"results"`
	EngineVersion    string          `json:"engineVersion"`
}

// StopRequest is POST /search/stop's body.
type StopRequest struct {
	SearchID string `json:"searchId"`
}

// StopResponse acknowledges a stop request.
type StopResponse struct {
	SearchID      string `json:"searchId"`
	Status        string `json:"status"`
	EngineVersion string `json:"engineVersion"`
}

// AnalyzeRequest is POST /analyze's body: one seed, under a given
// deck/stake.
type AnalyzeRequest struct {
	Seed  string `json:"seed"`
	Deck  string `json:"deck,omitempty"`
	Stake string `json:"stake,omitempty"`
}

// AnalyzeResponse wraps sim.Analyze's full per-ante resource dump.
type AnalyzeResponse struct {
	Report        *sim.RunReport `json:"report"`
	EngineVersion string         `json:"engineVersion"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}
