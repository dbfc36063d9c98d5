package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/search"
	"github.com/MJE43/balatro-seed-search/internal/store"
)

// mockDB is an in-memory stand-in for store.DB, letting these tests
// exercise the HTTP façade without a real SQLite file.
type mockDB struct {
	mu sync.Mutex

	results    map[string]search.Result
	state      store.SearchState
	fertilizer []string
}

func newMockDB() *mockDB {
	return &mockDB{results: make(map[string]search.Result)}
}

func (m *mockDB) Insert(r search.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.results[r.Seed]; !ok || r.Score > existing.Score {
		m.results[r.Seed] = r
	}
	return nil
}

func (m *mockDB) TenthBestScore() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.results) < 10 {
		return 0, false
	}
	scores := make([]int, 0, len(m.results))
	for _, r := range m.results {
		scores = append(scores, r.Score)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	return scores[9], true
}

func (m *mockDB) PersistLastCompletedBatch(batch uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastCompletedBatch = int64(batch)
	return nil
}

func (m *mockDB) Migrate(ctx context.Context) error { return nil }
func (m *mockDB) Close() error                       { return nil }

func (m *mockDB) ResetForFilter(ctx context.Context, filterID string, columns []string, batchSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for seed := range m.results {
		m.fertilizer = append(m.fertilizer, seed)
	}
	m.results = make(map[string]search.Result)
	m.state = store.SearchState{FilterID: filterID, Columns: columns, BatchSize: batchSize, LastCompletedBatch: -1, UpdatedAt: time.Now()}
	return nil
}

func (m *mockDB) State(ctx context.Context) (store.SearchState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *mockDB) TopResults(ctx context.Context, limit int) ([]search.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]search.Result, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockDB) FertilizerSeeds(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.fertilizer...), nil
}

func voucherFilterText() string {
	return `{"should":[{"type":"voucher","value":"` + domain.VoucherOverstock.String() + `","antes":[1],"score":1}]}`
}

func TestSearchLifecycle(t *testing.T) {
	server := NewServer(newMockDB())
	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	startBody, _ := json.Marshal(SearchRequest{
		FilterText: voucherFilterText(),
		PrefixLen:  1,
		Threads:    1,
	})
	resp, err := http.Post(ts.URL+"/search", "application/json", bytes.NewReader(startBody))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	var startResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&startResp); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if startResp.SearchID == "" {
		t.Fatal("expected non-empty searchId")
	}

	statusResp, err := http.Get(ts.URL + "/search")
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	defer statusResp.Body.Close()
	if statusResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", statusResp.StatusCode)
	}

	stopBody, _ := json.Marshal(StopRequest{SearchID: startResp.SearchID})
	stopResp, err := http.Post(ts.URL+"/search/stop", "application/json", bytes.NewReader(stopBody))
	if err != nil {
		t.Fatalf("POST /search/stop: %v", err)
	}
	defer stopResp.Body.Close()
	if stopResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", stopResp.StatusCode)
	}
}

func TestSearchStartRejectsMalformedFilter(t *testing.T) {
	server := NewServer(newMockDB())
	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	body, _ := json.Marshal(SearchRequest{FilterText: "not json"})
	resp, err := http.Post(ts.URL+"/search", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var engErr EngineError
	if err := json.NewDecoder(resp.Body).Decode(&engErr); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if engErr.Type != ErrTypeValidation {
		t.Fatalf("expected validation error, got %s", engErr.Type)
	}
}

func TestSearchStopRejectsUnknownID(t *testing.T) {
	server := NewServer(newMockDB())
	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	body, _ := json.Marshal(StopRequest{SearchID: "nonexistent"})
	resp, err := http.Post(ts.URL+"/search/stop", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /search/stop: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAnalyzeRoundTrip(t *testing.T) {
	server := NewServer(newMockDB())
	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	body, _ := json.Marshal(AnalyzeRequest{Seed: "AAAAAAAA"})
	resp, err := http.Post(ts.URL+"/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var analyzeResp AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzeResp); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if analyzeResp.Report == nil {
		t.Fatal("expected a non-nil report")
	}
}

func TestAnalyzeRejectsInvalidSeed(t *testing.T) {
	server := NewServer(newMockDB())
	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	body, _ := json.Marshal(AnalyzeRequest{Seed: "short"})
	resp, err := http.Post(ts.URL+"/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /analyze: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
