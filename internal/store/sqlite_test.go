package store

import (
	"context"
	"testing"

	"github.com/MJE43/balatro-seed-search/internal/search"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestInsertUpsertsHigherScoreOnly(t *testing.T) {
	db := newTestDB(t)

	if err := db.Insert(search.Result{Seed: "AAAAAAAA", Score: 10, Tallies: []uint16{10}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := db.Insert(search.Result{Seed: "AAAAAAAA", Score: 5, Tallies: []uint16{5}}); err != nil {
		t.Fatalf("Insert (lower score): %v", err)
	}

	results, err := db.TopResults(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopResults: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 10 {
		t.Fatalf("lower-score insert overwrote higher score: got %d, want 10", results[0].Score)
	}

	if err := db.Insert(search.Result{Seed: "AAAAAAAA", Score: 20, Tallies: []uint16{20}}); err != nil {
		t.Fatalf("Insert (higher score): %v", err)
	}
	results, err = db.TopResults(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopResults: %v", err)
	}
	if results[0].Score != 20 {
		t.Fatalf("higher-score insert did not win: got %d, want 20", results[0].Score)
	}
}

func TestInsertEvictsLowestScoreBeyondCap(t *testing.T) {
	db := newTestDB(t)

	// Insert one more than the cap, each with a distinct score; the
	// lowest-score row (score 0) must be evicted.
	for i := 0; i < resultCap+1; i++ {
		seed := seedForIndex(i)
		if err := db.Insert(search.Result{Seed: seed, Score: i, Tallies: []uint16{uint16(i)}}); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	results, err := db.TopResults(context.Background(), resultCap+10)
	if err != nil {
		t.Fatalf("TopResults: %v", err)
	}
	if len(results) != resultCap {
		t.Fatalf("expected exactly %d rows after overflow, got %d", resultCap, len(results))
	}

	lowestKept := results[len(results)-1].Score
	if lowestKept != 1 {
		t.Fatalf("expected score 0 evicted and score 1 to be the new floor, got floor %d", lowestKept)
	}
}

func seedForIndex(i int) string {
	const alphabet = "ABCDEFGHJKLMNOPQRSTUVWXYZ23456789"
	b := make([]byte, 8)
	for pos := len(b) - 1; pos >= 0; pos-- {
		b[pos] = alphabet[i%len(alphabet)]
		i /= len(alphabet)
	}
	return string(b)
}

func TestTenthBestScoreRequiresTenRows(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 9; i++ {
		if err := db.Insert(search.Result{Seed: seedForIndex(i), Score: i}); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	if _, ok := db.TenthBestScore(); ok {
		t.Fatal("expected TenthBestScore to report no result with only 9 rows")
	}

	if err := db.Insert(search.Result{Seed: seedForIndex(9), Score: 100}); err != nil {
		t.Fatalf("Insert 10th: %v", err)
	}
	score, ok := db.TenthBestScore()
	if !ok {
		t.Fatal("expected TenthBestScore to report a result with 10 rows")
	}
	if score != 0 {
		t.Fatalf("10th-best score = %d, want 0 (scores 0..8 plus 100, 10th-highest is the lowest, 0)", score)
	}
}

func TestPersistLastCompletedBatchRequiresPriorReset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.ResetForFilter(ctx, "filter-a", []string{"should0"}, 4); err != nil {
		t.Fatalf("ResetForFilter: %v", err)
	}
	if err := db.PersistLastCompletedBatch(7); err != nil {
		t.Fatalf("PersistLastCompletedBatch: %v", err)
	}

	st, err := db.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.FilterID != "filter-a" {
		t.Fatalf("filter id = %q, want filter-a", st.FilterID)
	}
	if st.LastCompletedBatch != 7 {
		t.Fatalf("last completed batch = %d, want 7", st.LastCompletedBatch)
	}
}

func TestResetForFilterSalvagesResultsIntoFertilizerPile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.ResetForFilter(ctx, "filter-a", nil, 4); err != nil {
		t.Fatalf("ResetForFilter: %v", err)
	}
	if err := db.Insert(search.Result{Seed: "BBBBBBBB", Score: 42}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := db.ResetForFilter(ctx, "filter-b", nil, 4); err != nil {
		t.Fatalf("ResetForFilter (second filter): %v", err)
	}

	results, err := db.TopResults(ctx, 10)
	if err != nil {
		t.Fatalf("TopResults: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected results cleared after filter change, got %d", len(results))
	}

	seeds, err := db.FertilizerSeeds(ctx)
	if err != nil {
		t.Fatalf("FertilizerSeeds: %v", err)
	}
	if len(seeds) != 1 || seeds[0] != "BBBBBBBB" {
		t.Fatalf("expected salvaged seed BBBBBBBB in fertilizer pile, got %v", seeds)
	}

	st, err := db.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.LastCompletedBatch != -1 {
		t.Fatalf("checkpoint not reset on filter change: last completed batch = %d, want -1", st.LastCompletedBatch)
	}
}

func TestStateReturnsErrNoSearchStateBeforeAnyReset(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.State(context.Background()); err != ErrNoSearchState {
		t.Fatalf("State before any ResetForFilter = %v, want ErrNoSearchState", err)
	}
}
