package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"

	"github.com/MJE43/balatro-seed-search/internal/search"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// resultCap mirrors spec's bounded top-K result table: the sink keeps
// at most this many rows, evicting the lowest score on overflow.
const resultCap = 1000

// SQLiteDB implements DB against a modernc.org/sqlite file, with
// goose-managed migrations and a single mutex serializing every
// Insert the way the search driver's workers require.
type SQLiteDB struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteDB opens (creating if absent) the database at path and
// enables WAL mode for concurrent reader access while a search writes.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error { return s.db.Close() }

// Migrate runs every embedded migration that hasn't applied yet.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("store: run migrations: %w", err)
	}
	return nil
}

// Insert upserts one passing result by seed (higher score wins on
// conflict) and evicts the lowest-score row once the table exceeds
// resultCap. I/O failures back off and retry once per spec's runtime-
// error contract; a second failure is returned to the caller, which
// marks the search stopped with its state preserved.
func (s *SQLiteDB) Insert(r search.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tallies, err := json.Marshal(r.Tallies)
	if err != nil {
		return fmt.Errorf("store: marshal tallies for seed %s: %w", r.Seed, err)
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(25*time.Millisecond))
	return retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("store: begin insert tx: %w", err))
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO results (seed, score, tallies, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (seed) DO UPDATE SET
				score = excluded.score,
				tallies = excluded.tallies,
				updated_at = excluded.updated_at
			WHERE excluded.score > results.score`,
			r.Seed, r.Score, string(tallies))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("store: upsert result: %w", err))
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM results WHERE seed IN (
				SELECT seed FROM results
				ORDER BY score DESC
				LIMIT -1 OFFSET ?
			)`, resultCap)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("store: evict overflow rows: %w", err))
		}

		if err := tx.Commit(); err != nil {
			return retry.RetryableError(fmt.Errorf("store: commit insert tx: %w", err))
		}
		return nil
	})
}

// TenthBestScore reports the 10th-highest score currently held, used
// by the search driver's autoCutoff mode.
func (s *SQLiteDB) TenthBestScore() (int, bool) {
	var score int
	err := s.db.QueryRow(`SELECT score FROM results ORDER BY score DESC LIMIT 1 OFFSET 9`).Scan(&score)
	if err != nil {
		return 0, false
	}
	return score, true
}

// PersistLastCompletedBatch advances the single-row checkpoint. It
// assumes ResetForFilter has already established the row's filter_id
// and columns for the current run.
func (s *SQLiteDB) PersistLastCompletedBatch(batch uint64) error {
	_, err := s.db.Exec(`
		UPDATE search_state
		SET last_completed_batch = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`, int64(batch))
	if err != nil {
		return fmt.Errorf("store: persist checkpoint at batch %d: %w", batch, err)
	}
	return nil
}

// ResetForFilter salvages the current top results into the fertilizer
// pile, then clears the results table and (re)establishes a fresh
// checkpoint row for filterID — the filter-change-invalidation
// contract from spec §8.
func (s *SQLiteDB) ResetForFilter(ctx context.Context, filterID string, columns []string, batchSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin reset tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fertilizer_seeds (seed)
		SELECT seed FROM results WHERE true
		ON CONFLICT (seed) DO NOTHING`); err != nil {
		return fmt.Errorf("store: salvage results to fertilizer pile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("store: clear results: %w", err)
	}

	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("store: marshal columns: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO search_state (id, filter_id, columns, batch_size, last_completed_batch, updated_at)
		VALUES (1, ?, ?, ?, -1, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			filter_id = excluded.filter_id,
			columns = excluded.columns,
			batch_size = excluded.batch_size,
			last_completed_batch = -1,
			updated_at = excluded.updated_at`,
		filterID, string(columnsJSON), batchSize); err != nil {
		return fmt.Errorf("store: reset checkpoint row: %w", err)
	}

	return tx.Commit()
}

// State reports the current checkpoint row. Returns ErrNoSearchState
// if no search has ever run against this store.
func (s *SQLiteDB) State(ctx context.Context) (SearchState, error) {
	var (
		st          SearchState
		columnsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT filter_id, columns, batch_size, last_completed_batch, updated_at
		FROM search_state WHERE id = 1`).
		Scan(&st.FilterID, &columnsJSON, &st.BatchSize, &st.LastCompletedBatch, &st.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return SearchState{}, ErrNoSearchState
		}
		return SearchState{}, fmt.Errorf("store: read search state: %w", err)
	}
	if err := json.Unmarshal([]byte(columnsJSON), &st.Columns); err != nil {
		return SearchState{}, fmt.Errorf("store: unmarshal columns: %w", err)
	}
	return st, nil
}

// TopResults returns up to limit rows ordered by score descending.
func (s *SQLiteDB) TopResults(ctx context.Context, limit int) ([]search.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seed, score, tallies FROM results
		ORDER BY score DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query top results: %w", err)
	}
	defer rows.Close()

	var out []search.Result
	for rows.Next() {
		var (
			r           search.Result
			talliesJSON string
		)
		if err := rows.Scan(&r.Seed, &r.Score, &talliesJSON); err != nil {
			return nil, fmt.Errorf("store: scan result row: %w", err)
		}
		if err := json.Unmarshal([]byte(talliesJSON), &r.Tallies); err != nil {
			return nil, fmt.Errorf("store: unmarshal tallies for seed %s: %w", r.Seed, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FertilizerSeeds returns every seed accumulated in the cross-search
// pile.
func (s *SQLiteDB) FertilizerSeeds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seed FROM fertilizer_seeds`)
	if err != nil {
		return nil, fmt.Errorf("store: query fertilizer pile: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var seed string
		if err := rows.Scan(&seed); err != nil {
			return nil, fmt.Errorf("store: scan fertilizer seed: %w", err)
		}
		out = append(out, seed)
	}
	return out, rows.Err()
}
