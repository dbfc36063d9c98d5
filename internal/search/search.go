// Package search drives the vectorized batch enumeration over the
// seed lattice: a fixed worker pool dequeues batches from a shared
// counter, evaluates must/should/mustNot clauses in 8-lane groups
// against a compiled pipeline, and hands passing seeds to a Sink.
package search

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MJE43/balatro-seed-search/internal/evaluate"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/rng"
	"github.com/MJE43/balatro-seed-search/internal/seedspace"
	"github.com/MJE43/balatro-seed-search/internal/sim"
)

// Result is one passing seed: its total should-score and the per-
// should-clause tally that produced it, in Driver.Columns order.
type Result struct {
	Seed    string
	Score   int
	Tallies []uint16
}

// Sink receives passing results and reports the running top-K table's
// 10th-best score for cutoff adaptation. Implemented by internal/store
// against a durable, score-ordered, capped table.
type Sink interface {
	Insert(Result) error
	TenthBestScore() (score int, ok bool)
}

// Checkpointer persists the search's completed-batch watermark so a
// restart with the same filter resumes from Batch+1 rather than
// rescanning the lattice from the start.
type Checkpointer interface {
	PersistLastCompletedBatch(batch uint64) error
}

// Progress exposes atomic counters a status endpoint or CLI can poll
// without synchronizing with the worker pool.
type Progress struct {
	BatchesCompleted atomic.Uint64
	SeedsEvaluated   atomic.Uint64
}

// Config parameterizes one Run: the lattice slice to enumerate, the
// worker count, and the score cutoff policy.
type Config struct {
	// PrefixLen fixes the batch granularity: each batch holds all
	// suffixes completing one PrefixLen-character prefix.
	PrefixLen int
	// StartBatch and EndBatch bound the enumerated batch range,
	// inclusive; EndBatch is typically seedspace.PrefixCount(PrefixLen)-1
	// for a full-space search.
	StartBatch, EndBatch uint64
	// Threads is the worker count; 0 selects hardware parallelism.
	Threads int
	// Deck and Stake select the sampling context every seed in this
	// run is evaluated under.
	Deck, Stake int
	// Cutoff is the initial minimum should-score required to emit a
	// result.
	Cutoff int
	// AutoCutoff raises Cutoff to the sink's 10th-best score minus one
	// at each batch boundary once the sink holds at least 10 results.
	AutoCutoff bool
}

// Driver holds a pipeline's compiled evaluators, built once and reused
// across every batch a Run enumerates.
type Driver struct {
	pipeline *filter.Pipeline
	must     []evaluate.Evaluator
	mustNot  []evaluate.Evaluator
	should   []evaluate.Evaluator
}

// NewDriver compiles every clause in p into an Evaluator. Compilation
// failures here are construction bugs, not data problems — p is
// assumed already validated by filter.Compile.
func NewDriver(p *filter.Pipeline) (*Driver, error) {
	must, err := buildAll(p.Must)
	if err != nil {
		return nil, fmt.Errorf("search: compiling must clauses: %w", err)
	}
	mustNot, err := buildAll(p.MustNot)
	if err != nil {
		return nil, fmt.Errorf("search: compiling mustNot clauses: %w", err)
	}
	should, err := buildAll(p.Should)
	if err != nil {
		return nil, fmt.Errorf("search: compiling should clauses: %w", err)
	}
	return &Driver{pipeline: p, must: must, mustNot: mustNot, should: should}, nil
}

func buildAll(clauses []*filter.NormalizedClause) ([]evaluate.Evaluator, error) {
	out := make([]evaluate.Evaluator, 0, len(clauses))
	for _, c := range clauses {
		ev, err := evaluate.Build(c)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// Columns is the result table's column list: seed, score, then one
// column per should clause in evaluation order.
func (d *Driver) Columns() []string { return d.pipeline.Columns }

// Run enumerates Config's batch range across a worker pool, emitting
// passing seeds to sink and persisting the completed-batch watermark
// through checkpoint. Run returns when every batch has been dispatched
// and every worker has drained, or when ctx is cancelled.
func (d *Driver) Run(ctx context.Context, cfg Config, sink Sink, checkpoint Checkpointer, progress *Progress) error {
	threads := cfg.Threads
	if threads <= 0 {
		threads = defaultThreads()
	}

	var nextBatch atomic.Uint64
	nextBatch.Store(cfg.StartBatch)
	var cutoff atomic.Int64
	cutoff.Store(int64(cfg.Cutoff))
	tracker := newCheckpointTracker(cfg.StartBatch)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			return d.runWorker(gctx, cfg, &nextBatch, &cutoff, sink, checkpoint, progress, tracker)
		})
	}
	return g.Wait()
}

func (d *Driver) runWorker(
	ctx context.Context,
	cfg Config,
	nextBatch *atomic.Uint64,
	cutoff *atomic.Int64,
	sink Sink,
	checkpoint Checkpointer,
	progress *Progress,
	tracker *checkpointTracker,
) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		batch := nextBatch.Add(1) - 1
		if batch > cfg.EndBatch {
			return nil
		}

		if err := d.runBatch(ctx, cfg, batch, cutoff, sink, progress); err != nil {
			return err
		}
		// runBatch returns early on cancellation; a batch cut short is
		// not complete and must not reach the checkpoint.
		if ctx.Err() != nil {
			return nil
		}

		progress.BatchesCompleted.Add(1)
		if watermark, advanced := tracker.markDone(batch); advanced {
			if err := checkpoint.PersistLastCompletedBatch(watermark); err != nil {
				return fmt.Errorf("search: persisting checkpoint at batch %d: %w", watermark, err)
			}
		}

		if cfg.AutoCutoff {
			if tenth, ok := sink.TenthBestScore(); ok {
				raiseCutoff(cutoff, int64(tenth-1))
			}
		}
	}
}

// raiseCutoff advances cutoff to candidate only if candidate is
// higher, since the sink's 10th-best score never decreases (the top-K
// table only ever evicts its lowest row).
func raiseCutoff(cutoff *atomic.Int64, candidate int64) {
	for {
		cur := cutoff.Load()
		if candidate <= cur {
			return
		}
		if cutoff.CompareAndSwap(cur, candidate) {
			return
		}
	}
}

func (d *Driver) runBatch(ctx context.Context, cfg Config, batch uint64, cutoff *atomic.Int64, sink Sink, progress *Progress) error {
	prefix := seedspace.Prefix(batch, cfg.PrefixLen)
	total := seedspace.PrefixSuffixCount(cfg.PrefixLen)

	for groupStart := uint64(0); groupStart < total; groupStart += rng.Lanes {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := d.runGroup(cfg, prefix, groupStart, total, cutoff.Load(), sink); err != nil {
			return err
		}

		liveInGroup := uint64(rng.Lanes)
		if remaining := total - groupStart; remaining < liveInGroup {
			liveInGroup = remaining
		}
		progress.SeedsEvaluated.Add(liveInGroup)
	}
	return nil
}

// EvaluateSeeds runs the full must/mustNot/should gauntlet against an
// explicit seed list rather than an enumerated batch range, in groups
// of eight. This is how a fertilizer pile is replayed against a new
// filter: seeds already known good under some earlier filter are
// re-checked against the current one without re-enumerating the
// lattice they came from.
func (d *Driver) EvaluateSeeds(ctx context.Context, seeds []string, cfg Config, sink Sink) error {
	for start := 0; start < len(seeds); start += rng.Lanes {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		var lanes [rng.Lanes][]byte
		for lane := 0; lane < rng.Lanes && start+lane < len(seeds); lane++ {
			lanes[lane] = []byte(seeds[start+lane])
		}
		if err := d.runGroupSeeds(cfg, lanes, 0, sink); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runGroup(cfg Config, prefix string, groupStart, total uint64, cutoff int64, sink Sink) error {
	var seeds [rng.Lanes][]byte
	for lane := 0; lane < rng.Lanes; lane++ {
		idx := groupStart + uint64(lane)
		if idx >= total {
			continue
		}
		seed := seedspace.Compose(prefix, idx)
		seeds[lane] = []byte(seed)
	}

	return d.runGroupSeeds(cfg, seeds, cutoff, sink)
}

func (d *Driver) runGroupSeeds(cfg Config, seeds [rng.Lanes][]byte, cutoff int64, sink Sink) error {
	cache := rng.NewCache(seeds)
	if err := d.pipeline.DeclareStreams(cache); err != nil {
		return fmt.Errorf("search: declaring streams: %w", err)
	}
	cache.Freeze()
	ctx := sim.NewContext(cfg.Deck, cfg.Stake, cache)

	mask := ctx.LiveMask()
	for _, ev := range d.must {
		m, _ := ev.Evaluate(ctx)
		mask = mask.And(m)
		if mask.None() {
			return nil
		}
	}
	for _, ev := range d.mustNot {
		m, _ := ev.Evaluate(ctx)
		mask = mask.AndNot(m)
		if mask.None() {
			return nil
		}
	}

	var scores [rng.Lanes]int
	tallies := make([][rng.Lanes]uint16, len(d.should))
	for i, ev := range d.should {
		_, tally := ev.Evaluate(ctx)
		tallies[i] = tally
		weight := d.pipeline.Should[i].Score
		for lane := 0; lane < rng.Lanes; lane++ {
			scores[lane] += int(tally[lane]) * weight
		}
	}

	for lane := 0; lane < rng.Lanes; lane++ {
		if !mask.Lane(lane) {
			continue
		}
		if int64(scores[lane]) < cutoff {
			continue
		}
		rowTallies := make([]uint16, len(d.should))
		for i := range d.should {
			rowTallies[i] = tallies[i][lane]
		}
		result := Result{Seed: string(seeds[lane]), Score: scores[lane], Tallies: rowTallies}
		if err := sink.Insert(result); err != nil {
			return fmt.Errorf("search: inserting result for seed %s: %w", result.Seed, err)
		}
	}
	return nil
}
