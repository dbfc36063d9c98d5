// Command balatroseed drives a seed search from a terminal: compile
// a filter document, enumerate a slice of the lattice against it, dump
// a single seed's full per-ante report, or host the HTTP façade.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"github.com/MJE43/balatro-seed-search/internal/api"
	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/search"
	"github.com/MJE43/balatro-seed-search/internal/seedspace"
	"github.com/MJE43/balatro-seed-search/internal/sim"
	"github.com/MJE43/balatro-seed-search/internal/store"
)

// Exit codes, per the CLI surface's error-handling contract: document
// and domain errors are both "invalid filter document" here since the
// CLI never distinguishes compile failures from clause-validation ones.
const (
	exitSuccess         = 0
	exitInternal        = 1
	exitInvalidArgument = 2
	exitInvalidFilter   = 3
	exitCancelled       = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: balatroseed <search|analyze|serve> [flags]")
		return exitInvalidArgument
	}

	switch args[0] {
	case "search":
		return runSearch(args[1:])
	case "analyze":
		return runAnalyze(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		return exitInvalidArgument
	}
}

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	filterPath := fs.String("filter", "", "path to a filter document (JSON)")
	threads := fs.Int("threads", 0, "worker count (0 = NumCPU)")
	batchSize := fs.Int("batch-size", 1, "unused placeholder kept for the documented flag surface; batches are sized by -prefix-len")
	prefixLen := fs.Int("prefix-len", 4, "batch granularity: characters of seed prefix per batch")
	startBatch := fs.Uint64("start-batch", 0, "first batch index to enumerate")
	endBatch := fs.Uint64("end-batch", 0, "last batch index to enumerate (0 = full lattice for -prefix-len)")
	cutoffFlag := fs.String("cutoff", "0", "minimum should-score to emit a result, or \"auto\"")
	deckFlag := fs.String("deck", "", "deck override (defaults to the filter document's, then Red)")
	stakeFlag := fs.String("stake", "", "stake override (defaults to the filter document's, then White)")
	dbPath := fs.String("db", "balatroseed.db", "path to the SQLite results database")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}
	_ = batchSize

	if *filterPath == "" {
		fmt.Fprintln(os.Stderr, "search: -filter is required")
		return exitInvalidArgument
	}

	raw, err := os.ReadFile(*filterPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: reading filter document: %v\n", err)
		return exitInvalidArgument
	}

	var doc filter.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "search: filter document is not valid JSON: %v\n", err)
		return exitInvalidFilter
	}

	pipeline, err := filter.Compile(&doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: compiling filter document: %v\n", err)
		return exitInvalidFilter
	}

	deckName := pipeline.Deck
	if *deckFlag != "" {
		deckName = *deckFlag
	}
	deck := domain.DeckRed
	if deckName != "" {
		parsed, ok := domain.ParseDeck(deckName)
		if !ok {
			fmt.Fprintf(os.Stderr, "search: unknown deck %q\n", deckName)
			return exitInvalidArgument
		}
		deck = parsed
	}

	stakeName := pipeline.Stake
	if *stakeFlag != "" {
		stakeName = *stakeFlag
	}
	stake := domain.StakeWhite
	if stakeName != "" {
		parsed, ok := domain.ParseStake(stakeName)
		if !ok {
			fmt.Fprintf(os.Stderr, "search: unknown stake %q\n", stakeName)
			return exitInvalidArgument
		}
		stake = parsed
	}

	cutoff := 0
	autoCutoff := false
	if *cutoffFlag == "auto" {
		autoCutoff = true
	} else if _, err := fmt.Sscanf(*cutoffFlag, "%d", &cutoff); err != nil {
		fmt.Fprintf(os.Stderr, "search: -cutoff must be an integer or \"auto\"\n")
		return exitInvalidArgument
	}

	db, err := store.NewSQLiteDB(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: opening database: %v\n", err)
		return exitInternal
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "search: migrating database: %v\n", err)
		return exitInternal
	}

	filterID := pipeline.Name
	if filterID == "" {
		filterID = *filterPath
	}

	resumeFrom := *startBatch
	if state, err := db.State(ctx); err == nil && state.FilterID == filterID {
		resumeFrom = uint64(state.LastCompletedBatch + 1)
		if resumeFrom > *startBatch {
			updatedAt := strftime.Format("%Y-%m-%d %H:%M:%S UTC", state.UpdatedAt.UTC())
			fmt.Printf("resuming filter %q from batch %s (checkpoint last updated %s)\n",
				filterID, humanize.Comma(int64(resumeFrom)), updatedAt)
		} else {
			resumeFrom = *startBatch
		}
	} else {
		if err := db.ResetForFilter(ctx, filterID, pipeline.Columns, 1); err != nil {
			fmt.Fprintf(os.Stderr, "search: resetting filter state: %v\n", err)
			return exitInternal
		}
	}

	driver, err := search.NewDriver(pipeline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: building evaluators: %v\n", err)
		return exitInvalidFilter
	}

	last := *endBatch
	if last == 0 {
		last = seedspace.PrefixCount(*prefixLen) - 1
	}

	cfg := search.Config{
		PrefixLen:  *prefixLen,
		StartBatch: resumeFrom,
		EndBatch:   last,
		Threads:    *threads,
		Deck:       int(deck),
		Stake:      int(stake),
		Cutoff:     cutoff,
		AutoCutoff: autoCutoff,
	}

	progress := &search.Progress{}
	done := make(chan struct{})
	interactive := isatty.IsTerminal(os.Stdout.Fd())
	if interactive {
		go reportProgress(ctx, progress, last-cfg.StartBatch+1, done)
	}

	start := time.Now()
	runErr := driver.Run(ctx, cfg, db, db, progress)
	close(done)

	seedsEvaluated := progress.SeedsEvaluated.Load()
	fmt.Printf("evaluated %s seeds in %s (%s/s)\n",
		humanize.Comma(int64(seedsEvaluated)), time.Since(start).Round(time.Millisecond),
		humanize.Comma(int64(float64(seedsEvaluated)/time.Since(start).Seconds())))

	if ctx.Err() != nil {
		fmt.Println("search: cancelled")
		return exitCancelled
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", runErr)
		return exitInternal
	}
	return exitSuccess
}

func reportProgress(ctx context.Context, progress *search.Progress, totalBatches uint64, done chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			completed := progress.BatchesCompleted.Load()
			fmt.Printf("\r%s/%s batches, %s seeds evaluated",
				humanize.Comma(int64(completed)), humanize.Comma(int64(totalBatches)),
				humanize.Comma(int64(progress.SeedsEvaluated.Load())))
		}
	}
}

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	deckFlag := fs.String("deck", "Red", "deck")
	stakeFlag := fs.String("stake", "White", "stake")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: balatroseed analyze <seed> [-deck] [-stake]")
		return exitInvalidArgument
	}

	seedArg := fs.Arg(0)
	if _, err := seedspace.Validate(seedArg); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		return exitInvalidArgument
	}

	deck, ok := domain.ParseDeck(*deckFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "analyze: unknown deck %q\n", *deckFlag)
		return exitInvalidArgument
	}
	stake, ok := domain.ParseStake(*stakeFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "analyze: unknown stake %q\n", *stakeFlag)
		return exitInvalidArgument
	}

	report, err := sim.Analyze(seedArg, deck, stake)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		return exitInternal
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: encoding report: %v\n", err)
		return exitInternal
	}
	return exitSuccess
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	host := fs.String("host", "127.0.0.1", "listen host")
	port := fs.Int("port", 8080, "listen port")
	dbPath := fs.String("db", "balatroseed.db", "path to the SQLite results database")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}

	db, err := store.NewSQLiteDB(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "serve: opening database: %v\n", err)
		return exitInternal
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "serve: migrating database: %v\n", err)
		return exitInternal
	}

	server := api.NewServer(db)
	addr := fmt.Sprintf("%s:%d", *host, *port)
	httpServer := &http.Server{Addr: addr, Handler: server.Routes()}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("listening on %s (%d CPUs)\n", addr, runtime.NumCPU())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			return exitInternal
		}
		return exitSuccess
	case <-ctx.Done():
		server.StopRunning()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "serve: shutdown: %v\n", err)
			return exitInternal
		}
		return exitCancelled
	}
}
