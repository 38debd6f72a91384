package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gridscope-api/internal/cli"
	"gridscope-api/internal/config"
	"gridscope-api/internal/ingest"
	"gridscope-api/internal/svc"
	"gridscope-api/pkg/journal"
	"gridscope-api/pkg/upstream"

	// Import for side-effects: registers the gridfeed provider
	_ "gridscope-api/pkg/upstream/gridfeed"

	recordspersist "gridscope-api/internal/persistence/records"
)

const (
	pullInterval    = 5 * time.Minute  // Upstream feed pull interval
	pruneInterval   = 1 * time.Hour    // Retention enforcement interval
	shutdownTimeout = 10 * time.Second // Grace period for shutdown
)

var defaultRegions = []string{"PJM", "MISO", "SPP", "ERCOT", "NYISO", "ISONE"}

var (
	configFile = flag.String("f", "etc/gridscope.yaml", "the config file")
	journalDir = flag.String("journal", "journal", "directory for ingest run records")
	once       = flag.Bool("once", false, "pull each region once and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting feed puller...")

	// Load application configuration
	appCfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("[main] Warning: Failed to load app config: %v", err)
		log.Printf("[main] Using default configuration")
		appCfg = &config.Config{Env: "test"} // Default fallback
	}

	// Log configuration information
	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	upstreamCfg := appCfg.Upstream.Value
	upstreamPath := appCfg.Upstream.File
	if upstreamCfg == nil {
		upstreamCfg = upstream.MustLoad()
		if upstreamPath == "" {
			upstreamPath = "etc/upstream.yaml (default)"
		}
	}
	log.Printf("  - Upstream Config Path: %s", upstreamPath)

	// Build upstream providers
	providers, err := upstreamCfg.BuildProviders()
	if err != nil {
		log.Fatalf("[main] Failed to build upstream providers: %v", err)
	}

	// Get default upstream provider
	feedProvider, ok := providers[upstreamCfg.Default]
	if !ok {
		log.Fatalf("[main] Default upstream provider %q not found", upstreamCfg.Default)
	}

	regions := defaultRegions
	if cfg := upstreamCfg.Providers[upstreamCfg.Default]; cfg != nil && len(cfg.Regions) > 0 {
		regions = cfg.Regions
	}
	log.Printf("  - Regions: %v", regions)
	log.Printf("  - Intervals: pull=%s, prune=%s", pullInterval, pruneInterval)

	// Wire the storage sink. Without Postgres the puller still exercises the
	// provider but drops what it pulls.
	svcCtx := svc.NewServiceContext(*appCfg, *configFile)
	var sink ingest.Sink
	if svcCtx.Records != nil {
		sink = svcCtx.Records
	} else {
		log.Printf("[main] Warning: Postgres not configured, pulled records will not be persisted")
		sink = ingest.NewNoopSink()
	}

	feed := ingest.NewFeed(upstreamCfg.Default, feedProvider, sink)
	jw := journal.NewWriter(*journalDir)
	retention := time.Duration(appCfg.Snapshot.RetentionHours) * time.Hour

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		pullOnce(ctx, feed, jw, regions)
		if svcCtx.Records != nil {
			pruneOnce(ctx, svcCtx.Records, retention)
		}
		return
	}

	// Create wait group for goroutines
	var wg sync.WaitGroup

	// Start feed pull task
	wg.Add(1)
	go func() {
		defer wg.Done()
		runFeedPuller(ctx, feed, jw, regions)
	}()

	// Start retention pruning task
	if svcCtx.Records != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runPruner(ctx, svcCtx.Records, retention)
		}()
	}

	log.Println("[main] Feed puller started. Press Ctrl+C to stop.")

	// Wait for signal
	<-ctx.Done()
	log.Println("[main] Shutdown signal received, stopping tasks...")

	// Give tasks time to complete current work
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[main] All tasks stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}

	log.Println("[main] Feed puller stopped")
}

// runFeedPuller pulls every region on a schedule
func runFeedPuller(ctx context.Context, feed *ingest.Feed, jw *journal.Writer, regions []string) {
	ticker := time.NewTicker(pullInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	pullOnce(ctx, feed, jw, regions)

	for {
		select {
		case <-ctx.Done():
			log.Println("[feed] Stopping feed puller")
			return
		case <-ticker.C:
			pullOnce(ctx, feed, jw, regions)
		}
	}
}

// pullOnce pulls all regions, journals the run and logs the outcome
func pullOnce(ctx context.Context, feed *ingest.Feed, jw *journal.Writer, regions []string) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	stats, err := feed.Pull(ctx, regions)
	elapsed := time.Since(start)

	rec := &journal.RunRecord{
		Source:  "feed",
		Path:    feed.Name(),
		Loaded:  stats.Total(),
		Success: err == nil,
		Extra: map[string]any{
			"assets":  stats.Assets,
			"outages": stats.Outages,
			"nodes":   stats.Nodes,
			"samples": stats.Samples,
			"regions": regions,
		},
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}
	if _, jerr := jw.WriteRun(rec); jerr != nil {
		log.Printf("[feed] Warning: journal write failed: %v", jerr)
	}

	if err != nil {
		log.Printf("[feed.pull] [ERROR] %v, landed %d records, took %dms", err, stats.Total(), elapsed.Milliseconds())
		return
	}
	log.Printf("[feed.pull] [OK] assets=%d outages=%d nodes=%d samples=%d, took %dms",
		stats.Assets, stats.Outages, stats.Nodes, stats.Samples, elapsed.Milliseconds())
}

// runPruner enforces the price retention window on a schedule
func runPruner(ctx context.Context, records *recordspersist.Service, retention time.Duration) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	pruneOnce(ctx, records, retention)

	for {
		select {
		case <-ctx.Done():
			log.Println("[prune] Stopping pruner")
			return
		case <-ticker.C:
			pruneOnce(ctx, records, retention)
		}
	}
}

// pruneOnce deletes price rows older than the retention window
func pruneOnce(ctx context.Context, records *recordspersist.Service, retention time.Duration) {
	if ctx.Err() != nil {
		return
	}
	if retention <= 0 {
		return
	}

	cutoff := time.Now().UTC().Add(-retention)
	start := time.Now()
	removed, err := records.Prune(ctx, cutoff)
	elapsed := time.Since(start)

	if err != nil {
		log.Printf("[prune] [ERROR] %v, took %dms", err, elapsed.Milliseconds())
		return
	}
	log.Printf("[prune] [OK] removed %d price rows older than %s, took %dms",
		removed, cutoff.Format(time.RFC3339), elapsed.Milliseconds())
}
