package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/cli"
	"gridscope-api/internal/config"
	"gridscope-api/internal/repo"
	"gridscope-api/internal/svc"
	"gridscope-api/pkg/confkit"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
	"gridscope-api/pkg/upstream"

	// Import for side-effects: registers the gridfeed provider
	_ "gridscope-api/pkg/upstream/gridfeed"
)

const (
	feedInterval    = 2 * time.Minute  // Upstream feed probing interval
	storageInterval = 10 * time.Minute // Storage probing interval
	apiTimeout      = 5 * time.Second  // Timeout for individual probes
	shutdownTimeout = 10 * time.Second // Grace period for shutdown
)

var monitoredRegions = []string{"PJM", "MISO", "ERCOT"}

var configFile = flag.String("f", "etc/gridscope.yaml", "the config file")

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting dependency monitor...")

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

	regions := monitoredRegions
	if cfg := upstreamCfg.Providers[upstreamCfg.Default]; cfg != nil && len(cfg.Regions) > 0 {
		regions = cfg.Regions
	}
	log.Printf("  - Monitored Regions: %v", regions)
	log.Printf("  - Monitoring Intervals: feed=%s, storage=%s", feedInterval, storageInterval)

	// Storage handles; each probe skips what is not configured.
	svcCtx := svc.NewServiceContext(*appCfg, *configFile)

	checkpointPath := ""
	if appCfg.Snapshot.CheckpointPath != "" {
		checkpointPath = confkit.ResolvePath(confkit.BaseDir(*configFile), appCfg.Snapshot.CheckpointPath)
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create wait group for goroutines
	var wg sync.WaitGroup

	// Start feed monitoring task
	wg.Add(1)
	go func() {
		defer wg.Done()
		runFeedMonitor(ctx, feedProvider, regions)
	}()

	// Start storage monitoring task
	wg.Add(1)
	go func() {
		defer wg.Done()
		runStorageMonitor(ctx, svcCtx, checkpointPath)
	}()

	log.Println("[main] Dependency monitor started. Press Ctrl+C to stop.")

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

	log.Println("[main] Dependency monitor stopped")
}

// runFeedMonitor probes the upstream feed on a schedule
func runFeedMonitor(ctx context.Context, provider upstream.Provider, regions []string) {
	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	monitorFeed(ctx, provider, regions)

	for {
		select {
		case <-ctx.Done():
			log.Println("[feed] Stopping feed monitor")
			return
		case <-ticker.C:
			monitorFeed(ctx, provider, regions)
		}
	}
}

// runStorageMonitor probes the storage layer on a schedule
func runStorageMonitor(ctx context.Context, svcCtx *svc.ServiceContext, checkpointPath string) {
	ticker := time.NewTicker(storageInterval)
	defer ticker.Stop()

	// Run once immediately on startup
	monitorStorage(ctx, svcCtx, checkpointPath)

	for {
		select {
		case <-ctx.Done():
			log.Println("[storage] Stopping storage monitor")
			return
		case <-ticker.C:
			monitorStorage(ctx, svcCtx, checkpointPath)
		}
	}
}

// monitorFeed calls the read-only feed interfaces per region and logs results
func monitorFeed(parentCtx context.Context, provider upstream.Provider, regions []string) {
	// Check if parent context is already cancelled
	if parentCtx.Err() != nil {
		return
	}

	for _, region := range regions {
		func(reg string) {
			ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
			defer cancel()

			start := time.Now()
			assets, err := provider.PullAssets(ctx, reg)
			elapsed := time.Since(start)

			if err != nil {
				log.Printf("[feed.assets.%s] [ERROR] %v, took %dms", reg, err, elapsed.Milliseconds())
				return
			}

			// Validate data
			if len(assets) == 0 {
				log.Printf("[feed.assets.%s] [WARN] empty registry, took %dms", reg, elapsed.Milliseconds())
				return
			}

			log.Printf("[feed.assets.%s] [OK] %d assets, took %dms", reg, len(assets), elapsed.Milliseconds())
		}(region)

		func(reg string) {
			ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
			defer cancel()

			start := time.Now()
			samples, err := provider.PullPrices(ctx, reg, grid.MarketDAM)
			elapsed := time.Since(start)

			if err != nil {
				log.Printf("[feed.prices.%s] [ERROR] %v, took %dms", reg, err, elapsed.Milliseconds())
				return
			}

			log.Printf("[feed.prices.%s] [OK] %d samples, took %dms", reg, len(samples), elapsed.Milliseconds())

			// Log the freshest observation so a stalled feed is visible
			var newest time.Time
			for _, s := range samples {
				if s.At.After(newest) {
					newest = s.At
				}
			}
			if !newest.IsZero() {
				log.Printf("  - Latest sample: %s (%s ago)", newest.Format(time.RFC3339), time.Since(newest).Round(time.Second))
			}
		}(region)
	}
}

// monitorStorage calls storage read paths and logs results
func monitorStorage(parentCtx context.Context, svcCtx *svc.ServiceContext, checkpointPath string) {
	// Check if parent context is already cancelled
	if parentCtx.Err() != nil {
		return
	}

	// Load the full record set the refresher would build from
	if svcCtx.Repos != nil {
		func() {
			ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
			defer cancel()

			lookback := time.Duration(svcCtx.Config.Snapshot.PriceLookbackSec) * time.Second
			start := time.Now()
			records, err := svcCtx.Repos.Records.LoadRecords(ctx, lookback)
			elapsed := time.Since(start)

			if err != nil {
				log.Printf("[storage.records] [ERROR] %v, took %dms", err, elapsed.Milliseconds())
				return
			}

			log.Printf("[storage.records] [OK] assets=%d outages=%d nodes=%d samples=%d zones=%d, took %dms",
				len(records.Assets), len(records.Outages), len(records.Nodes),
				len(records.Samples), len(records.Zones), elapsed.Milliseconds())
		}()
	} else {
		log.Printf("[storage.records] [SKIP] postgres not configured")
	}

	// Inspect the checkpoint the server falls back to on cold start
	if checkpointPath != "" {
		func() {
			start := time.Now()
			records, err := snapshot.LoadCheckpoint(checkpointPath)
			elapsed := time.Since(start)

			if errors.Is(err, os.ErrNotExist) {
				log.Printf("[storage.checkpoint] [WARN] no checkpoint at %s", checkpointPath)
				return
			}
			if err != nil {
				log.Printf("[storage.checkpoint] [ERROR] %v, took %dms", err, elapsed.Milliseconds())
				return
			}

			log.Printf("[storage.checkpoint] [OK] saved %s (%s ago), %d assets, took %dms",
				records.SavedAt.Format(time.RFC3339),
				time.Since(records.SavedAt).Round(time.Second),
				len(records.Assets), elapsed.Milliseconds())
		}()
	} else {
		log.Printf("[storage.checkpoint] [SKIP] checkpoint not configured")
	}

	// Read the cluster refresh metadata published through the shared cache
	func() {
		ctx, cancel := context.WithTimeout(parentCtx, apiTimeout)
		defer cancel()

		var meta repo.Meta
		if !svcCtx.ResponseCache.Get(ctx, cachekeys.SnapshotMetaKey(), &meta) {
			log.Printf("[storage.meta] [WARN] no refresh metadata published")
			return
		}
		log.Printf("[storage.meta] [OK] version=%d refreshed_by=%s built_at=%s",
			meta.Version, meta.RefreshedBy, meta.BuiltAt.Format(time.RFC3339))
	}()
}
