package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/pkg/snapshot"
)

// Meta is the cluster-visible summary of the last published snapshot,
// written to the shared cache on every refresh.
type Meta struct {
	Version     uint64          `json:"version"`
	BuiltAt     time.Time       `json:"built_at"`
	RefreshedBy string          `json:"refreshed_by"`
	Counts      snapshot.Counts `json:"counts"`
}

// RefresherConfig wires a Refresher. Records and Store are required; Redis
// enables the cross-instance refresh lease, Cache the published Meta, and
// CheckpointPath an on-disk fallback for cold starts.
type RefresherConfig struct {
	Records        RecordsRepo
	Store          *snapshot.Store
	Redis          *redis.Redis
	Cache          cache.Cache
	TTL            cachekeys.TTLSet
	Interval       time.Duration
	PriceLookback  time.Duration
	CheckpointPath string
}

// Refresher periodically rebuilds the serving snapshot from storage and
// publishes it to the store. With several instances sharing one Redis, a
// lease keeps all but one of them from hitting Postgres each tick; the
// others pick up the data on their own next lease win, and every instance
// still publishes locally from its own successful refresh.
type Refresher struct {
	records        RecordsRepo
	store          *snapshot.Store
	redis          *redis.Redis
	cache          cache.Cache
	ttl            cachekeys.TTLSet
	interval       time.Duration
	lookback       time.Duration
	checkpointPath string
	id             string

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRefresher validates the config and builds a stopped refresher.
func NewRefresher(cfg RefresherConfig) (*Refresher, error) {
	if cfg.Records == nil {
		return nil, errors.New("repo: refresher requires a records repo")
	}
	if cfg.Store == nil {
		return nil, errors.New("repo: refresher requires a snapshot store")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Refresher{
		records:        cfg.Records,
		store:          cfg.Store,
		redis:          cfg.Redis,
		cache:          cfg.Cache,
		ttl:            cfg.TTL,
		interval:       interval,
		lookback:       cfg.PriceLookback,
		checkpointPath: cfg.CheckpointPath,
		id:             uuid.NewString(),
		stopChan:       make(chan struct{}),
	}, nil
}

// Run blocks, refreshing on the configured interval until the context is
// cancelled or Stop is called. The first refresh runs immediately so a fresh
// process serves data as soon as storage answers.
func (r *Refresher) Run(ctx context.Context) error {
	if r == nil {
		return errors.New("repo: nil refresher")
	}
	if err := r.RefreshOnce(ctx); err != nil {
		logx.WithContext(ctx).Errorf("repo: initial snapshot refresh err=%v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopChan:
			return nil
		case <-ticker.C:
			if !r.acquireLease(ctx) {
				continue
			}
			if err := r.RefreshOnce(ctx); err != nil {
				logx.WithContext(ctx).Errorf("repo: snapshot refresh err=%v", err)
			}
		}
	}
}

// Stop signals the loop to exit.
func (r *Refresher) Stop() { r.stopOnce.Do(func() { close(r.stopChan) }) }

// RefreshOnce loads records, builds one snapshot and publishes it.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	records, err := r.records.LoadRecords(ctx, r.lookback)
	if err != nil {
		return err
	}
	snap, err := records.Build()
	if err != nil {
		return err
	}
	published := r.store.Publish(snap)
	counts := published.Counts()
	logx.WithContext(ctx).Infof("repo: published snapshot version=%d assets=%d outages=%d nodes=%d samples=%d zones=%d",
		published.Version(), counts.Assets, counts.Outages, counts.Nodes, counts.Samples, counts.Zones)

	r.writeMeta(ctx, published)
	if r.checkpointPath != "" {
		if err := snapshot.SaveCheckpoint(r.checkpointPath, records); err != nil {
			logx.WithContext(ctx).Errorf("repo: save checkpoint %s err=%v", r.checkpointPath, err)
		}
	}
	return nil
}

// acquireLease takes the cross-instance refresh lease. Redis being down must
// not stop refreshes, so errors fail open.
func (r *Refresher) acquireLease(ctx context.Context) bool {
	if r.redis == nil {
		return true
	}
	seconds := int(r.interval.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	ok, err := r.redis.SetnxExCtx(ctx, cachekeys.RefreshLockKey(), r.id, seconds)
	if err != nil {
		logx.WithContext(ctx).Errorf("repo: refresh lease err=%v", err)
		return true
	}
	return ok
}

func (r *Refresher) writeMeta(ctx context.Context, snap *snapshot.Snapshot) {
	if r.cache == nil {
		return
	}
	meta := Meta{
		Version:     snap.Version(),
		BuiltAt:     snap.BuiltAt(),
		RefreshedBy: r.id,
		Counts:      snap.Counts(),
	}
	expire := cachekeys.SnapshotMetaTTL(r.ttl)
	if err := r.cache.SetWithExpireCtx(ctx, cachekeys.SnapshotMetaKey(), meta, expire); err != nil {
		logx.WithContext(ctx).Errorf("repo: cache snapshot meta err=%v", err)
	}
}
