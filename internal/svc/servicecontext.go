package svc

import (
	"errors"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx database/sql driver
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlc"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/config"
	"gridscope-api/internal/model"
	recordspersist "gridscope-api/internal/persistence/records"
	"gridscope-api/internal/repo"
	"gridscope-api/pkg/confkit"
	"gridscope-api/pkg/snapshot"
	"gridscope-api/pkg/upstream"
	_ "gridscope-api/pkg/upstream/gridfeed" // register grid feed provider type
)

// ServiceContext carries the shared dependencies for HTTP handlers and the
// background refresher. Storage handles stay nil when the matching config
// section is absent; the snapshot store is the only dependency request logic
// may rely on unconditionally.
type ServiceContext struct {
	Config config.Config

	// Store holds the immutable in-memory grid view every read endpoint
	// serves from. It is always constructed; before the first publish the
	// endpoints report the data set as unavailable.
	Store *snapshot.Store

	DBConn sqlx.SqlConn
	Redis  *redis.Redis
	Cache  cache.Cache
	TTL    cachekeys.TTLSet

	AssetsModel         model.AssetsModel
	OutagesModel        model.OutagesModel
	PricingNodesModel   model.PricingNodesModel
	PricingRecordsModel model.PricingRecordsModel
	ZonesModel          model.ZonesModel

	// Records is the ingest write path; nil without Postgres.
	Records *recordspersist.Service
	// Repos reads full record sets for snapshot rebuilds; nil without Postgres.
	Repos *repo.Set
	// ResponseCache memoizes expensive endpoint payloads. Safe to use even
	// when Redis is absent; it degrades to a pass-through.
	ResponseCache *repo.ResponseCache
	// Refresher rebuilds and republishes the snapshot on an interval. It is
	// constructed here but only started by the server entrypoint.
	Refresher *repo.Refresher

	Providers   map[string]upstream.Provider
	DefaultFeed upstream.Provider
}

func NewServiceContext(c config.Config, mainConfigPath string) *ServiceContext {
	svcCtx := &ServiceContext{
		Config: c,
		Store:  snapshot.NewStore(),
		TTL:    cachekeys.NewTTLSet(c.TTL),
	}

	baseDir := confkit.BaseDir(mainConfigPath)

	checkpointPath := ""
	if c.Snapshot.CheckpointPath != "" {
		checkpointPath = confkit.ResolvePath(baseDir, c.Snapshot.CheckpointPath)
	}

	if c.Upstream.Value != nil {
		providers, err := c.Upstream.Value.BuildProviders()
		if err != nil {
			log.Fatalf("failed to build upstream providers: %v", err)
		}
		svcCtx.Providers = providers
		if name := c.Upstream.Value.Default; name != "" {
			feed, ok := providers[name]
			if !ok {
				log.Fatalf("upstream default references unknown provider %s", name)
			}
			svcCtx.DefaultFeed = feed
		}
	}

	if c.Redis.Host != "" {
		rds, err := redis.NewRedis(c.Redis)
		if err != nil {
			log.Fatalf("failed to connect redis %s: %v", c.Redis.Host, err)
		}
		svcCtx.Redis = rds
		svcCtx.Cache = cache.New(
			cache.CacheConf{{RedisConf: c.Redis, Weight: 100}},
			syncx.NewSingleFlight(),
			cache.NewStat("gridscope"),
			sqlc.ErrNotFound,
		)
	}
	svcCtx.ResponseCache = repo.NewResponseCache(svcCtx.Cache, svcCtx.TTL)

	if c.Postgres.DSN != "" {
		if c.Redis.Host == "" {
			log.Fatalf("postgres is configured without redis; cached models require redis.host")
		}
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svcCtx.DBConn = conn

		cacheConf := cache.CacheConf{{RedisConf: c.Redis, Weight: 100}}
		svcCtx.AssetsModel = model.NewAssetsModel(conn, cacheConf)
		svcCtx.OutagesModel = model.NewOutagesModel(conn, cacheConf)
		svcCtx.PricingNodesModel = model.NewPricingNodesModel(conn, cacheConf)
		svcCtx.PricingRecordsModel = model.NewPricingRecordsModel(conn, cacheConf)
		svcCtx.ZonesModel = model.NewZonesModel(conn, cacheConf)

		svcCtx.Records = recordspersist.NewService(recordspersist.Config{
			SQLConn:     conn,
			AssetsModel: svcCtx.AssetsModel,
			PricesModel: svcCtx.PricingRecordsModel,
			Cache:       svcCtx.Cache,
			TTL:         svcCtx.TTL,
		})

		repos, err := repo.New(repo.Dependencies{
			DBConn:              conn,
			Cache:               svcCtx.Cache,
			TTL:                 svcCtx.TTL,
			AssetsModel:         svcCtx.AssetsModel,
			OutagesModel:        svcCtx.OutagesModel,
			PricingNodesModel:   svcCtx.PricingNodesModel,
			PricingRecordsModel: svcCtx.PricingRecordsModel,
			ZonesModel:          svcCtx.ZonesModel,
		})
		if err != nil {
			log.Fatalf("failed to init repositories: %v", err)
		}
		svcCtx.Repos = repos

		refresher, err := repo.NewRefresher(repo.RefresherConfig{
			Records:        repos.Records,
			Store:          svcCtx.Store,
			Redis:          svcCtx.Redis,
			Cache:          svcCtx.Cache,
			TTL:            svcCtx.TTL,
			Interval:       time.Duration(c.Snapshot.RefreshSec) * time.Second,
			PriceLookback:  time.Duration(c.Snapshot.PriceLookbackSec) * time.Second,
			CheckpointPath: checkpointPath,
		})
		if err != nil {
			log.Fatalf("failed to init snapshot refresher: %v", err)
		}
		svcCtx.Refresher = refresher
	}

	preloadCheckpoint(svcCtx.Store, checkpointPath)

	return svcCtx
}

// preloadCheckpoint publishes the last saved record set, when one exists, so
// the API serves data between process start and the first database refresh.
// Without Postgres this is the only way the store gets populated.
func preloadCheckpoint(store *snapshot.Store, path string) {
	if path == "" {
		return
	}
	records, err := snapshot.LoadCheckpoint(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		log.Printf("skipping checkpoint %s: %v", path, err)
		return
	}
	snap, err := records.Build()
	if err != nil {
		log.Printf("skipping checkpoint %s: %v", path, err)
		return
	}
	published := store.Publish(snap)
	counts := published.Counts()
	log.Printf("serving checkpoint %s: %d assets, %d outages, %d nodes, %d samples, %d zones",
		path, counts.Assets, counts.Outages, counts.Nodes, counts.Samples, counts.Zones)
}
