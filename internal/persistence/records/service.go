package recordspersist

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "gridscope-api/internal/cache"
	"gridscope-api/internal/ingest"
	"gridscope-api/internal/model"
	"gridscope-api/pkg/grid"
)

var _ ingest.Sink = (*Service)(nil)

const defaultCacheTTL = time.Minute

// Service wires Postgres + Redis collaborators behind the ingest sink contract.
// Every write is an upsert on the record's business key so replayed feeds and
// re-run file loads converge instead of duplicating rows.
type Service struct {
	sqlConn     sqlx.SqlConn
	assetsModel model.AssetsModel
	pricesModel model.PricingRecordsModel
	cache       gocache.Cache
	ttl         cachekeys.TTLSet
}

// Config enumerates dependencies required to persist grid records.
type Config struct {
	SQLConn     sqlx.SqlConn
	AssetsModel model.AssetsModel
	PricesModel model.PricingRecordsModel
	Cache       gocache.Cache
	TTL         cachekeys.TTLSet
}

// NewService returns a concrete persistence service when mandatory dependencies
// are present. Returns nil when SQLConn is missing; all methods tolerate a nil
// receiver so callers can wire the result unconditionally.
func NewService(cfg Config) *Service {
	if cfg.SQLConn == nil {
		return nil
	}
	return &Service{
		sqlConn:     cfg.SQLConn,
		assetsModel: cfg.AssetsModel,
		pricesModel: cfg.PricesModel,
		cache:       cfg.Cache,
		ttl:         cfg.TTL,
	}
}

// UpsertAssets persists generation asset metadata and refreshes Redis cache.
func (s *Service) UpsertAssets(ctx context.Context, assets []grid.Asset) error {
	if s == nil || s.sqlConn == nil || len(assets) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.assets (
    asset_id, asset_name, fuel_type, capacity_mw, latitude, longitude, iso_region, zone, owner, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
)
ON CONFLICT (asset_id) DO UPDATE SET
    asset_name = EXCLUDED.asset_name,
    fuel_type = EXCLUDED.fuel_type,
    capacity_mw = EXCLUDED.capacity_mw,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    iso_region = EXCLUDED.iso_region,
    zone = EXCLUDED.zone,
    owner = EXCLUDED.owner,
    updated_at = NOW();`
	for _, asset := range assets {
		if strings.TrimSpace(asset.AssetID) == "" {
			continue
		}
		if _, err := s.sqlConn.ExecCtx(ctx, stmt,
			asset.AssetID,
			asset.Name,
			string(asset.Fuel),
			asset.CapacityMW,
			asset.Lat,
			asset.Lon,
			asset.Region,
			nullString(asset.Zone),
			nullString(asset.Owner),
		); err != nil {
			return err
		}
		s.cacheAsset(ctx, asset)
	}
	return nil
}

// UpsertOutages persists outage intervals and invalidates derived statistics
// for the touched regions.
func (s *Service) UpsertOutages(ctx context.Context, outages []grid.OutageInterval) error {
	if s == nil || s.sqlConn == nil || len(outages) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.outages (
    outage_id, asset_id, outage_type, start_time, end_time, status, cause_code, cause_description, capacity_reduction_mw, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
)
ON CONFLICT (outage_id) DO UPDATE SET
    asset_id = EXCLUDED.asset_id,
    outage_type = EXCLUDED.outage_type,
    start_time = EXCLUDED.start_time,
    end_time = EXCLUDED.end_time,
    status = EXCLUDED.status,
    cause_code = EXCLUDED.cause_code,
    cause_description = EXCLUDED.cause_description,
    capacity_reduction_mw = EXCLUDED.capacity_reduction_mw,
    updated_at = NOW();`
	touched := make(map[string]struct{})
	for _, outage := range outages {
		if strings.TrimSpace(outage.OutageID) == "" || strings.TrimSpace(outage.AssetID) == "" {
			continue
		}
		end := sql.NullTime{}
		if outage.End != nil {
			end = sql.NullTime{Time: outage.End.UTC(), Valid: true}
		}
		reduction := sql.NullFloat64{}
		if outage.CapacityReductionMW != nil {
			reduction = sql.NullFloat64{Float64: *outage.CapacityReductionMW, Valid: true}
		}
		if _, err := s.sqlConn.ExecCtx(ctx, stmt,
			outage.OutageID,
			outage.AssetID,
			string(outage.Category),
			outage.Start.UTC(),
			end,
			string(outage.Tag),
			nullString(outage.CauseCode),
			nullString(outage.CauseDescription),
			reduction,
		); err != nil {
			return err
		}
		touched[outage.AssetID] = struct{}{}
	}
	s.invalidateOutageStats(ctx, touched)
	return nil
}

// UpsertNodes persists pricing node metadata.
func (s *Service) UpsertNodes(ctx context.Context, nodes []grid.PricingNode) error {
	if s == nil || s.sqlConn == nil || len(nodes) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.pricing_nodes (
    node_id, node_name, node_type, iso_region, zone, latitude, longitude, asset_id, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, NOW()
)
ON CONFLICT (node_id) DO UPDATE SET
    node_name = EXCLUDED.node_name,
    node_type = EXCLUDED.node_type,
    iso_region = EXCLUDED.iso_region,
    zone = EXCLUDED.zone,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    asset_id = EXCLUDED.asset_id;`
	for _, node := range nodes {
		if strings.TrimSpace(node.NodeID) == "" {
			continue
		}
		if _, err := s.sqlConn.ExecCtx(ctx, stmt,
			node.NodeID,
			node.Name,
			node.Kind,
			node.Region,
			nullString(node.Zone),
			nullFloatPtr(node.Lat),
			nullFloatPtr(node.Lon),
			nullString(node.AssetID),
		); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSamples persists price observations and refreshes the per-node latest
// price keys plus the bundled price surface.
func (s *Service) UpsertSamples(ctx context.Context, samples []grid.PriceSample) error {
	if s == nil || s.sqlConn == nil || len(samples) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.pricing_records (
    node_id, timestamp, lmp_total, lmp_energy, lmp_congestion, lmp_loss, iso_region, market_type, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, NOW()
)
ON CONFLICT (node_id, timestamp, market_type) DO UPDATE SET
    lmp_total = EXCLUDED.lmp_total,
    lmp_energy = EXCLUDED.lmp_energy,
    lmp_congestion = EXCLUDED.lmp_congestion,
    lmp_loss = EXCLUDED.lmp_loss,
    iso_region = EXCLUDED.iso_region;`
	latest := make(map[string]grid.PriceSample)
	for _, sample := range samples {
		if strings.TrimSpace(sample.NodeID) == "" || sample.At.IsZero() {
			continue
		}
		if _, err := s.sqlConn.ExecCtx(ctx, stmt,
			sample.NodeID,
			sample.At.UTC(),
			sample.Total,
			nullFloatPtr(sample.Energy),
			nullFloatPtr(sample.Congestion),
			nullFloatPtr(sample.Loss),
			sample.Region,
			string(sample.Market),
		); err != nil {
			return err
		}
		key := sample.NodeID + "|" + string(sample.Market)
		if prev, ok := latest[key]; !ok || sample.At.After(prev.At) {
			latest[key] = sample
		}
	}
	for _, sample := range latest {
		s.cachePrice(ctx, sample)
		s.updatePriceSurface(ctx, sample)
	}
	return nil
}

// UpsertZones persists zone boundaries and primes the geometry cache.
func (s *Service) UpsertZones(ctx context.Context, zones []grid.Zone) error {
	if s == nil || s.sqlConn == nil || len(zones) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.zones (
    zone_id, zone_name, zone_type, iso_region, parent_zone_id, description, fill_color, stroke_color, fill_opacity, geometry, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
)
ON CONFLICT (zone_id) DO UPDATE SET
    zone_name = EXCLUDED.zone_name,
    zone_type = EXCLUDED.zone_type,
    iso_region = EXCLUDED.iso_region,
    parent_zone_id = EXCLUDED.parent_zone_id,
    description = EXCLUDED.description,
    fill_color = EXCLUDED.fill_color,
    stroke_color = EXCLUDED.stroke_color,
    fill_opacity = EXCLUDED.fill_opacity,
    geometry = EXCLUDED.geometry,
    updated_at = NOW();`
	changed := false
	for _, zone := range zones {
		if strings.TrimSpace(zone.ZoneID) == "" {
			continue
		}
		opacity := sql.NullFloat64{}
		if zone.FillOpacity > 0 {
			opacity = sql.NullFloat64{Float64: zone.FillOpacity, Valid: true}
		}
		if _, err := s.sqlConn.ExecCtx(ctx, stmt,
			zone.ZoneID,
			zone.Name,
			string(zone.Category),
			zone.Region,
			nullString(zone.ParentID),
			nullString(zone.Description),
			nullString(zone.FillColor),
			nullString(zone.StrokeColor),
			opacity,
			nullString(zone.Geometry),
		); err != nil {
			return err
		}
		changed = true
		s.cacheZoneGeometry(ctx, zone)
	}
	if changed {
		s.dropCacheKey(ctx, cachekeys.ZonesGroupedKey())
	}
	return nil
}

// Prune removes price samples older than the retention cutoff and reports how
// many rows were deleted.
func (s *Service) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.pricesModel == nil {
		return 0, nil
	}
	removed, err := s.pricesModel.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logx.WithContext(ctx).Infof("recordspersist: pruned %d price samples before %s", removed, cutoff.UTC().Format(time.RFC3339))
	}
	return removed, nil
}

func (s *Service) cacheAsset(ctx context.Context, asset grid.Asset) {
	if s.cache == nil {
		return
	}
	key := cachekeys.AssetKey(asset.AssetID)
	ttl := s.ttlDuration(cachekeys.AssetTTL(s.ttl))
	if err := s.cache.SetWithExpireCtx(ctx, key, asset, ttl); err != nil {
		logx.WithContext(ctx).Errorf("recordspersist: cache asset key=%s err=%v", key, err)
	}
}

func (s *Service) cachePrice(ctx context.Context, sample grid.PriceSample) {
	if s.cache == nil {
		return
	}
	ttl := s.ttlDuration(cachekeys.PriceTTL(s.ttl))
	key := cachekeys.PriceLatestKey(sample.NodeID, string(sample.Market))
	payload := map[string]any{
		"price": sample.Total,
		"ts":    sample.At.UTC().UnixMilli(),
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, payload, ttl); err != nil {
		logx.WithContext(ctx).Errorf("recordspersist: cache price key=%s err=%v", key, err)
	}
}

func (s *Service) updatePriceSurface(ctx context.Context, sample grid.PriceSample) {
	if s.cache == nil {
		return
	}
	key := cachekeys.LmpSurfaceKey(string(sample.Market))
	var payload map[string]float64
	if err := s.cache.GetCtx(ctx, key, &payload); err != nil && !s.cache.IsNotFound(err) {
		logx.WithContext(ctx).Errorf("recordspersist: load price surface key=%s err=%v", key, err)
		return
	}
	if payload == nil {
		payload = make(map[string]float64)
	}
	payload[sample.NodeID] = sample.Total
	ttl := s.ttlDuration(cachekeys.LmpSurfaceTTL(s.ttl))
	if err := s.cache.SetWithExpireCtx(ctx, key, payload, ttl); err != nil {
		logx.WithContext(ctx).Errorf("recordspersist: cache price surface key=%s err=%v", key, err)
	}
}

func (s *Service) cacheZoneGeometry(ctx context.Context, zone grid.Zone) {
	if s.cache == nil || strings.TrimSpace(zone.Geometry) == "" {
		return
	}
	key := cachekeys.ZoneGeometryKey(zone.ZoneID)
	ttl := s.ttlDuration(cachekeys.ZoneGeometryTTL(s.ttl))
	if err := s.cache.SetWithExpireCtx(ctx, key, zone.Geometry, ttl); err != nil {
		logx.WithContext(ctx).Errorf("recordspersist: cache zone geometry key=%s err=%v", key, err)
	}
}

// invalidateOutageStats drops cached outage statistics for every region owning
// a touched asset, plus the fleet-wide rollup.
func (s *Service) invalidateOutageStats(ctx context.Context, assetIDs map[string]struct{}) {
	if s.cache == nil || len(assetIDs) == 0 {
		return
	}
	regions := make(map[string]struct{})
	for assetID := range assetIDs {
		if region := s.regionForAsset(ctx, assetID); region != "" {
			regions[region] = struct{}{}
		}
	}
	for region := range regions {
		s.dropCacheKey(ctx, cachekeys.OutageStatsKey(region))
	}
	s.dropCacheKey(ctx, cachekeys.OutageStatsKey("ALL"))
}

func (s *Service) regionForAsset(ctx context.Context, assetID string) string {
	if s.assetsModel == nil {
		return ""
	}
	row, err := s.assetsModel.FindOneByAssetId(ctx, assetID)
	if err != nil {
		if err != model.ErrNotFound {
			logx.WithContext(ctx).Errorf("recordspersist: resolve asset region id=%s err=%v", assetID, err)
		}
		return ""
	}
	return row.IsoRegion
}

func (s *Service) dropCacheKey(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelCtx(ctx, key); err != nil && !s.cache.IsNotFound(err) {
		logx.WithContext(ctx).Errorf("recordspersist: del cache key=%s err=%v", key, err)
	}
}

func (s *Service) ttlDuration(value time.Duration) time.Duration {
	if value <= 0 {
		return defaultCacheTTL
	}
	return value
}

func nullString(value string) sql.NullString {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: trimmed, Valid: true}
}

func nullFloatPtr(ptr *float64) sql.NullFloat64 {
	if ptr == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *ptr, Valid: true}
}
