package cache

import (
	"fmt"
	"strings"
	"time"

	"gridscope-api/internal/config"
)

// Namespace is the Redis key prefix for the GridScope application.
const Namespace = "gridscope"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

// Scaled applies a multiplier to a TTL class, useful for half/double TTL variants.
func (t TTLSet) Scaled(class TTLClass, factor float64) time.Duration {
	base := t.Duration(class)
	if base <= 0 || factor <= 0 {
		return base
	}
	return time.Duration(float64(base) * factor)
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Pricing Keys -----------------------------------------------------------

// PriceLatestKey returns the latest observed price key for a node and market.
func PriceLatestKey(nodeID, market string) string {
	return formatKey("price", "latest", nodeID, market)
}

// LmpSurfaceKey holds the aggregated node→price map for one market.
func LmpSurfaceKey(market string) string {
	return formatKey("lmp_surface", market)
}

// HeatmapKey stores a pre-rendered heatmap payload per region/market/component.
func HeatmapKey(region, market, component string) string {
	return formatKey("heatmap", region, market, component)
}

// --- Asset & Outage Keys ----------------------------------------------------

// AssetKey stores static asset metadata (fuel, capacity, location).
func AssetKey(assetID string) string {
	return formatKey("asset", assetID)
}

// OutageStatsKey caches the aggregated outage statistics for one region.
// Region "ALL" scopes the fleet-wide rollup.
func OutageStatsKey(region string) string {
	return formatKey("outages", "stats", region)
}

// OutageTimelineKey caches a bucketed outage timeline payload.
func OutageTimelineKey(region string, stepHours int) string {
	return formatKey("outages", "timeline", region, fmt.Sprintf("%dh", stepHours))
}

// IngestGuardKey prevents duplicate ingestion of the same upstream record.
func IngestGuardKey(kind, recordID string) string {
	return formatKey("ingest", kind, recordID)
}

// --- Zone Keys --------------------------------------------------------------

// ZonesGroupedKey caches the zones-by-category payload.
func ZonesGroupedKey() string {
	return formatKey("zones", "grouped")
}

// ZoneGeometryKey caches a single zone geometry document.
func ZoneGeometryKey(zoneID string) string {
	return formatKey("zone", "geojson", zoneID)
}

// --- Snapshot Keys ----------------------------------------------------------

// RefreshLockKey is used as a short-lived snapshot rebuild lock so that only
// one replica reloads from Postgres per tick.
func RefreshLockKey() string {
	return formatKey("lock", "refresh")
}

// SnapshotMetaKey stores the version and build time of the last published view.
func SnapshotMetaKey() string {
	return formatKey("snapshot", "meta")
}

// --- TTL Helpers ------------------------------------------------------------

// PriceTTL returns short-lived TTL for individual price keys.
func PriceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// LmpSurfaceTTL returns the TTL for bundled price surfaces.
func LmpSurfaceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// HeatmapTTL returns the TTL for rendered heatmap payloads.
func HeatmapTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// AssetTTL returns the TTL for static asset metadata.
func AssetTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}

// OutageStatsTTL returns the TTL for aggregated outage statistics.
func OutageStatsTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// OutageTimelineTTL returns the TTL for bucketed timeline payloads.
func OutageTimelineTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// IngestGuardTTL returns the TTL for ingest idempotency guards.
func IngestGuardTTL() time.Duration {
	return 24 * time.Hour
}

// ZonesGroupedTTL returns the TTL for the grouped zone catalog.
func ZonesGroupedTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}

// ZoneGeometryTTL returns the TTL for zone geometry documents.
func ZoneGeometryTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}

// RefreshLockTTL returns the TTL for snapshot rebuild locks.
func RefreshLockTTL(ttl TTLSet) time.Duration {
	return ttl.Scaled(TTLShort, 0.5) // target ~5s when short=10s
}

// SnapshotMetaTTL returns the TTL for published snapshot metadata.
func SnapshotMetaTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// FormatCacheKey is exported for dynamic key construction when patterns
// are not covered by helpers (e.g. region-segmented payloads).
func FormatCacheKey(parts ...string) string {
	return formatKey(parts...)
}

// BuildKeyWithSuffix appends an arbitrary suffix to an existing key.
func BuildKeyWithSuffix(baseKey, suffix string) string {
	if strings.TrimSpace(suffix) == "" {
		return baseKey
	}
	return fmt.Sprintf("%s:%s", baseKey, strings.TrimSpace(suffix))
}
