package model

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"gridscope-api/pkg/grid"
)

var _ AssetsModel = (*customAssetsModel)(nil)

type (
	// AssetsModel is an interface to be customized, add more methods here,
	// and implement the added methods in customAssetsModel.
	AssetsModel interface {
		assetsModel
		All(ctx context.Context) ([]grid.Asset, error)
		RegionAssetIds(ctx context.Context, region string) ([]string, error)
	}

	customAssetsModel struct {
		*defaultAssetsModel
	}
)

// NewAssetsModel returns a model for the database table.
func NewAssetsModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) AssetsModel {
	return &customAssetsModel{
		defaultAssetsModel: newAssetsModel(conn, c, opts...),
	}
}

// All loads every asset ordered by business key. Snapshot rebuilds read the
// whole table; per-row caching is skipped on purpose.
func (m *customAssetsModel) All(ctx context.Context) ([]grid.Asset, error) {
	const query = `
SELECT
    id,
    asset_id,
    asset_name,
    fuel_type,
    capacity_mw,
    latitude,
    longitude,
    iso_region,
    zone,
    owner,
    created_at,
    updated_at
FROM public.assets
ORDER BY asset_id`

	var rows []Assets
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("assets.All query: %w", err)
	}

	result := make([]grid.Asset, 0, len(rows))
	for i := range rows {
		result = append(result, buildAsset(&rows[i]))
	}
	return result, nil
}

// RegionAssetIds returns business keys for one ISO region, ordered.
func (m *customAssetsModel) RegionAssetIds(ctx context.Context, region string) ([]string, error) {
	const query = `
SELECT asset_id
FROM public.assets
WHERE iso_region = $1
ORDER BY asset_id`

	var ids []string
	if err := m.QueryRowsNoCacheCtx(ctx, &ids, query, region); err != nil {
		return nil, fmt.Errorf("assets.RegionAssetIds query: %w", err)
	}
	return ids, nil
}

func buildAsset(row *Assets) grid.Asset {
	a := grid.Asset{
		AssetID:    row.AssetId,
		Name:       row.AssetName,
		Fuel:       grid.Fuel(row.FuelType),
		CapacityMW: row.CapacityMw,
		Lat:        row.Latitude,
		Lon:        row.Longitude,
		Region:     row.IsoRegion,
	}
	if row.Zone.Valid {
		a.Zone = row.Zone.String
	}
	if row.Owner.Valid {
		a.Owner = row.Owner.String
	}
	return a
}
