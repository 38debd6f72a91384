package model

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"gridscope-api/pkg/grid"
)

var _ ZonesModel = (*customZonesModel)(nil)

type (
	// ZonesModel is an interface to be customized, add more methods here,
	// and implement the added methods in customZonesModel.
	ZonesModel interface {
		zonesModel
		All(ctx context.Context) ([]grid.Zone, error)
	}

	customZonesModel struct {
		*defaultZonesModel
	}
)

// NewZonesModel returns a model for the database table.
func NewZonesModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) ZonesModel {
	return &customZonesModel{
		defaultZonesModel: newZonesModel(conn, c, opts...),
	}
}

// All loads every zone ordered by business key. Geometry comes back as the
// stored GeoJSON text; rows without geometry map to an empty string.
func (m *customZonesModel) All(ctx context.Context) ([]grid.Zone, error) {
	const query = `
SELECT
    id,
    zone_id,
    zone_name,
    zone_type,
    iso_region,
    parent_zone_id,
    description,
    fill_color,
    stroke_color,
    fill_opacity,
    geometry,
    created_at,
    updated_at
FROM public.zones
ORDER BY zone_id`

	var rows []Zones
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("zones.All query: %w", err)
	}

	result := make([]grid.Zone, 0, len(rows))
	for i := range rows {
		result = append(result, buildZone(&rows[i]))
	}
	return result, nil
}

func buildZone(row *Zones) grid.Zone {
	z := grid.Zone{
		ZoneID:   row.ZoneId,
		Name:     row.ZoneName,
		Category: grid.ZoneCategory(row.ZoneType),
		Region:   row.IsoRegion,
	}
	if row.ParentZoneId.Valid {
		z.ParentID = row.ParentZoneId.String
	}
	if row.Description.Valid {
		z.Description = row.Description.String
	}
	if row.FillColor.Valid {
		z.FillColor = row.FillColor.String
	}
	if row.StrokeColor.Valid {
		z.StrokeColor = row.StrokeColor.String
	}
	if row.FillOpacity.Valid {
		z.FillOpacity = row.FillOpacity.Float64
	}
	if row.Geometry.Valid {
		z.Geometry = row.Geometry.String
	}
	return z
}
