package model

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"gridscope-api/pkg/grid"
)

var _ PricingNodesModel = (*customPricingNodesModel)(nil)

type (
	// PricingNodesModel is an interface to be customized, add more methods here,
	// and implement the added methods in customPricingNodesModel.
	PricingNodesModel interface {
		pricingNodesModel
		All(ctx context.Context) ([]grid.PricingNode, error)
	}

	customPricingNodesModel struct {
		*defaultPricingNodesModel
	}
)

// NewPricingNodesModel returns a model for the database table.
func NewPricingNodesModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) PricingNodesModel {
	return &customPricingNodesModel{
		defaultPricingNodesModel: newPricingNodesModel(conn, c, opts...),
	}
}

// All loads every pricing node ordered by business key. Coordinates stay nil
// for aggregated hubs reported without a site.
func (m *customPricingNodesModel) All(ctx context.Context) ([]grid.PricingNode, error) {
	const query = `
SELECT
    id,
    node_id,
    node_name,
    node_type,
    iso_region,
    zone,
    latitude,
    longitude,
    asset_id,
    created_at
FROM public.pricing_nodes
ORDER BY node_id`

	var rows []PricingNodes
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("pricing_nodes.All query: %w", err)
	}

	result := make([]grid.PricingNode, 0, len(rows))
	for i := range rows {
		result = append(result, buildPricingNode(&rows[i]))
	}
	return result, nil
}

func buildPricingNode(row *PricingNodes) grid.PricingNode {
	n := grid.PricingNode{
		NodeID: row.NodeId,
		Name:   row.NodeName,
		Kind:   row.NodeType,
		Region: row.IsoRegion,
	}
	if row.Zone.Valid {
		n.Zone = row.Zone.String
	}
	if row.Latitude.Valid {
		value := row.Latitude.Float64
		n.Lat = &value
	}
	if row.Longitude.Valid {
		value := row.Longitude.Float64
		n.Lon = &value
	}
	if row.AssetId.Valid {
		n.AssetID = row.AssetId.String
	}
	return n
}
