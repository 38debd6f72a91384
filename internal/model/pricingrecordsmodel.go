package model

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"gridscope-api/pkg/grid"
)

var _ PricingRecordsModel = (*customPricingRecordsModel)(nil)

type (
	// PricingRecordsModel is an interface to be customized, add more methods here,
	// and implement the added methods in customPricingRecordsModel.
	PricingRecordsModel interface {
		pricingRecordsModel
		Window(ctx context.Context, from time.Time) ([]grid.PriceSample, error)
		PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	customPricingRecordsModel struct {
		*defaultPricingRecordsModel
	}
)

// NewPricingRecordsModel returns a model for the database table.
func NewPricingRecordsModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) PricingRecordsModel {
	return &customPricingRecordsModel{
		defaultPricingRecordsModel: newPricingRecordsModel(conn, c, opts...),
	}
}

// Window loads every price sample observed at or after the cutoff, ordered by
// observation time then node. Snapshot rebuilds bound the cutoff to the
// configured retention horizon rather than reading the full history.
func (m *customPricingRecordsModel) Window(ctx context.Context, from time.Time) ([]grid.PriceSample, error) {
	const query = `
SELECT
    id,
    node_id,
    timestamp,
    lmp_total,
    lmp_energy,
    lmp_congestion,
    lmp_loss,
    iso_region,
    market_type,
    created_at
FROM public.pricing_records
WHERE timestamp >= $1
ORDER BY timestamp, node_id`

	var rows []PricingRecords
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query, from); err != nil {
		return nil, fmt.Errorf("pricing_records.Window query: %w", err)
	}

	result := make([]grid.PriceSample, 0, len(rows))
	for i := range rows {
		result = append(result, buildPriceSample(&rows[i]))
	}
	return result, nil
}

// PurgeBefore deletes samples older than the cutoff and reports how many rows
// went away. Row caches are keyed by id and never enumerated, so stale entries
// simply age out.
func (m *customPricingRecordsModel) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const stmt = `
DELETE FROM public.pricing_records
WHERE timestamp < $1`

	res, err := m.ExecNoCacheCtx(ctx, stmt, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pricing_records.PurgeBefore exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pricing_records.PurgeBefore rows affected: %w", err)
	}
	return affected, nil
}

func buildPriceSample(row *PricingRecords) grid.PriceSample {
	rec := grid.PriceSample{
		NodeID: row.NodeId,
		At:     row.Timestamp.UTC(),
		Market: grid.Market(row.MarketType),
		Total:  row.LmpTotal,
		Region: row.IsoRegion,
	}
	if row.LmpEnergy.Valid {
		value := row.LmpEnergy.Float64
		rec.Energy = &value
	}
	if row.LmpCongestion.Valid {
		value := row.LmpCongestion.Float64
		rec.Congestion = &value
	}
	if row.LmpLoss.Valid {
		value := row.LmpLoss.Float64
		rec.Loss = &value
	}
	return rec
}
