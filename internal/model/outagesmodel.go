package model

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"gridscope-api/pkg/grid"
)

var _ OutagesModel = (*customOutagesModel)(nil)

type (
	// OutagesModel is an interface to be customized, add more methods here,
	// and implement the added methods in customOutagesModel.
	OutagesModel interface {
		outagesModel
		All(ctx context.Context) ([]grid.OutageInterval, error)
		EndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	customOutagesModel struct {
		*defaultOutagesModel
	}
)

// NewOutagesModel returns a model for the database table.
func NewOutagesModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) OutagesModel {
	return &customOutagesModel{
		defaultOutagesModel: newOutagesModel(conn, c, opts...),
	}
}

// All loads every outage interval ordered by start time. Open-ended rows
// (NULL end_time) come back with a nil End.
func (m *customOutagesModel) All(ctx context.Context) ([]grid.OutageInterval, error) {
	const query = `
SELECT
    id,
    outage_id,
    asset_id,
    outage_type,
    start_time,
    end_time,
    status,
    cause_code,
    cause_description,
    capacity_reduction_mw,
    created_at,
    updated_at
FROM public.outages
ORDER BY start_time, outage_id`

	var rows []Outages
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("outages.All query: %w", err)
	}

	result := make([]grid.OutageInterval, 0, len(rows))
	for i := range rows {
		result = append(result, buildOutage(&rows[i]))
	}
	return result, nil
}

// EndedBefore counts bounded outages that finished before the cutoff. Retention
// jobs use it to size a purge before running one.
func (m *customOutagesModel) EndedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
SELECT COUNT(*)
FROM public.outages
WHERE end_time IS NOT NULL AND end_time < $1`

	var count int64
	if err := m.QueryRowNoCacheCtx(ctx, &count, query, cutoff); err != nil {
		return 0, fmt.Errorf("outages.EndedBefore query: %w", err)
	}
	return count, nil
}

func buildOutage(row *Outages) grid.OutageInterval {
	rec := grid.OutageInterval{
		OutageID: row.OutageId,
		AssetID:  row.AssetId,
		Category: grid.OutageCategory(row.OutageType),
		Start:    row.StartTime.UTC(),
		Tag:      grid.OutageTag(row.Status),
	}
	if row.EndTime.Valid {
		value := row.EndTime.Time.UTC()
		rec.End = &value
	}
	if row.CauseCode.Valid {
		rec.CauseCode = row.CauseCode.String
	}
	if row.CauseDescription.Valid {
		rec.CauseDescription = row.CauseDescription.String
	}
	if row.CapacityReductionMw.Valid {
		value := row.CapacityReductionMw.Float64
		rec.CapacityReductionMW = &value
	}
	return rec
}
