package logic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gridscope-api/internal/types"
	"gridscope-api/pkg/grid"
)

func TestPricingNodesListing(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewPricingNodesLogic(context.Background(), svcCtx)

	coll, err := l.PricingNodes(&types.PricingNodesReq{Limit: 100})
	require.NoError(t, err)
	require.Len(t, coll.Features, 4)
	require.Equal(t, "HUB_PJM", coll.Features[0].Properties.NodeID)
	require.Equal(t, "hub", coll.Features[0].Properties.NodeType)

	// A node stored without coordinates is listed without geometry.
	require.Equal(t, "LOAD_PJM_X", coll.Features[1].Properties.NodeID)
	require.Nil(t, coll.Features[1].Geometry)
	require.NotNil(t, coll.Features[0].Geometry)
	require.Equal(t, [2]float64{-77.5, 40.9}, coll.Features[0].Geometry.Coordinates)

	coll, err = l.PricingNodes(&types.PricingNodesReq{Kind: "hub", Limit: 100})
	require.NoError(t, err)
	require.Len(t, coll.Features, 1)
	require.Equal(t, "HUB_PJM", coll.Features[0].Properties.NodeID)

	// A viewport query only sees located nodes.
	coll, err = l.PricingNodes(&types.PricingNodesReq{BBox: "-100,30,-85,50", Limit: 100})
	require.NoError(t, err)
	require.Len(t, coll.Features, 1)
	require.Equal(t, "PN_MISO_G1", coll.Features[0].Properties.NodeID)

	_, err = l.PricingNodes(&types.PricingNodesReq{BBox: "-100,30,-85", Limit: 100})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestHeatmapSurface(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewHeatmapLogic(context.Background(), svcCtx)

	hm, err := l.Heatmap(&types.HeatmapReq{At: rfc(7), Market: "DAM", Component: "total"})
	require.NoError(t, err)
	require.Equal(t, "ALL", hm.Region)
	require.Equal(t, grid.MarketDAM, hm.Market)
	require.Len(t, hm.Points, 3)

	// Most recent sample at or before the instant, per node, by node id.
	require.Equal(t, "HUB_PJM", hm.Points[0].NodeID)
	require.Equal(t, 30.0, hm.Points[0].Value)
	require.Equal(t, "PN_MISO_G1", hm.Points[1].NodeID)
	require.Equal(t, 24.0, hm.Points[1].Value)
	require.Equal(t, "PN_PJM_G1", hm.Points[2].NodeID)
	require.Equal(t, 52.0, hm.Points[2].Value)
	require.Equal(t, at(6), hm.Points[2].SampledAt)

	require.Equal(t, 24.0, *hm.Min)
	require.Equal(t, 52.0, *hm.Max)
	require.InDelta(t, 35.3333, *hm.Avg, 0.001)
	require.Equal(t, 0.0, hm.Points[1].Ratio)
	require.Equal(t, 1.0, hm.Points[2].Ratio)
	require.InDelta(t, 6.0/28.0, hm.Points[0].Ratio, 1e-9)
}

func TestHeatmapComponentAndFilters(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewHeatmapLogic(context.Background(), svcCtx)

	// The hub sample carries no congestion split and drops out.
	hm, err := l.Heatmap(&types.HeatmapReq{At: rfc(7), Market: "DAM", Component: "congestion"})
	require.NoError(t, err)
	require.Len(t, hm.Points, 2)
	require.Equal(t, -0.5, hm.Points[0].Value)
	require.Equal(t, 6.5, hm.Points[1].Value)

	hm, err = l.Heatmap(&types.HeatmapReq{At: rfc(7), Region: "MISO", Market: "DAM", Component: "total"})
	require.NoError(t, err)
	require.Equal(t, "MISO", hm.Region)
	require.Len(t, hm.Points, 1)
	require.Equal(t, "PN_MISO_G1", hm.Points[0].NodeID)

	hm, err = l.Heatmap(&types.HeatmapReq{At: rfc(7), Market: "RTM", Component: "total"})
	require.NoError(t, err)
	require.Len(t, hm.Points, 1)
	require.Equal(t, 55.0, hm.Points[0].Value)

	hm, err = l.Heatmap(&types.HeatmapReq{At: rfc(7), BBox: "-100,30,-85,50", Market: "DAM", Component: "total"})
	require.NoError(t, err)
	require.Len(t, hm.Points, 1)
	require.Equal(t, "PN_MISO_G1", hm.Points[0].NodeID)
}

func TestHeatmapEmptyAndInvalid(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewHeatmapLogic(context.Background(), svcCtx)

	// Outside the look-back window the surface is empty and carries no scale.
	hm, err := l.Heatmap(&types.HeatmapReq{At: rfc(12), Market: "DAM", Component: "total"})
	require.NoError(t, err)
	require.Empty(t, hm.Points)
	require.Nil(t, hm.Min)
	require.Nil(t, hm.Max)
	require.Nil(t, hm.Avg)

	_, err = l.Heatmap(&types.HeatmapReq{Market: "DAM", Component: "total"})
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = l.Heatmap(&types.HeatmapReq{At: rfc(7), Market: "FIVEMIN", Component: "total"})
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = l.Heatmap(&types.HeatmapReq{At: rfc(7), Market: "DAM", Component: "spread"})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestTimestampsAscendingDistinct(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewTimestampsLogic(context.Background(), svcCtx)

	resp, err := l.Timestamps(&types.TimestampsReq{Market: "DAM", Limit: 100})
	require.NoError(t, err)
	require.Equal(t, []string{"2024-05-10T05:00:00Z", "2024-05-10T06:00:00Z"}, resp.Timestamps)

	resp, err = l.Timestamps(&types.TimestampsReq{Market: "RTM", Limit: 100})
	require.NoError(t, err)
	require.Equal(t, []string{"2024-05-10T06:00:00Z"}, resp.Timestamps)

	resp, err = l.Timestamps(&types.TimestampsReq{Market: "DAM", Start: rfc(6), Limit: 100})
	require.NoError(t, err)
	require.Equal(t, []string{"2024-05-10T06:00:00Z"}, resp.Timestamps)

	resp, err = l.Timestamps(&types.TimestampsReq{Market: "DAM", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"2024-05-10T05:00:00Z"}, resp.Timestamps)

	_, err = l.Timestamps(&types.TimestampsReq{Market: "15MIN", Limit: 100})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestPricingStatsDistribution(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewPricingStatsLogic(context.Background(), svcCtx)

	stats, err := l.PricingStats(&types.PricingStatsReq{At: rfc(7), Market: "DAM"})
	require.NoError(t, err)
	require.Equal(t, "ALL", stats.Region)
	require.Equal(t, 3, stats.NodeCount)
	require.Equal(t, 24.0, *stats.Min)
	require.Equal(t, 52.0, *stats.Max)
	require.InDelta(t, 35.3333, *stats.Avg, 0.001)
	require.InDelta(t, 14.7422, *stats.StdDev, 0.001)
	require.Equal(t, 1, stats.CongestionCount)

	// No usable samples: counts are zero and the distribution is absent.
	stats, err = l.PricingStats(&types.PricingStatsReq{At: rfc(12), Market: "DAM"})
	require.NoError(t, err)
	require.Equal(t, 0, stats.NodeCount)
	require.Nil(t, stats.Min)

	_, err = l.PricingStats(&types.PricingStatsReq{Market: "DAM"})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestNodeGet(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewNodeGetLogic(context.Background(), svcCtx)

	n, err := l.NodeGet(&types.NodeGetReq{NodeID: "HUB_PJM"})
	require.NoError(t, err)
	require.Equal(t, "PJM Hub", n.Name)
	require.Equal(t, "hub", n.Kind)

	_, err = l.NodeGet(&types.NodeGetReq{NodeID: "HUB_NOPE"})
	require.ErrorIs(t, err, grid.ErrNotFound)
}

func TestNodeTimeseriesWindow(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewNodeTimeseriesLogic(context.Background(), svcCtx)

	series, err := l.NodeTimeseries(&types.NodeTimeseriesReq{NodeID: "PN_PJM_G1", Start: rfc(5), End: rfc(6), Market: "DAM"})
	require.NoError(t, err)
	require.Equal(t, "Keystone Node", series.Name)
	require.Len(t, series.Data, 2)
	require.Equal(t, 41.0, series.Data[0].Total)
	require.Equal(t, 52.0, series.Data[1].Total)

	// The bounds are inclusive.
	series, err = l.NodeTimeseries(&types.NodeTimeseriesReq{NodeID: "PN_PJM_G1", Start: rfc(6), End: rfc(6), Market: "DAM"})
	require.NoError(t, err)
	require.Len(t, series.Data, 1)

	// A quiet window is an empty series, not null.
	series, err = l.NodeTimeseries(&types.NodeTimeseriesReq{NodeID: "PN_PJM_G1", Start: rfc(0), End: rfc(4), Market: "DAM"})
	require.NoError(t, err)
	require.NotNil(t, series.Data)
	require.Empty(t, series.Data)

	_, err = l.NodeTimeseries(&types.NodeTimeseriesReq{NodeID: "PN_NOPE", Start: rfc(5), End: rfc(6), Market: "DAM"})
	require.ErrorIs(t, err, grid.ErrNotFound)

	_, err = l.NodeTimeseries(&types.NodeTimeseriesReq{NodeID: "PN_PJM_G1", End: rfc(6), Market: "DAM"})
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = l.NodeTimeseries(&types.NodeTimeseriesReq{NodeID: "PN_PJM_G1", Start: rfc(6), End: rfc(5), Market: "DAM"})
	require.ErrorIs(t, err, grid.ErrValidation)
}
