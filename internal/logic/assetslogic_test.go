package logic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gridscope-api/internal/types"
	"gridscope-api/pkg/grid"
)

func TestAssetMapResolvesStatusAtInstant(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewAssetMapLogic(context.Background(), svcCtx)

	coll, err := l.AssetMap(&types.AssetMapReq{At: rfc(7), Limit: 100})
	require.NoError(t, err)
	require.Equal(t, "FeatureCollection", coll.Type)
	require.Len(t, coll.Features, 3)

	// Views come back ordered by asset id.
	require.Equal(t, "MISO_G1", coll.Features[0].Properties.AssetID)
	require.Equal(t, string(grid.StatusAvailable), coll.Features[0].Properties.Status)

	f := coll.Features[1]
	require.Equal(t, "PJM_G1", f.Properties.AssetID)
	require.Equal(t, string(grid.StatusForcedOutage), f.Properties.Status)
	require.Equal(t, string(grid.OutageForced), f.Properties.OutageType)
	require.Equal(t, "Point", f.Geometry.Type)
	require.Equal(t, [2]float64{-79.5, 40.5}, f.Geometry.Coordinates)

	// The planned outage on PJM_G2 has not started yet at 07:00.
	require.Equal(t, string(grid.StatusAvailable), coll.Features[2].Properties.Status)
	require.Empty(t, coll.Features[2].Properties.OutageType)
}

func TestAssetMapFilters(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewAssetMapLogic(context.Background(), svcCtx)

	coll, err := l.AssetMap(&types.AssetMapReq{At: rfc(7), BBox: "-100,30,-85,50", Limit: 100})
	require.NoError(t, err)
	require.Len(t, coll.Features, 1)
	require.Equal(t, "MISO_G1", coll.Features[0].Properties.AssetID)

	coll, err = l.AssetMap(&types.AssetMapReq{At: rfc(7), Fuel: "coal", Limit: 100})
	require.NoError(t, err)
	require.Len(t, coll.Features, 1)
	require.Equal(t, "PJM_G1", coll.Features[0].Properties.AssetID)

	// Matching nothing is an empty collection, not null.
	coll, err = l.AssetMap(&types.AssetMapReq{At: rfc(7), Region: "CAISO", Limit: 100})
	require.NoError(t, err)
	require.NotNil(t, coll.Features)
	require.Empty(t, coll.Features)
}

func TestAssetMapRejectsBadInput(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewAssetMapLogic(context.Background(), svcCtx)

	_, err := l.AssetMap(&types.AssetMapReq{At: "yesterday", Limit: 100})
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = l.AssetMap(&types.AssetMapReq{At: rfc(7), BBox: "-74,36.5,-82,42.5", Limit: 100})
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = l.AssetMap(&types.AssetMapReq{At: rfc(7), Fuel: "plasma", Limit: 100})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestAssetMapBeforeFirstPublish(t *testing.T) {
	svcCtx := testSvc(t, nil)
	l := NewAssetMapLogic(context.Background(), svcCtx)

	_, err := l.AssetMap(&types.AssetMapReq{At: rfc(7), Limit: 100})
	require.ErrorIs(t, err, grid.ErrUpstreamUnavailable)
}

func TestAssetListPagingKeepsRegionTotal(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewAssetListLogic(context.Background(), svcCtx)

	resp, err := l.AssetList(&types.AssetListReq{Region: "PJM", Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "PJM_G1", resp.Items[0].AssetID)
	require.Equal(t, 2, resp.Total)

	resp, err = l.AssetList(&types.AssetListReq{Region: "PJM", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "PJM_G2", resp.Items[0].AssetID)

	// Fuel narrows the page, not the region total.
	resp, err = l.AssetList(&types.AssetListReq{Region: "PJM", Fuel: "coal", Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, 2, resp.Total)

	// Paging past the end is empty, not null and not an error.
	resp, err = l.AssetList(&types.AssetListReq{Region: "PJM", Limit: 10, Offset: 50})
	require.NoError(t, err)
	require.NotNil(t, resp.Items)
	require.Empty(t, resp.Items)

	_, err = l.AssetList(&types.AssetListReq{Limit: 10, Offset: -1})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestRegionsSorted(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewRegionsLogic(context.Background(), svcCtx)

	resp, err := l.Regions()
	require.NoError(t, err)
	require.Equal(t, []string{"MISO", "PJM"}, resp.Regions)
}

func TestFuelTypesDistribution(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewFuelTypesLogic(context.Background(), svcCtx)

	resp, err := l.FuelTypes(&types.FuelTypesReq{})
	require.NoError(t, err)
	require.Len(t, resp.Distribution, 3)
	require.Equal(t, 1, resp.Distribution[grid.FuelCoal].Count)
	require.Equal(t, 800.0, resp.Distribution[grid.FuelCoal].CapacityMW)

	resp, err = l.FuelTypes(&types.FuelTypesReq{Region: "MISO"})
	require.NoError(t, err)
	require.Len(t, resp.Distribution, 1)
	require.Equal(t, 150.0, resp.Distribution[grid.FuelWind].CapacityMW)
}

func TestAssetGet(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewAssetGetLogic(context.Background(), svcCtx)

	a, err := l.AssetGet(&types.AssetGetReq{AssetID: "PJM_G1"})
	require.NoError(t, err)
	require.Equal(t, "Keystone Station", a.Name)
	require.Equal(t, grid.FuelCoal, a.Fuel)

	_, err = l.AssetGet(&types.AssetGetReq{AssetID: "PJM_G404"})
	require.ErrorIs(t, err, grid.ErrNotFound)
}

func TestAssetDetailsCarriesWinningOutage(t *testing.T) {
	svcCtx := testSvc(t, fixtureSnapshot(t))
	l := NewAssetDetailsLogic(context.Background(), svcCtx)

	view, err := l.AssetDetails(&types.AssetDetailsReq{AssetID: "PJM_G1", At: rfc(7)})
	require.NoError(t, err)
	require.Equal(t, grid.StatusForcedOutage, view.Status)
	require.NotNil(t, view.Outage)
	require.Equal(t, "O1", view.Outage.OutageID)

	// Before the outage starts the same asset reads available.
	view, err = l.AssetDetails(&types.AssetDetailsReq{AssetID: "PJM_G1", At: rfc(5)})
	require.NoError(t, err)
	require.Equal(t, grid.StatusAvailable, view.Status)
	require.Nil(t, view.Outage)

	_, err = l.AssetDetails(&types.AssetDetailsReq{AssetID: "PJM_G404", At: rfc(7)})
	require.ErrorIs(t, err, grid.ErrNotFound)

	_, err = l.AssetDetails(&types.AssetDetailsReq{AssetID: "PJM_G1", At: "noon"})
	require.ErrorIs(t, err, grid.ErrValidation)
}
