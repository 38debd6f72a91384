package resolver

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

func at(h int) time.Time {
	return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func asset(id string, fuel grid.Fuel, region string, lon, lat float64) grid.Asset {
	return grid.Asset{
		AssetID:    id,
		Name:       "Plant " + id,
		Fuel:       fuel,
		CapacityMW: 400,
		Lon:        lon,
		Lat:        lat,
		Region:     region,
		Zone:       region + "_Z1",
	}
}

func outage(id, assetID string, cat grid.OutageCategory, start time.Time, end *time.Time) grid.OutageInterval {
	red := 120.0
	return grid.OutageInterval{
		OutageID:            id,
		AssetID:             assetID,
		Category:            cat,
		Start:               start,
		End:                 end,
		Tag:                 grid.TagActive,
		CauseCode:           "EQ-FAIL",
		CapacityReductionMW: &red,
	}
}

func buildSnap(t *testing.T, assets []grid.Asset, outages []grid.OutageInterval) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.NewBuilder().AddAssets(assets...).AddOutages(outages...).Build()
	require.NoError(t, err)
	return snap
}

func TestResolveAssetsAvailableWithoutOutage(t *testing.T) {
	snap := buildSnap(t, []grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)}, nil)

	views, err := ResolveAssets(snap, Query{At: at(4)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, grid.StatusAvailable, views[0].Status)
	require.Nil(t, views[0].Outage)
}

func TestResolveAssetsNestedDerateWins(t *testing.T) {
	// A derate opening inside a longer forced outage has the later start,
	// so at 04:00 the asset reads as derated, not forced out.
	snap := buildSnap(t,
		[]grid.Asset{asset("G100", grid.FuelNaturalGas, "PJM", -80, 40)},
		[]grid.OutageInterval{
			outage("O1", "G100", grid.OutageForced, at(0), ptr(at(6))),
			outage("O2", "G100", grid.OutageDerate, at(3), ptr(at(9))),
		},
	)

	views, err := ResolveAssets(snap, Query{At: at(4)})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, grid.StatusDerated, views[0].Status)
	require.Equal(t, "O2", views[0].Outage.OutageID)

	// Before the derate opens, the forced outage rules.
	views, err = ResolveAssets(snap, Query{At: at(2)})
	require.NoError(t, err)
	require.Equal(t, grid.StatusForcedOutage, views[0].Status)

	// After the forced outage closes, the derate still covers.
	views, err = ResolveAssets(snap, Query{At: at(7)})
	require.NoError(t, err)
	require.Equal(t, grid.StatusDerated, views[0].Status)

	// Past both spans the asset recovers.
	views, err = ResolveAssets(snap, Query{At: at(10)})
	require.NoError(t, err)
	require.Equal(t, grid.StatusAvailable, views[0].Status)
}

func TestResolveAssetsStatusMapping(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelWind, "PJM", -81, 40),
			asset("G3", grid.FuelSolar, "PJM", -82, 40),
		},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutagePlanned, at(0), nil),
			outage("O2", "G2", grid.OutageMaintenance, at(0), nil),
			outage("O3", "G3", grid.OutageForced, at(0), nil),
		},
	)

	views, err := ResolveAssets(snap, Query{At: at(1)})
	require.NoError(t, err)
	require.Len(t, views, 3)
	require.Equal(t, grid.StatusPlannedMaintenance, views[0].Status, "planned maps to planned_maintenance")
	require.Equal(t, grid.StatusPlannedMaintenance, views[1].Status, "maintenance maps to planned_maintenance")
	require.Equal(t, grid.StatusForcedOutage, views[2].Status)
}

func TestResolveAssetsIgnoresStaleTag(t *testing.T) {
	// The record is tagged completed but its span still covers the instant;
	// the span is authoritative.
	o := outage("O1", "G1", grid.OutageForced, at(0), ptr(at(8)))
	o.Tag = grid.TagCompleted
	snap := buildSnap(t, []grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)}, []grid.OutageInterval{o})

	views, err := ResolveAssets(snap, Query{At: at(4)})
	require.NoError(t, err)
	require.Equal(t, grid.StatusForcedOutage, views[0].Status)
}

func TestResolveAssetsFilters(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelWind, "MISO", -90, 42),
			asset("G3", grid.FuelCoal, "MISO", -91, 43),
		},
		nil,
	)

	views, err := ResolveAssets(snap, Query{At: at(0), Region: "MISO"})
	require.NoError(t, err)
	require.Len(t, views, 2)

	views, err = ResolveAssets(snap, Query{At: at(0), Region: "MISO", Fuel: grid.FuelCoal})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "G3", views[0].AssetID)

	// Unknown filter values match nothing; that is not an error.
	views, err = ResolveAssets(snap, Query{At: at(0), Region: "CAISO"})
	require.NoError(t, err)
	require.Empty(t, views)

	views, err = ResolveAssets(snap, Query{At: at(0), Fuel: grid.Fuel("antimatter")})
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestResolveAssetsBBox(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelWind, "MISO", -95, 42),
		},
		nil,
	)

	box := &geo.BBox{West: -85, South: 35, East: -75, North: 45}
	views, err := ResolveAssets(snap, Query{At: at(0), BBox: box})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "G1", views[0].AssetID)

	bad := &geo.BBox{West: -75, South: 35, East: -85, North: 45}
	_, err = ResolveAssets(snap, Query{At: at(0), BBox: bad})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestResolveAssetsRequiresInstant(t *testing.T) {
	snap := buildSnap(t, []grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)}, nil)
	_, err := ResolveAssets(snap, Query{})
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestResolveAssetsDeterministicOrderAndLimit(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G3", grid.FuelCoal, "PJM", -82, 40),
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelCoal, "PJM", -81, 40),
		},
		nil,
	)

	views, err := ResolveAssets(snap, Query{At: at(0)})
	require.NoError(t, err)
	require.Equal(t, []string{"G1", "G2", "G3"}, []string{views[0].AssetID, views[1].AssetID, views[2].AssetID})

	views, err = ResolveAssets(snap, Query{At: at(0), Limit: 2})
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "G1", views[0].AssetID)
}

func TestResolveAssetsIdempotent(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelWind, "MISO", -95, 42),
		},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutageForced, at(0), ptr(at(6))),
		},
	)
	q := Query{At: at(3)}

	first, err := ResolveAssets(snap, q)
	require.NoError(t, err)
	want, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := ResolveAssets(snap, q)
		require.NoError(t, err)
		raw, err := json.Marshal(got)
		require.NoError(t, err)
		require.Equal(t, string(want), string(raw))
	}
}

func TestResolveAssetSingle(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{outage("O1", "G1", grid.OutageDerate, at(0), nil)},
	)

	v, err := ResolveAsset(snap, "G1", at(2))
	require.NoError(t, err)
	require.Equal(t, grid.StatusDerated, v.Status)
	require.Equal(t, "EQ-FAIL", v.Outage.CauseCode)

	_, err = ResolveAsset(snap, "G404", at(2))
	require.ErrorIs(t, err, grid.ErrNotFound)

	_, err = AssetByID(snap, "G404")
	require.ErrorIs(t, err, grid.ErrNotFound)
}

func TestResolveAssetsCorruptIntervalFailsQuery(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{outage("O1", "G1", grid.OutageForced, at(6), ptr(at(2)))},
	)
	_, err := ResolveAssets(snap, Query{At: at(6)})
	require.ErrorIs(t, err, grid.ErrDataIntegrity)
}
