package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridscope-api/pkg/grid"
)

func TestListOutagesJoinsAndSorts(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelWind, "MISO", -95, 42),
		},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutagePlanned, at(1), ptr(at(5))),
			outage("O2", "G2", grid.OutageForced, at(3), nil),
			outage("O3", "G-unknown", grid.OutageForced, at(4), nil),
		},
	)

	views, err := ListOutages(snap, OutageFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2, "outage without a known asset is not plottable")
	require.Equal(t, "O2", views[0].OutageID, "newest start first")
	require.Equal(t, "Plant G2", views[0].AssetName)
	require.Equal(t, -95.0, views[0].Lon)

	views, err = ListOutages(snap, OutageFilter{Region: "PJM"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "O1", views[0].OutageID)

	views, err = ListOutages(snap, OutageFilter{Category: grid.OutageForced})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "O2", views[0].OutageID)
}

func TestListOutagesWindow(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutagePlanned, at(1), ptr(at(3))),
			outage("O2", "G1", grid.OutageForced, at(8), ptr(at(10))),
			outage("O3", "G1", grid.OutageDerate, at(12), nil),
		},
	)

	from, to := at(4), at(9)
	views, err := ListOutages(snap, OutageFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "O2", views[0].OutageID)

	// Open-ended spans intersect any window that starts after them.
	from2 := at(20)
	views, err = ListOutages(snap, OutageFilter{From: &from2})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "O3", views[0].OutageID)
}

func TestActiveOutagesUsesSpanNotTag(t *testing.T) {
	completed := outage("O1", "G1", grid.OutageForced, at(0), ptr(at(8)))
	completed.Tag = grid.TagCompleted
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{
			completed,
			outage("O2", "G1", grid.OutagePlanned, at(10), ptr(at(12))),
		},
	)

	views, err := ActiveOutages(snap, at(4), "", 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "O1", views[0].OutageID, "span covers 04:00 even though the tag says completed")

	views, err = ActiveOutages(snap, at(8), "", 0)
	require.NoError(t, err)
	require.Empty(t, views, "half-open span excludes the end instant")

	_, err = ActiveOutages(snap, time.Time{}, "", 0)
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestOutageByID(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutageForced, at(0), nil),
			outage("O2", "G-unknown", grid.OutagePlanned, at(1), nil),
		},
	)

	v, err := OutageByID(snap, "O1")
	require.NoError(t, err)
	require.Equal(t, "Plant G1", v.AssetName)

	v, err = OutageByID(snap, "O2")
	require.NoError(t, err)
	require.Empty(t, v.AssetName, "lookup still answers when the asset is unknown")

	_, err = OutageByID(snap, "O404")
	require.ErrorIs(t, err, grid.ErrNotFound)
}

func TestOutagesForAssetHistory(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutagePlanned, at(1), ptr(at(3))),
			outage("O2", "G1", grid.OutageForced, at(6), ptr(at(8))),
			outage("O3", "G1", grid.OutageDerate, at(10), nil),
		},
	)

	history, err := OutagesForAsset(snap, "G1", nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "O3", history[0].OutageID, "newest first")
	require.Equal(t, "O1", history[2].OutageID)

	history, err = OutagesForAsset(snap, "G1", nil, nil, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "O3", history[0].OutageID)

	to := at(4)
	history, err = OutagesForAsset(snap, "G1", nil, &to, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "O1", history[0].OutageID)

	history, err = OutagesForAsset(snap, "G404", nil, nil, 0)
	require.NoError(t, err)
	require.Empty(t, history, "no history is an empty answer, not an error")
}

func TestStatsCountsByCategory(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelWind, "MISO", -95, 42),
		},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutageForced, at(0), ptr(at(6))),
			outage("O2", "G1", grid.OutagePlanned, at(1), nil),
			outage("O3", "G2", grid.OutageDerate, at(2), ptr(at(4))),
			outage("O4", "G2", grid.OutageMaintenance, at(8), nil),
		},
	)

	st, err := Stats(snap, at(3), "")
	require.NoError(t, err)
	require.Equal(t, 3, st.TotalOutages)
	require.Equal(t, 1, st.ForcedOutages)
	require.Equal(t, 1, st.PlannedOutages)
	require.Equal(t, 1, st.Derates)
	require.Equal(t, 0, st.MaintenanceOutages)
	require.Equal(t, 360.0, st.TotalCapacityOfflineMW)

	st, err = Stats(snap, at(3), "MISO")
	require.NoError(t, err)
	require.Equal(t, 1, st.TotalOutages)
	require.Equal(t, 120.0, st.TotalCapacityOfflineMW)
}

func TestTimeline(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{asset("G1", grid.FuelCoal, "PJM", -80, 40)},
		[]grid.OutageInterval{
			outage("O1", "G1", grid.OutageForced, at(2), ptr(at(6))),
		},
	)

	points, err := Timeline(snap, at(0), at(6), 2, "")
	require.NoError(t, err)
	require.Len(t, points, 4, "00 02 04 06 inclusive")
	require.Equal(t, 0, points[0].TotalOutages)
	require.Equal(t, 1, points[1].TotalOutages, "start instant counts")
	require.Equal(t, 1, points[2].TotalOutages)
	require.Equal(t, 0, points[3].TotalOutages, "end instant does not")
	require.Equal(t, 120.0, points[1].CapacityOfflineMW)

	_, err = Timeline(snap, at(6), at(0), 1, "")
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = Timeline(snap, at(0), at(6), 0, "")
	require.ErrorIs(t, err, grid.ErrValidation)

	_, err = Timeline(snap, at(0), at(6), 25, "")
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestRegionsAndFuelMix(t *testing.T) {
	snap := buildSnap(t,
		[]grid.Asset{
			asset("G1", grid.FuelCoal, "PJM", -80, 40),
			asset("G2", grid.FuelCoal, "MISO", -95, 42),
			asset("G3", grid.FuelWind, "MISO", -96, 43),
		},
		nil,
	)

	require.Equal(t, []string{"MISO", "PJM"}, Regions(snap))

	mix := FuelMix(snap, "")
	require.Equal(t, FuelBucket{Count: 2, CapacityMW: 800}, mix[grid.FuelCoal])
	require.Equal(t, FuelBucket{Count: 1, CapacityMW: 400}, mix[grid.FuelWind])

	mix = FuelMix(snap, "MISO")
	require.Equal(t, FuelBucket{Count: 1, CapacityMW: 400}, mix[grid.FuelCoal])

	require.Equal(t, 3, AssetCount(snap, ""))
	require.Equal(t, 2, AssetCount(snap, "MISO"))
	require.Equal(t, 0, AssetCount(snap, "ERCOT"))
}
