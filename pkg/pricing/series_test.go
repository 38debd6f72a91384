package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridscope-api/pkg/grid"
)

func TestNodeTimeseries(t *testing.T) {
	snap := buildSnap(t,
		[]grid.PricingNode{node("N1", "PJM", -80, 40)},
		[]grid.PriceSample{
			sampleAt("N1", at(11, 0), 48),
			sampleAt("N1", at(9, 0), 35),
			sampleAt("N1", at(10, 0), 42),
			sampleAt("N1", at(14, 0), 60),
		},
	)

	ts, err := NodeTimeseries(snap, "N1", grid.MarketDAM, at(9, 0), at(11, 0))
	require.NoError(t, err)
	require.Equal(t, "Node N1", ts.Name)
	require.Len(t, ts.Data, 3, "window endpoints are inclusive")
	require.Equal(t, 35.0, ts.Data[0].Total)
	require.Equal(t, 42.0, ts.Data[1].Total)
	require.Equal(t, 48.0, ts.Data[2].Total)

	ts, err = NodeTimeseries(snap, "N1", grid.MarketDAM, at(15, 0), at(18, 0))
	require.NoError(t, err)
	require.Empty(t, ts.Data, "a known node with no samples in range answers empty")

	_, err = NodeTimeseries(snap, "N404", grid.MarketDAM, at(9, 0), at(11, 0))
	require.ErrorIs(t, err, grid.ErrNotFound)

	_, err = NodeTimeseries(snap, "N1", grid.MarketDAM, at(11, 0), at(9, 0))
	require.ErrorIs(t, err, grid.ErrValidation)
}

func TestSurfaceStats(t *testing.T) {
	congested := sampleAt("N2", at(9, 0), 80)
	congested.Congestion = fp(-7.5)
	mild := sampleAt("N3", at(9, 0), 50)
	mild.Congestion = fp(2)
	snap := buildSnap(t,
		[]grid.PricingNode{
			node("N1", "PJM", -80, 40),
			node("N2", "PJM", -81, 40),
			node("N3", "PJM", -82, 40),
		},
		[]grid.PriceSample{sampleAt("N1", at(9, 0), 20), congested, mild},
	)

	st, err := SurfaceStats(snap, at(9, 30), grid.MarketDAM, "", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 3, st.NodeCount)
	require.Equal(t, 20.0, *st.Min)
	require.Equal(t, 80.0, *st.Max)
	require.Equal(t, 50.0, *st.Avg)
	require.InDelta(t, 30.0, *st.StdDev, 1e-9)
	require.Equal(t, 1, st.CongestionCount, "only magnitudes above the threshold count")
}

func TestSurfaceStatsEmpty(t *testing.T) {
	snap := buildSnap(t, []grid.PricingNode{node("N1", "PJM", -80, 40)}, nil)

	st, err := SurfaceStats(snap, at(9, 0), grid.MarketDAM, "", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 0, st.NodeCount)
	require.Nil(t, st.Min)
	require.Nil(t, st.StdDev)
}

func TestInstants(t *testing.T) {
	snap := buildSnap(t,
		[]grid.PricingNode{node("N1", "PJM", -80, 40)},
		[]grid.PriceSample{
			sampleAt("N1", at(9, 0), 35),
			sampleAt("N1", at(10, 0), 42),
			sampleAt("N1", at(11, 0), 48),
		},
	)

	ts := Instants(snap, grid.MarketDAM, "", nil, nil, 0)
	require.Len(t, ts, 3)

	ts = Instants(snap, grid.MarketDAM, "", nil, nil, 2)
	require.Equal(t, []time.Time{at(9, 0), at(10, 0)}, ts)

	require.Empty(t, Instants(snap, grid.MarketRTM, "", nil, nil, 0))
}

func TestNodesListing(t *testing.T) {
	gen := node("N3", "PJM", -82, 41)
	gen.Kind = "generator"
	snap := buildSnap(t,
		[]grid.PricingNode{node("N2", "MISO", -90, 42), node("N1", "PJM", -80, 40), gen},
		nil,
	)

	nodes, err := Nodes(snap, NodesQuery{})
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	require.Equal(t, "N1", nodes[0].NodeID, "ordered by id")

	nodes, err = Nodes(snap, NodesQuery{Region: "PJM", Kind: "generator"})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "N3", nodes[0].NodeID)

	nodes, err = Nodes(snap, NodesQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	n, err := NodeByID(snap, "N2")
	require.NoError(t, err)
	require.Equal(t, "MISO", n.Region)

	_, err = NodeByID(snap, "N404")
	require.ErrorIs(t, err, grid.ErrNotFound)
}
