package pricing

import (
	"fmt"
	"math"
	"time"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

// Timeseries is one node's samples over a window, ascending by time. Gaps
// in the series are preserved; nothing is filled in.
type Timeseries struct {
	NodeID string             `json:"node_id"`
	Name   string             `json:"node_name"`
	Region string             `json:"iso_region"`
	Market grid.Market        `json:"market_type"`
	Data   []grid.PriceSample `json:"data"`
}

// NodeTimeseries returns the node's samples in [t0, t1] inclusive. The node
// id must exist; a known node with no samples in the window yields an empty
// series.
func NodeTimeseries(snap *snapshot.Snapshot, nodeID string, m grid.Market, t0, t1 time.Time) (*Timeseries, error) {
	if t0.IsZero() || t1.IsZero() {
		return nil, fmt.Errorf("%w: series start and end required", grid.ErrValidation)
	}
	if t1.Before(t0) {
		return nil, fmt.Errorf("%w: series end %s precedes start %s",
			grid.ErrValidation, t1.Format(time.RFC3339), t0.Format(time.RFC3339))
	}
	n, ok := snap.NodeByID(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: pricing node %s", grid.ErrNotFound, nodeID)
	}
	return &Timeseries{
		NodeID: n.NodeID,
		Name:   n.Name,
		Region: n.Region,
		Market: m,
		Data:   snap.Samples().Range(nodeID, m, t0, t1),
	}, nil
}

// Stats summarizes the price distribution in force at one instant.
// CongestionCount is the number of nodes with congestion magnitude above
// the reporting threshold.
type Stats struct {
	Region          string      `json:"iso_region"`
	At              time.Time   `json:"timestamp"`
	Market          grid.Market `json:"market_type"`
	Min             *float64    `json:"min_lmp"`
	Max             *float64    `json:"max_lmp"`
	Avg             *float64    `json:"avg_lmp"`
	StdDev          *float64    `json:"std_lmp"`
	CongestionCount int         `json:"congestion_count"`
	NodeCount       int         `json:"node_count"`
}

// congestionThreshold is the $/MWh magnitude above which a node counts as
// congested in Stats.
const congestionThreshold = 5.0

// SurfaceStats computes the total-price distribution over the samples in
// force at the instant. Selection matches BuildHeatmap: most recent at or
// before q within lookback, per node.
func SurfaceStats(snap *snapshot.Snapshot, at time.Time, m grid.Market, region string, lookback time.Duration) (*Stats, error) {
	if at.IsZero() {
		return nil, fmt.Errorf("%w: stats instant required", grid.ErrValidation)
	}
	if lookback <= 0 {
		return nil, fmt.Errorf("%w: look-back window required", grid.ErrValidation)
	}
	if m == "" {
		m = grid.MarketDAM
	}

	st := &Stats{Region: region, At: at, Market: m}
	if st.Region == "" {
		st.Region = "ALL"
	}

	var totals []float64
	for _, n := range snap.Nodes() {
		if region != "" && n.Region != region {
			continue
		}
		s, ok := snap.Samples().AsOf(n.NodeID, m, at, lookback)
		if !ok {
			continue
		}
		totals = append(totals, s.Total)
		if s.Congestion != nil && math.Abs(*s.Congestion) > congestionThreshold {
			st.CongestionCount++
		}
	}
	st.NodeCount = len(totals)
	if len(totals) == 0 {
		return st, nil
	}

	min, max, sum := totals[0], totals[0], 0.0
	for _, v := range totals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	avg := sum / float64(len(totals))
	var sq float64
	for _, v := range totals {
		d := v - avg
		sq += d * d
	}
	sd := 0.0
	if len(totals) > 1 {
		sd = math.Sqrt(sq / float64(len(totals)-1))
	}
	st.Min, st.Max, st.Avg, st.StdDev = &min, &max, &avg, &sd
	return st, nil
}

// Instants lists the distinct sample timestamps available for the market,
// ascending, optionally bounded and capped.
func Instants(snap *snapshot.Snapshot, m grid.Market, region string, t0, t1 *time.Time, limit int) []time.Time {
	if m == "" {
		m = grid.MarketDAM
	}
	ts := snap.Samples().Instants(m, region, t0, t1)
	if limit > 0 && len(ts) > limit {
		ts = ts[:limit]
	}
	return ts
}

// NodeByID looks up one pricing node.
func NodeByID(snap *snapshot.Snapshot, nodeID string) (grid.PricingNode, error) {
	n, ok := snap.NodeByID(nodeID)
	if !ok {
		return grid.PricingNode{}, fmt.Errorf("%w: pricing node %s", grid.ErrNotFound, nodeID)
	}
	return n, nil
}

// NodesQuery narrows the node listing.
type NodesQuery struct {
	Region string
	Kind   string
	BBox   *geo.BBox
	Limit  int // 0 means unlimited
}

// Nodes lists pricing nodes matching the query, ordered by node id.
func Nodes(snap *snapshot.Snapshot, q NodesQuery) ([]grid.PricingNode, error) {
	nodes, err := candidateNodes(snap, q.BBox, q.Region, q.Kind)
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(nodes) > q.Limit {
		nodes = nodes[:q.Limit]
	}
	return nodes, nil
}
