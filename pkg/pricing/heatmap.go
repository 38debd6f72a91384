// Package pricing aggregates locational price samples into the surfaces the
// map renders: a normalized heatmap at one instant, per-node timeseries,
// and distribution statistics. Sample selection is always
// most-recent-at-or-before the requested instant within a bounded look-back
// window; prices are never interpolated and never taken from the future.
// All functions are pure reads over one snapshot.
package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

// HeatmapQuery selects the node set and fixes the instant and component.
// At and Lookback must be set; zero-value filters match everything.
type HeatmapQuery struct {
	At        time.Time
	Component grid.Component
	Market    grid.Market
	Region    string
	BBox      *geo.BBox
	Lookback  time.Duration
}

// HeatmapPoint is one node's price in force at the query instant. Value is
// the selected component; Ratio is its position on the color scale.
type HeatmapPoint struct {
	NodeID     string      `json:"node_id"`
	Name       string      `json:"node_name"`
	Lon        float64     `json:"longitude"`
	Lat        float64     `json:"latitude"`
	Value      float64     `json:"value"`
	Ratio      float64     `json:"ratio"`
	Total      float64     `json:"lmp_total"`
	Energy     *float64    `json:"lmp_energy,omitempty"`
	Congestion *float64    `json:"lmp_congestion,omitempty"`
	Loss       *float64    `json:"lmp_loss,omitempty"`
	SampledAt  time.Time   `json:"timestamp"`
	Market     grid.Market `json:"market_type"`
}

// Heatmap is the normalized price surface at one instant. Min, Max and Avg
// are nil when no node had a usable sample; an empty surface has no scale.
type Heatmap struct {
	At        time.Time      `json:"timestamp"`
	Region    string         `json:"iso_region"`
	Market    grid.Market    `json:"market_type"`
	Component grid.Component `json:"component"`
	Min       *float64       `json:"min_lmp"`
	Max       *float64       `json:"max_lmp"`
	Avg       *float64       `json:"avg_lmp"`
	Points    []HeatmapPoint `json:"points"`
}

// BuildHeatmap computes the price surface. Nodes without coordinates, nodes
// with no sample inside the look-back window, and samples missing the
// selected component are left out of the surface rather than defaulted.
// Points are ordered by node id.
func BuildHeatmap(snap *snapshot.Snapshot, q HeatmapQuery) (*Heatmap, error) {
	if q.At.IsZero() {
		return nil, fmt.Errorf("%w: heatmap instant required", grid.ErrValidation)
	}
	if q.Lookback <= 0 {
		return nil, fmt.Errorf("%w: look-back window required", grid.ErrValidation)
	}
	if q.Component == "" {
		q.Component = grid.ComponentTotal
	}
	if q.Market == "" {
		q.Market = grid.MarketDAM
	}

	nodes, err := candidateNodes(snap, q.BBox, q.Region, "")
	if err != nil {
		return nil, err
	}

	hm := &Heatmap{
		At:        q.At,
		Region:    q.Region,
		Market:    q.Market,
		Component: q.Component,
	}
	if hm.Region == "" {
		hm.Region = "ALL"
	}

	var values []float64
	for _, n := range nodes {
		if !n.Located() {
			continue
		}
		s, ok := snap.Samples().AsOf(n.NodeID, q.Market, q.At, q.Lookback)
		if !ok {
			continue
		}
		v, ok := s.Value(q.Component)
		if !ok {
			continue
		}
		hm.Points = append(hm.Points, HeatmapPoint{
			NodeID:     n.NodeID,
			Name:       n.Name,
			Lon:        *n.Lon,
			Lat:        *n.Lat,
			Value:      v,
			Total:      s.Total,
			Energy:     s.Energy,
			Congestion: s.Congestion,
			Loss:       s.Loss,
			SampledAt:  s.At,
			Market:     s.Market,
		})
		values = append(values, v)
	}

	if len(values) == 0 {
		return hm, nil
	}
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	avg := sum / float64(len(values))
	hm.Min, hm.Max, hm.Avg = &min, &max, &avg
	for i := range hm.Points {
		hm.Points[i].Ratio = ScaleRatio(hm.Points[i].Value, min, max)
	}
	return hm, nil
}

// ScaleRatio places v on the color scale spanned by [min, max], clamped to
// [0, 1]. A degenerate scale (max == min) maps every value to 0.
func ScaleRatio(v, min, max float64) float64 {
	if max == min {
		return 0
	}
	r := (v - min) / (max - min)
	return math.Min(1, math.Max(0, r))
}

// candidateNodes narrows the node set by bbox, region and kind, ordered by
// node id. Without a bbox every node is a candidate, located or not.
func candidateNodes(snap *snapshot.Snapshot, box *geo.BBox, region, kind string) ([]grid.PricingNode, error) {
	var nodes []grid.PricingNode
	if box != nil {
		if err := box.Validate(); err != nil {
			return nil, err
		}
		ids := snap.NodePoints().WithinBox(*box)
		nodes = make([]grid.PricingNode, 0, len(ids))
		for _, id := range ids {
			if n, ok := snap.NodeByID(id); ok {
				nodes = append(nodes, n)
			}
		}
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].NodeID < nodes[j].NodeID })
	} else {
		nodes = snap.Nodes()
	}

	if region == "" && kind == "" {
		return nodes, nil
	}
	out := make([]grid.PricingNode, 0, len(nodes))
	for _, n := range nodes {
		if region != "" && n.Region != region {
			continue
		}
		if kind != "" && n.Kind != kind {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
