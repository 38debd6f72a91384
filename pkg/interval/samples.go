package interval

import (
	"sort"
	"time"

	"gridscope-api/pkg/grid"
)

type sampleKey struct {
	node   string
	market grid.Market
}

// SampleIndex answers as-of and range queries over price samples.
type SampleIndex struct {
	byKey map[sampleKey][]grid.PriceSample // sorted by At asc
	all   []grid.PriceSample               // sorted by At asc, then node
}

// NewSampleIndex builds the index. Input order does not affect query results.
func NewSampleIndex(samples []grid.PriceSample) *SampleIndex {
	all := make([]grid.PriceSample, len(samples))
	copy(all, samples)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].At.Equal(all[j].At) {
			return all[i].At.Before(all[j].At)
		}
		if all[i].NodeID != all[j].NodeID {
			return all[i].NodeID < all[j].NodeID
		}
		return all[i].Market < all[j].Market
	})

	ix := &SampleIndex{
		byKey: make(map[sampleKey][]grid.PriceSample),
		all:   all,
	}
	for _, s := range all {
		k := sampleKey{node: s.NodeID, market: s.Market}
		ix.byKey[k] = append(ix.byKey[k], s)
	}
	return ix
}

// Len reports the number of indexed samples.
func (ix *SampleIndex) Len() int { return len(ix.all) }

// AsOf returns the most recent sample for the node and market taken at or
// before t, provided it is no older than t minus lookback. A stale or
// missing series reports ok=false rather than an error; absence of data is
// an expected state, not a failure.
func (ix *SampleIndex) AsOf(nodeID string, m grid.Market, t time.Time, lookback time.Duration) (grid.PriceSample, bool) {
	series := ix.byKey[sampleKey{node: nodeID, market: m}]
	// First sample strictly after t; the one before it is the candidate.
	i := sort.Search(len(series), func(i int) bool { return series[i].At.After(t) })
	if i == 0 {
		return grid.PriceSample{}, false
	}
	s := series[i-1]
	if s.At.Before(t.Add(-lookback)) {
		return grid.PriceSample{}, false
	}
	return s, true
}

// Range returns the node's samples in the closed range [t0, t1] for the
// market, ascending by time.
func (ix *SampleIndex) Range(nodeID string, m grid.Market, t0, t1 time.Time) []grid.PriceSample {
	series := ix.byKey[sampleKey{node: nodeID, market: m}]
	lo := sort.Search(len(series), func(i int) bool { return !series[i].At.Before(t0) })
	hi := sort.Search(len(series), func(i int) bool { return series[i].At.After(t1) })
	if lo >= hi {
		return nil
	}
	out := make([]grid.PriceSample, hi-lo)
	copy(out, series[lo:hi])
	return out
}

// ForNode returns every sample for the node and market, ascending by time.
func (ix *SampleIndex) ForNode(nodeID string, m grid.Market) []grid.PriceSample {
	return ix.byKey[sampleKey{node: nodeID, market: m}]
}

// Instants lists the distinct sample timestamps for the market, ascending.
// Region narrows to samples tagged with that region; t0 and t1, when
// non-nil, bound the result inclusively.
func (ix *SampleIndex) Instants(m grid.Market, region string, t0, t1 *time.Time) []time.Time {
	var out []time.Time
	for _, s := range ix.all {
		if s.Market != m {
			continue
		}
		if region != "" && s.Region != region {
			continue
		}
		if t0 != nil && s.At.Before(*t0) {
			continue
		}
		if t1 != nil && s.At.After(*t1) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Equal(s.At) {
			continue
		}
		out = append(out, s.At)
	}
	return out
}
