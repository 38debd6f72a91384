// Package interval indexes the time-bounded records a snapshot carries:
// outage intervals (half-open spans keyed by asset) and price samples
// (instants keyed by node and market). Indexes are built once per snapshot
// and are immutable afterwards, so any number of queries may read them
// concurrently without locking.
package interval

import (
	"fmt"
	"sort"
	"time"

	"gridscope-api/pkg/grid"
)

// OutageIndex answers point-in-time and range queries over outage intervals.
type OutageIndex struct {
	byAsset map[string][]grid.OutageInterval // sorted by start asc, then id
	byID    map[string]grid.OutageInterval
	all     []grid.OutageInterval // same sort, across assets
}

// NewOutageIndex builds the index. Input order does not affect query results.
func NewOutageIndex(intervals []grid.OutageInterval) *OutageIndex {
	all := make([]grid.OutageInterval, len(intervals))
	copy(all, intervals)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Start.Equal(all[j].Start) {
			return all[i].Start.Before(all[j].Start)
		}
		return all[i].OutageID < all[j].OutageID
	})

	ix := &OutageIndex{
		byAsset: make(map[string][]grid.OutageInterval),
		byID:    make(map[string]grid.OutageInterval, len(all)),
		all:     all,
	}
	for _, o := range all {
		ix.byAsset[o.AssetID] = append(ix.byAsset[o.AssetID], o)
		ix.byID[o.OutageID] = o
	}
	return ix
}

// Len reports the number of indexed intervals.
func (ix *OutageIndex) Len() int { return len(ix.all) }

// All returns every indexed interval, start ascending then id. Callers must
// treat the slice as read-only.
func (ix *OutageIndex) All() []grid.OutageInterval { return ix.all }

// ByID looks up a single interval.
func (ix *OutageIndex) ByID(outageID string) (grid.OutageInterval, bool) {
	o, ok := ix.byID[outageID]
	return o, ok
}

// ForAsset returns every interval recorded for the asset, start ascending.
func (ix *OutageIndex) ForAsset(assetID string) []grid.OutageInterval {
	return ix.byAsset[assetID]
}

// ActiveAt returns every interval for the asset whose half-open span covers
// t. A touched interval that ends before it starts is upstream corruption
// and fails the query instead of being skipped.
func (ix *OutageIndex) ActiveAt(assetID string, t time.Time) ([]grid.OutageInterval, error) {
	var active []grid.OutageInterval
	for _, o := range ix.byAsset[assetID] {
		if o.Start.After(t) {
			break // sorted by start; nothing later can cover t
		}
		if err := ValidateSpan(o); err != nil {
			return nil, err
		}
		if o.Covers(t) {
			active = append(active, o)
		}
	}
	return active, nil
}

// WinnerAt resolves the single interval that determines the asset's status
// at t. When several intervals cover t the most specific override wins:
// latest start first, then an absent end over a bounded one, then the
// narrower (earlier) end, and finally the smaller id so the choice is total.
// Returns nil when no interval covers t.
func (ix *OutageIndex) WinnerAt(assetID string, t time.Time) (*grid.OutageInterval, error) {
	active, err := ix.ActiveAt(assetID, t)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	win := active[0]
	for _, o := range active[1:] {
		if moreSpecific(o, win) {
			win = o
		}
	}
	return &win, nil
}

// Overlapping returns the asset's intervals intersecting the closed range
// [t0, t1], start ascending.
func (ix *OutageIndex) Overlapping(assetID string, t0, t1 time.Time) ([]grid.OutageInterval, error) {
	return overlapScan(ix.byAsset[assetID], t0, t1)
}

// OverlappingAll returns every indexed interval intersecting [t0, t1],
// start ascending across assets.
func (ix *OutageIndex) OverlappingAll(t0, t1 time.Time) ([]grid.OutageInterval, error) {
	return overlapScan(ix.all, t0, t1)
}

// CoveringAll returns every indexed interval whose half-open span covers t,
// start ascending across assets.
func (ix *OutageIndex) CoveringAll(t time.Time) ([]grid.OutageInterval, error) {
	var out []grid.OutageInterval
	for _, o := range ix.all {
		if o.Start.After(t) {
			break
		}
		if err := ValidateSpan(o); err != nil {
			return nil, err
		}
		if o.Covers(t) {
			out = append(out, o)
		}
	}
	return out, nil
}

func overlapScan(sorted []grid.OutageInterval, t0, t1 time.Time) ([]grid.OutageInterval, error) {
	var out []grid.OutageInterval
	for _, o := range sorted {
		if o.Start.After(t1) {
			break
		}
		if err := ValidateSpan(o); err != nil {
			return nil, err
		}
		if o.Overlaps(t0, t1) {
			out = append(out, o)
		}
	}
	return out, nil
}

// ValidateSpan rejects an interval that ends before it starts. Such a
// record is upstream corruption and must fail the query that touches it
// rather than be skipped.
func ValidateSpan(o grid.OutageInterval) error {
	if o.End != nil && o.End.Before(o.Start) {
		return fmt.Errorf("%w: outage %s ends %s before it starts %s",
			grid.ErrDataIntegrity, o.OutageID, o.End.Format(time.RFC3339), o.Start.Format(time.RFC3339))
	}
	return nil
}

func moreSpecific(a, b grid.OutageInterval) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.After(b.Start)
	}
	if (a.End == nil) != (b.End == nil) {
		return a.End == nil
	}
	if a.End != nil && !a.End.Equal(*b.End) {
		return a.End.Before(*b.End)
	}
	return a.OutageID < b.OutageID
}
