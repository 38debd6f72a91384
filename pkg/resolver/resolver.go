// Package resolver answers point-in-time questions about assets: which
// assets fall inside a viewport, and what each one's operating status is at
// a requested instant. Status is always recomputed from outage intervals;
// the lifecycle tag an upstream attached to an outage record is advisory
// and never consulted. Every function is a pure read over one snapshot, so
// identical arguments against the same snapshot yield identical results no
// matter how many callers run concurrently.
package resolver

import (
	"fmt"
	"sort"
	"time"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

// Query narrows the asset set and fixes the evaluation instant.
// Zero-value filters match everything; At must be set.
type Query struct {
	BBox   *geo.BBox
	Region string
	Fuel   grid.Fuel
	Zone   string
	At     time.Time
	Limit  int // 0 means unlimited
}

// AssetView is one asset with its derived status at the query instant.
// Outage is the winning interval when the asset is not available.
type AssetView struct {
	grid.Asset
	Status grid.AssetStatus     `json:"status"`
	Outage *grid.OutageInterval `json:"outage,omitempty"`
}

// ResolveAssets lists assets matching the query with their status at q.At,
// ordered by asset id. Unknown region/fuel/zone values match nothing and
// return an empty result; only a malformed bbox or a missing instant is a
// caller error.
func ResolveAssets(snap *snapshot.Snapshot, q Query) ([]AssetView, error) {
	if q.At.IsZero() {
		return nil, fmt.Errorf("%w: query instant required", grid.ErrValidation)
	}

	var candidates []grid.Asset
	if q.BBox != nil {
		if err := q.BBox.Validate(); err != nil {
			return nil, err
		}
		ids := snap.AssetPoints().WithinBox(*q.BBox)
		candidates = make([]grid.Asset, 0, len(ids))
		for _, id := range ids {
			if a, ok := snap.AssetByID(id); ok {
				candidates = append(candidates, a)
			}
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].AssetID < candidates[j].AssetID })
	} else {
		candidates = snap.Assets()
	}

	views := make([]AssetView, 0, len(candidates))
	for _, a := range candidates {
		if q.Region != "" && a.Region != q.Region {
			continue
		}
		if q.Fuel != "" && a.Fuel != q.Fuel {
			continue
		}
		if q.Zone != "" && a.Zone != q.Zone {
			continue
		}
		v, err := assetViewAt(snap, a, q.At)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
		if q.Limit > 0 && len(views) == q.Limit {
			break
		}
	}
	return views, nil
}

// ResolveAsset returns one asset's view at the instant.
func ResolveAsset(snap *snapshot.Snapshot, assetID string, at time.Time) (AssetView, error) {
	if at.IsZero() {
		return AssetView{}, fmt.Errorf("%w: query instant required", grid.ErrValidation)
	}
	a, ok := snap.AssetByID(assetID)
	if !ok {
		return AssetView{}, fmt.Errorf("%w: asset %s", grid.ErrNotFound, assetID)
	}
	return assetViewAt(snap, a, at)
}

// AssetByID returns the stored asset record without status derivation.
func AssetByID(snap *snapshot.Snapshot, assetID string) (grid.Asset, error) {
	a, ok := snap.AssetByID(assetID)
	if !ok {
		return grid.Asset{}, fmt.Errorf("%w: asset %s", grid.ErrNotFound, assetID)
	}
	return a, nil
}

func assetViewAt(snap *snapshot.Snapshot, a grid.Asset, at time.Time) (AssetView, error) {
	win, err := snap.Outages().WinnerAt(a.AssetID, at)
	if err != nil {
		return AssetView{}, err
	}
	v := AssetView{Asset: a, Status: grid.StatusAvailable, Outage: win}
	if win != nil {
		v.Status = grid.StatusFor(&win.Category)
	}
	return v, nil
}
