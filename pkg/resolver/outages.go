package resolver

import (
	"fmt"
	"sort"
	"time"

	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/interval"
	"gridscope-api/pkg/snapshot"
)

// OutageView is an outage interval joined with fields of its asset. The
// listing endpoints plot outages at the asset's location, so records whose
// asset is missing from the snapshot are omitted from map listings.
type OutageView struct {
	grid.OutageInterval
	AssetName  string    `json:"asset_name"`
	Fuel       grid.Fuel `json:"fuel_type"`
	CapacityMW float64   `json:"capacity_mw"`
	Lon        float64   `json:"longitude"`
	Lat        float64   `json:"latitude"`
}

// OutageFilter narrows the outage listing. From/To bound the records to
// those whose span intersects the window; Category and Tag are exact
// matches. Tag filters stored metadata only and has no bearing on whether
// an outage counts as active.
type OutageFilter struct {
	From     *time.Time
	To       *time.Time
	Region   string
	Category grid.OutageCategory
	Tag      grid.OutageTag
	Limit    int // 0 means unlimited
}

// ListOutages returns outages matching the filter joined with their assets,
// newest start first.
func ListOutages(snap *snapshot.Snapshot, f OutageFilter) ([]OutageView, error) {
	var views []OutageView
	for _, o := range snap.Outages().All() {
		if err := interval.ValidateSpan(o); err != nil {
			return nil, err
		}
		if f.From != nil && o.End != nil && o.End.Before(*f.From) {
			continue
		}
		if f.To != nil && o.Start.After(*f.To) {
			continue
		}
		if f.Category != "" && o.Category != f.Category {
			continue
		}
		if f.Tag != "" && o.Tag != f.Tag {
			continue
		}
		a, ok := snap.AssetByID(o.AssetID)
		if !ok {
			continue
		}
		if f.Region != "" && a.Region != f.Region {
			continue
		}
		views = append(views, outageView(o, a))
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].Start.Equal(views[j].Start) {
			return views[i].Start.After(views[j].Start)
		}
		return views[i].OutageID < views[j].OutageID
	})
	if f.Limit > 0 && len(views) > f.Limit {
		views = views[:f.Limit]
	}
	return views, nil
}

// ActiveOutages returns outages whose span covers the instant, joined with
// their assets, start ascending. Activity comes from the span alone.
func ActiveOutages(snap *snapshot.Snapshot, at time.Time, region string, limit int) ([]OutageView, error) {
	if at.IsZero() {
		return nil, fmt.Errorf("%w: query instant required", grid.ErrValidation)
	}
	covering, err := snap.Outages().CoveringAll(at)
	if err != nil {
		return nil, err
	}
	var views []OutageView
	for _, o := range covering {
		a, ok := snap.AssetByID(o.AssetID)
		if !ok {
			continue
		}
		if region != "" && a.Region != region {
			continue
		}
		views = append(views, outageView(o, a))
		if limit > 0 && len(views) == limit {
			break
		}
	}
	return views, nil
}

// OutageByID returns one outage joined with its asset when the asset is
// known; the view carries zero asset fields otherwise.
func OutageByID(snap *snapshot.Snapshot, outageID string) (OutageView, error) {
	o, ok := snap.Outages().ByID(outageID)
	if !ok {
		return OutageView{}, fmt.Errorf("%w: outage %s", grid.ErrNotFound, outageID)
	}
	if err := interval.ValidateSpan(o); err != nil {
		return OutageView{}, err
	}
	v := OutageView{OutageInterval: o}
	if a, ok := snap.AssetByID(o.AssetID); ok {
		v = outageView(o, a)
	}
	return v, nil
}

// OutagesForAsset returns the asset's outage history, newest start first.
// From/To bound the history to spans intersecting the window. An asset with
// no recorded outages yields an empty history, even if the asset id itself
// is unknown to the snapshot.
func OutagesForAsset(snap *snapshot.Snapshot, assetID string, from, to *time.Time, limit int) ([]grid.OutageInterval, error) {
	var out []grid.OutageInterval
	history := snap.Outages().ForAsset(assetID)
	for i := len(history) - 1; i >= 0; i-- { // stored ascending; walk newest first
		o := history[i]
		if err := interval.ValidateSpan(o); err != nil {
			return nil, err
		}
		if from != nil && o.End != nil && o.End.Before(*from) {
			continue
		}
		if to != nil && o.Start.After(*to) {
			continue
		}
		out = append(out, o)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// OutageStats summarizes outages in force at one instant.
type OutageStats struct {
	TotalOutages           int     `json:"total_outages"`
	ForcedOutages          int     `json:"forced_outages"`
	PlannedOutages         int     `json:"planned_outages"`
	MaintenanceOutages     int     `json:"maintenance_outages"`
	Derates                int     `json:"derates"`
	TotalCapacityOfflineMW float64 `json:"total_capacity_offline_mw"`
}

// Stats counts outages in force at the instant, optionally for one region.
func Stats(snap *snapshot.Snapshot, at time.Time, region string) (OutageStats, error) {
	if at.IsZero() {
		return OutageStats{}, fmt.Errorf("%w: query instant required", grid.ErrValidation)
	}
	covering, err := snap.Outages().CoveringAll(at)
	if err != nil {
		return OutageStats{}, err
	}
	var st OutageStats
	for _, o := range covering {
		if region != "" {
			a, ok := snap.AssetByID(o.AssetID)
			if !ok || a.Region != region {
				continue
			}
		}
		st.TotalOutages++
		switch o.Category {
		case grid.OutageForced:
			st.ForcedOutages++
		case grid.OutagePlanned:
			st.PlannedOutages++
		case grid.OutageMaintenance:
			st.MaintenanceOutages++
		case grid.OutageDerate:
			st.Derates++
		}
		if o.CapacityReductionMW != nil {
			st.TotalCapacityOfflineMW += *o.CapacityReductionMW
		}
	}
	return st, nil
}

// TimelinePoint is the outage posture at one sampled instant.
type TimelinePoint struct {
	Timestamp         time.Time `json:"timestamp"`
	TotalOutages      int       `json:"total_outages"`
	ForcedOutages     int       `json:"forced_outages"`
	PlannedOutages    int       `json:"planned_outages"`
	CapacityOfflineMW float64   `json:"capacity_offline_mw"`
}

const maxTimelinePoints = 2000

// Timeline samples Stats at stepHours intervals across [t0, t1] inclusive.
func Timeline(snap *snapshot.Snapshot, t0, t1 time.Time, stepHours int, region string) ([]TimelinePoint, error) {
	if t0.IsZero() || t1.IsZero() {
		return nil, fmt.Errorf("%w: timeline start and end required", grid.ErrValidation)
	}
	if t1.Before(t0) {
		return nil, fmt.Errorf("%w: timeline end %s precedes start %s",
			grid.ErrValidation, t1.Format(time.RFC3339), t0.Format(time.RFC3339))
	}
	if stepHours < 1 || stepHours > 24 {
		return nil, fmt.Errorf("%w: timeline interval must be 1-24 hours, got %d", grid.ErrValidation, stepHours)
	}
	step := time.Duration(stepHours) * time.Hour
	if t1.Sub(t0)/step >= maxTimelinePoints {
		return nil, fmt.Errorf("%w: timeline window too wide for %dh interval", grid.ErrValidation, stepHours)
	}

	var points []TimelinePoint
	for cur := t0; !cur.After(t1); cur = cur.Add(step) {
		st, err := Stats(snap, cur, region)
		if err != nil {
			return nil, err
		}
		points = append(points, TimelinePoint{
			Timestamp:         cur,
			TotalOutages:      st.TotalOutages,
			ForcedOutages:     st.ForcedOutages,
			PlannedOutages:    st.PlannedOutages,
			CapacityOfflineMW: st.TotalCapacityOfflineMW,
		})
	}
	return points, nil
}

func outageView(o grid.OutageInterval, a grid.Asset) OutageView {
	return OutageView{
		OutageInterval: o,
		AssetName:      a.Name,
		Fuel:           a.Fuel,
		CapacityMW:     a.CapacityMW,
		Lon:            a.Lon,
		Lat:            a.Lat,
	}
}
