package logic

import (
	"fmt"
	"time"

	"gridscope-api/internal/svc"
	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

// currentSnapshot returns the published view. Before the first publish every
// data endpoint reports the set as unavailable rather than serving empties.
func currentSnapshot(svcCtx *svc.ServiceContext) (*snapshot.Snapshot, error) {
	return svcCtx.Store.Current()
}

// parseInstant parses an RFC 3339 instant with an explicit offset. A
// timestamp without one is ambiguous, so it is rejected instead of being
// assigned a zone. Empty input means now.
func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: instant %q is not RFC 3339 with offset", grid.ErrValidation, s)
	}
	return t.UTC(), nil
}

// parseOptionalInstant parses a window bound: empty means unset.
func parseOptionalInstant(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseInstant(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseBBox parses a viewport in the wire form "west,south,east,north";
// empty means no viewport restriction.
func parseBBox(s string) (*geo.BBox, error) {
	if s == "" {
		return nil, nil
	}
	b, err := geo.ParseBBox(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// priceLookback is the as-of window for price selection. It matches the
// refresher's sample load window, so every sample the snapshot actually
// carries is selectable and nothing older is promised.
func priceLookback(svcCtx *svc.ServiceContext) time.Duration {
	return time.Duration(svcCtx.Config.Snapshot.PriceLookbackSec) * time.Second
}

func regionOrAll(region string) string {
	if region == "" {
		return "ALL"
	}
	return region
}
