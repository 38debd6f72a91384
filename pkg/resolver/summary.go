package resolver

import (
	"sort"

	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

// Regions lists the distinct regions assets are tagged with, sorted.
func Regions(snap *snapshot.Snapshot) []string {
	seen := make(map[string]struct{})
	for _, a := range snap.Assets() {
		if a.Region != "" {
			seen[a.Region] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// FuelBucket aggregates one fuel category's fleet.
type FuelBucket struct {
	Count      int     `json:"count"`
	CapacityMW float64 `json:"capacity_mw"`
}

// FuelMix breaks the fleet down by fuel category, optionally for one
// region. Unknown regions produce an empty map.
func FuelMix(snap *snapshot.Snapshot, region string) map[grid.Fuel]FuelBucket {
	mix := make(map[grid.Fuel]FuelBucket)
	for _, a := range snap.Assets() {
		if region != "" && a.Region != region {
			continue
		}
		b := mix[a.Fuel]
		b.Count++
		b.CapacityMW += a.CapacityMW
		mix[a.Fuel] = b
	}
	return mix
}

// AssetCount reports the number of assets, optionally for one region.
func AssetCount(snap *snapshot.Snapshot, region string) int {
	if region == "" {
		return len(snap.Assets())
	}
	n := 0
	for _, a := range snap.Assets() {
		if a.Region == region {
			n++
		}
	}
	return n
}
