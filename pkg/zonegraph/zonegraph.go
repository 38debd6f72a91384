// Package zonegraph answers structural questions about zones, such as which
// zones contain a point and what sits above or below a zone in the parent
// hierarchy.
// Zone boundaries are edge-inclusive, so a point on a border shared by two
// adjacent zones belongs to both. Parent references form a forest that is
// not guaranteed acyclic by construction; ancestry walks are depth-bounded
// and report corruption instead of looping.
package zonegraph

import (
	"fmt"
	"sort"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/snapshot"
)

// maxAncestryDepth bounds the parent walk. Real hierarchies are a handful
// of levels deep; anything past this is a reference cycle.
const maxAncestryDepth = 32

// Containing returns the zones whose boundary contains the point, narrowed
// to one category when given, ordered by zone id. Zones without geometry
// never contain anything.
func Containing(snap *snapshot.Snapshot, pt geo.Point, category grid.ZoneCategory) ([]grid.Zone, error) {
	if err := geo.ValidatePoint(pt); err != nil {
		return nil, err
	}
	var out []grid.Zone
	for _, z := range snap.Zones() {
		if category != "" && z.Category != category {
			continue
		}
		mp, ok := snap.ZoneGeometry(z.ZoneID)
		if !ok {
			continue
		}
		if mp.Contains(pt) {
			out = append(out, z)
		}
	}
	return out, nil
}

// Children returns the zones naming zoneID as parent, ordered by zone id.
func Children(snap *snapshot.Snapshot, zoneID string) ([]grid.Zone, error) {
	if _, ok := snap.ZoneByID(zoneID); !ok {
		return nil, fmt.Errorf("%w: zone %s", grid.ErrNotFound, zoneID)
	}
	ids := snap.ChildZoneIDs(zoneID)
	out := make([]grid.Zone, 0, len(ids))
	for _, id := range ids {
		if z, ok := snap.ZoneByID(id); ok {
			out = append(out, z)
		}
	}
	return out, nil
}

// Ancestors returns the zone's ancestry in root-to-parent order, excluding
// the zone itself. A parent reference pointing at an unknown zone ends the
// chain; a reference cycle is corrupt data and fails the query.
func Ancestors(snap *snapshot.Snapshot, zoneID string) ([]grid.Zone, error) {
	z, ok := snap.ZoneByID(zoneID)
	if !ok {
		return nil, fmt.Errorf("%w: zone %s", grid.ErrNotFound, zoneID)
	}

	var chain []grid.Zone // parent-to-root while walking
	cur := z
	for depth := 0; cur.ParentID != ""; depth++ {
		if depth >= maxAncestryDepth {
			return nil, fmt.Errorf("%w: zone %s ancestry exceeds depth %d, parent references form a cycle",
				grid.ErrDataIntegrity, zoneID, maxAncestryDepth)
		}
		parent, ok := snap.ZoneByID(cur.ParentID)
		if !ok {
			break
		}
		chain = append(chain, parent)
		cur = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// ZoneByID looks up one zone.
func ZoneByID(snap *snapshot.Snapshot, zoneID string) (grid.Zone, error) {
	z, ok := snap.ZoneByID(zoneID)
	if !ok {
		return grid.Zone{}, fmt.Errorf("%w: zone %s", grid.ErrNotFound, zoneID)
	}
	return z, nil
}

// Zones lists zones matching the filters, ordered by category then name.
func Zones(snap *snapshot.Snapshot, region string, category grid.ZoneCategory) []grid.Zone {
	var out []grid.Zone
	for _, z := range snap.Zones() {
		if region != "" && z.Region != region {
			continue
		}
		if category != "" && z.Category != category {
			continue
		}
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ZoneID < out[j].ZoneID
	})
	return out
}

// Grouped buckets zones by category. Every bucket is present even when
// empty so consumers can rely on the shape.
type Grouped struct {
	ISOBoundaries     []grid.Zone `json:"iso_boundaries"`
	LoadZones         []grid.Zone `json:"load_zones"`
	TransmissionZones []grid.Zone `json:"transmission_zones"`
	SettlementZones   []grid.Zone `json:"settlement_zones"`
	PricingZones      []grid.Zone `json:"pricing_zones"`
	ReserveZones      []grid.Zone `json:"reserve_zones"`
}

// GroupedByCategory buckets the region's zones by category, each bucket
// ordered by name.
func GroupedByCategory(snap *snapshot.Snapshot, region string) Grouped {
	g := Grouped{
		ISOBoundaries:     []grid.Zone{},
		LoadZones:         []grid.Zone{},
		TransmissionZones: []grid.Zone{},
		SettlementZones:   []grid.Zone{},
		PricingZones:      []grid.Zone{},
		ReserveZones:      []grid.Zone{},
	}
	for _, z := range Zones(snap, region, "") {
		switch z.Category {
		case grid.ZoneISOBoundary:
			g.ISOBoundaries = append(g.ISOBoundaries, z)
		case grid.ZoneLoad:
			g.LoadZones = append(g.LoadZones, z)
		case grid.ZoneTransmission:
			g.TransmissionZones = append(g.TransmissionZones, z)
		case grid.ZoneSettlement:
			g.SettlementZones = append(g.SettlementZones, z)
		case grid.ZonePricing:
			g.PricingZones = append(g.PricingZones, z)
		case grid.ZoneReserve:
			g.ReserveZones = append(g.ReserveZones, z)
		}
	}
	return g
}
