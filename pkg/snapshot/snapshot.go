// Package snapshot assembles the in-memory view the query packages read:
// every record set, pre-sorted and indexed, behind a single immutable
// struct. A snapshot is built once, published through a Store with an
// atomic pointer swap, and never mutated afterwards; queries that hold a
// *Snapshot see one consistent version end to end.
package snapshot

import (
	"time"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/interval"
)

// Snapshot is one consistent, immutable view of the grid data set.
// All accessors return shared internals; callers must treat them as
// read-only.
type Snapshot struct {
	version uint64
	builtAt time.Time

	assets    []grid.Asset // sorted by AssetID
	assetByID map[string]grid.Asset

	nodes    []grid.PricingNode // sorted by NodeID
	nodeByID map[string]grid.PricingNode

	zones      []grid.Zone // sorted by ZoneID
	zoneByID   map[string]grid.Zone
	childrenOf map[string][]string // parent -> child ids, sorted
	zoneGeom   map[string]geo.MultiPolygon

	outages    *interval.OutageIndex
	samples    *interval.SampleIndex
	points     *geo.PointIndex // located assets
	nodePoints *geo.PointIndex // located pricing nodes
}

// Version is the monotonic publish sequence number, 0 until published.
func (s *Snapshot) Version() uint64 { return s.version }

// BuiltAt is when the snapshot was assembled.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Assets returns every asset, sorted by id.
func (s *Snapshot) Assets() []grid.Asset { return s.assets }

// AssetByID looks up one asset.
func (s *Snapshot) AssetByID(id string) (grid.Asset, bool) {
	a, ok := s.assetByID[id]
	return a, ok
}

// Nodes returns every pricing node, sorted by id.
func (s *Snapshot) Nodes() []grid.PricingNode { return s.nodes }

// NodeByID looks up one pricing node.
func (s *Snapshot) NodeByID(id string) (grid.PricingNode, bool) {
	n, ok := s.nodeByID[id]
	return n, ok
}

// Zones returns every zone, sorted by id.
func (s *Snapshot) Zones() []grid.Zone { return s.zones }

// ZoneByID looks up one zone.
func (s *Snapshot) ZoneByID(id string) (grid.Zone, bool) {
	z, ok := s.zoneByID[id]
	return z, ok
}

// ChildZoneIDs returns the ids of zones naming zoneID as parent, sorted.
func (s *Snapshot) ChildZoneIDs(zoneID string) []string {
	return s.childrenOf[zoneID]
}

// ZoneGeometry returns the decoded boundary for a zone, if it has one.
func (s *Snapshot) ZoneGeometry(zoneID string) (geo.MultiPolygon, bool) {
	g, ok := s.zoneGeom[zoneID]
	return g, ok
}

// Outages is the interval index over outage records.
func (s *Snapshot) Outages() *interval.OutageIndex { return s.outages }

// Samples is the time index over price samples.
func (s *Snapshot) Samples() *interval.SampleIndex { return s.samples }

// AssetPoints is the spatial index over assets that carry coordinates.
func (s *Snapshot) AssetPoints() *geo.PointIndex { return s.points }

// NodePoints is the spatial index over pricing nodes that carry
// coordinates; unlocated nodes are not spatially queryable.
func (s *Snapshot) NodePoints() *geo.PointIndex { return s.nodePoints }

// Counts summarizes the snapshot's record volumes.
type Counts struct {
	Assets  int `json:"assets"`
	Outages int `json:"outages"`
	Nodes   int `json:"nodes"`
	Samples int `json:"samples"`
	Zones   int `json:"zones"`
}

// Counts reports record volumes, mostly for health reporting and logs.
func (s *Snapshot) Counts() Counts {
	return Counts{
		Assets:  len(s.assets),
		Outages: s.outages.Len(),
		Nodes:   len(s.nodes),
		Samples: s.samples.Len(),
		Zones:   len(s.zones),
	}
}
