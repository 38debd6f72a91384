package snapshot

import (
	"fmt"
	"sort"
	"time"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/interval"
)

// Builder accumulates raw records and assembles them into a Snapshot.
// Not safe for concurrent use; build on one goroutine, publish the result.
type Builder struct {
	assets  []grid.Asset
	outages []grid.OutageInterval
	nodes   []grid.PricingNode
	samples []grid.PriceSample
	zones   []grid.Zone
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) AddAssets(assets ...grid.Asset) *Builder {
	b.assets = append(b.assets, assets...)
	return b
}

func (b *Builder) AddOutages(outages ...grid.OutageInterval) *Builder {
	b.outages = append(b.outages, outages...)
	return b
}

func (b *Builder) AddNodes(nodes ...grid.PricingNode) *Builder {
	b.nodes = append(b.nodes, nodes...)
	return b
}

func (b *Builder) AddSamples(samples ...grid.PriceSample) *Builder {
	b.samples = append(b.samples, samples...)
	return b
}

func (b *Builder) AddZones(zones ...grid.Zone) *Builder {
	b.zones = append(b.zones, zones...)
	return b
}

// Build validates ids, decodes zone boundaries and assembles every index.
// Duplicate record ids and undecodable geometry fail the build; a bad batch
// must never replace a good snapshot.
func (b *Builder) Build() (*Snapshot, error) {
	s := &Snapshot{
		builtAt:    time.Now().UTC(),
		assetByID:  make(map[string]grid.Asset, len(b.assets)),
		nodeByID:   make(map[string]grid.PricingNode, len(b.nodes)),
		zoneByID:   make(map[string]grid.Zone, len(b.zones)),
		childrenOf: make(map[string][]string),
		zoneGeom:   make(map[string]geo.MultiPolygon),
	}

	s.assets = make([]grid.Asset, len(b.assets))
	copy(s.assets, b.assets)
	sort.Slice(s.assets, func(i, j int) bool { return s.assets[i].AssetID < s.assets[j].AssetID })
	for _, a := range s.assets {
		if a.AssetID == "" {
			return nil, fmt.Errorf("%w: asset with empty id", grid.ErrDataIntegrity)
		}
		if _, dup := s.assetByID[a.AssetID]; dup {
			return nil, fmt.Errorf("%w: duplicate asset id %s", grid.ErrDataIntegrity, a.AssetID)
		}
		s.assetByID[a.AssetID] = a
	}

	s.nodes = make([]grid.PricingNode, len(b.nodes))
	copy(s.nodes, b.nodes)
	sort.Slice(s.nodes, func(i, j int) bool { return s.nodes[i].NodeID < s.nodes[j].NodeID })
	for _, n := range s.nodes {
		if n.NodeID == "" {
			return nil, fmt.Errorf("%w: pricing node with empty id", grid.ErrDataIntegrity)
		}
		if _, dup := s.nodeByID[n.NodeID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %s", grid.ErrDataIntegrity, n.NodeID)
		}
		s.nodeByID[n.NodeID] = n
	}

	s.zones = make([]grid.Zone, len(b.zones))
	copy(s.zones, b.zones)
	sort.Slice(s.zones, func(i, j int) bool { return s.zones[i].ZoneID < s.zones[j].ZoneID })
	for _, z := range s.zones {
		if z.ZoneID == "" {
			return nil, fmt.Errorf("%w: zone with empty id", grid.ErrDataIntegrity)
		}
		if _, dup := s.zoneByID[z.ZoneID]; dup {
			return nil, fmt.Errorf("%w: duplicate zone id %s", grid.ErrDataIntegrity, z.ZoneID)
		}
		s.zoneByID[z.ZoneID] = z
		if z.Geometry != "" {
			mp, err := geo.DecodeGeometry([]byte(z.Geometry))
			if err != nil {
				return nil, fmt.Errorf("zone %s boundary: %w", z.ZoneID, err)
			}
			s.zoneGeom[z.ZoneID] = mp
		}
	}
	for _, z := range s.zones {
		if z.ParentID != "" {
			s.childrenOf[z.ParentID] = append(s.childrenOf[z.ParentID], z.ZoneID)
		}
	}
	for _, kids := range s.childrenOf {
		sort.Strings(kids)
	}

	seen := make(map[string]struct{}, len(b.outages))
	for _, o := range b.outages {
		if o.OutageID == "" {
			return nil, fmt.Errorf("%w: outage with empty id", grid.ErrDataIntegrity)
		}
		if _, dup := seen[o.OutageID]; dup {
			return nil, fmt.Errorf("%w: duplicate outage id %s", grid.ErrDataIntegrity, o.OutageID)
		}
		seen[o.OutageID] = struct{}{}
	}
	s.outages = interval.NewOutageIndex(b.outages)
	s.samples = interval.NewSampleIndex(b.samples)

	pts := make([]geo.IndexedPoint, 0, len(s.assets))
	for _, a := range s.assets {
		pts = append(pts, geo.IndexedPoint{ID: a.AssetID, Pt: geo.Point{Lon: a.Lon, Lat: a.Lat}})
	}
	s.points = geo.NewPointIndex(pts)

	var npts []geo.IndexedPoint
	for _, n := range s.nodes {
		if n.Located() {
			npts = append(npts, geo.IndexedPoint{ID: n.NodeID, Pt: geo.Point{Lon: *n.Lon, Lat: *n.Lat}})
		}
	}
	s.nodePoints = geo.NewPointIndex(npts)

	return s, nil
}
