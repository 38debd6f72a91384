package geo

import "math"

// collinearEps absorbs float noise when testing whether a point sits exactly
// on a polygon edge. Coordinates are degrees, so this is far below any real
// boundary precision.
const collinearEps = 1e-12

// Ring is a closed sequence of vertices. The closing vertex may but need not
// repeat the first; containment treats the ring as closed either way.
type Ring []Point

// Polygon is one outer ring with optional holes.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// MultiPolygon is a set of polygons treated as one region.
type MultiPolygon []Polygon

// Contains reports whether p is inside the polygon under the edge rule used
// throughout this package: every boundary point, including hole boundaries,
// belongs to the polygon. Adjacent zones sharing a border therefore both
// contain the border, which callers accept in preference to points vanishing
// between zones.
func (pg Polygon) Contains(p Point) bool {
	inside, onEdge := pg.Outer.locate(p)
	if onEdge {
		return true
	}
	if !inside {
		return false
	}
	for _, h := range pg.Holes {
		in, on := h.locate(p)
		if on {
			return true
		}
		if in {
			return false
		}
	}
	return true
}

// Contains reports whether any member polygon contains p.
func (mp MultiPolygon) Contains(p Point) bool {
	for _, pg := range mp {
		if pg.Contains(p) {
			return true
		}
	}
	return false
}

// locate runs a ray cast from p toward +longitude. The crossing parity gives
// interior membership; edge hits are detected first so the boundary rule
// stays exact regardless of parity quirks at vertices.
func (r Ring) locate(p Point) (inside, onEdge bool) {
	n := len(r)
	if n >= 2 && r[0] == r[n-1] {
		n-- // ignore an explicit closing vertex
	}
	if n < 3 {
		return false, false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := r[j], r[i]
		if onSegment(p, a, b) {
			return false, true
		}
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lon + (p.Lat-a.Lat)*(b.Lon-a.Lon)/(b.Lat-a.Lat)
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside, false
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if math.Abs(cross) > collinearEps {
		return false
	}
	if p.Lon < math.Min(a.Lon, b.Lon)-collinearEps || p.Lon > math.Max(a.Lon, b.Lon)+collinearEps {
		return false
	}
	if p.Lat < math.Min(a.Lat, b.Lat)-collinearEps || p.Lat > math.Max(a.Lat, b.Lat)+collinearEps {
		return false
	}
	return true
}
