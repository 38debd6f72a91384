package geo

import "sort"

// IndexedPoint pairs an id with its location.
type IndexedPoint struct {
	ID string
	Pt Point
}

// PointIndex answers bounding-box queries over a fixed point set. The set is
// sorted by longitude once at construction; a box query binary-searches the
// longitude window and filters latitude inside it. Immutable after New, safe
// for concurrent readers.
type PointIndex struct {
	pts []IndexedPoint
}

// NewPointIndex copies and indexes the given points.
func NewPointIndex(pts []IndexedPoint) *PointIndex {
	owned := make([]IndexedPoint, len(pts))
	copy(owned, pts)
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].Pt.Lon != owned[j].Pt.Lon {
			return owned[i].Pt.Lon < owned[j].Pt.Lon
		}
		if owned[i].Pt.Lat != owned[j].Pt.Lat {
			return owned[i].Pt.Lat < owned[j].Pt.Lat
		}
		return owned[i].ID < owned[j].ID
	})
	return &PointIndex{pts: owned}
}

// Len reports the number of indexed points.
func (ix *PointIndex) Len() int { return len(ix.pts) }

// WithinBox returns the ids of every point inside b, boundary points
// included. Order is the index order (by longitude, then latitude, then id),
// so identical queries return identical slices.
func (ix *PointIndex) WithinBox(b BBox) []string {
	lo := sort.Search(len(ix.pts), func(i int) bool {
		return ix.pts[i].Pt.Lon >= b.West
	})
	var ids []string
	for i := lo; i < len(ix.pts) && ix.pts[i].Pt.Lon <= b.East; i++ {
		if lat := ix.pts[i].Pt.Lat; lat >= b.South && lat <= b.North {
			ids = append(ids, ix.pts[i].ID)
		}
	}
	return ids
}
