// Package geo provides the spatial primitives the query components share:
// axis-aligned bounding boxes and a longitude-sorted point index, plus
// polygon containment with a boundary-inclusive edge rule.
//
// All coordinates are WGS84 longitude/latitude. Boxes are antimeridian-naive:
// a viewport crossing the 180th meridian cannot be expressed as a single box
// and is rejected as invalid rather than silently wrapped. The grids this
// system serves sit well inside one hemisphere, so the limitation is
// documented instead of handled.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gridscope-api/pkg/grid"
)

// Point is a longitude/latitude pair.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BBox is an axis-aligned viewport rectangle. Boundaries are inclusive on
// every edge.
type BBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// ParseBBox parses the wire form "west,south,east,north".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("%w: bounding box needs exactly 4 values, got %d", grid.ErrValidation, len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("%w: bounding box value %q is not numeric", grid.ErrValidation, p)
		}
		vals[i] = v
	}
	b := BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if err := b.Validate(); err != nil {
		return BBox{}, err
	}
	return b, nil
}

// Validate rejects non-finite values, out-of-range coordinates and inverted
// axes. West > East is rejected rather than interpreted as an antimeridian
// wrap.
func (b BBox) Validate() error {
	for _, v := range []float64{b.West, b.South, b.East, b.North} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounding box value is not finite", grid.ErrValidation)
		}
	}
	if b.West < -180 || b.East > 180 || b.West > 180 || b.East < -180 {
		return fmt.Errorf("%w: longitude out of range [-180,180]", grid.ErrValidation)
	}
	if b.South < -90 || b.North > 90 || b.South > 90 || b.North < -90 {
		return fmt.Errorf("%w: latitude out of range [-90,90]", grid.ErrValidation)
	}
	if b.West > b.East {
		return fmt.Errorf("%w: bounding box west > east (antimeridian boxes are not supported)", grid.ErrValidation)
	}
	if b.South > b.North {
		return fmt.Errorf("%w: bounding box south > north", grid.ErrValidation)
	}
	return nil
}

// Contains reports whether p falls inside the box, boundaries included.
func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.West && p.Lon <= b.East && p.Lat >= b.South && p.Lat <= b.North
}

// ValidatePoint rejects non-finite and out-of-range coordinates.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return fmt.Errorf("%w: coordinate is not finite", grid.ErrValidation)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", grid.ErrValidation, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", grid.ErrValidation, p.Lat)
	}
	return nil
}
