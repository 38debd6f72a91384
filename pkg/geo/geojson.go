package geo

import (
	"encoding/json"
	"fmt"

	"gridscope-api/pkg/grid"
)

// Zone boundaries arrive and leave as GeoJSON geometry objects. Only Polygon
// and MultiPolygon are meaningful for boundaries; a Polygon is normalized to
// a one-element MultiPolygon on decode, mirroring how the ingestion side
// stores them.

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// DecodeGeometry parses a GeoJSON Polygon or MultiPolygon geometry.
func DecodeGeometry(data []byte) (MultiPolygon, error) {
	var g rawGeometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: malformed geometry: %v", grid.ErrDataIntegrity, err)
	}
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("%w: malformed polygon coordinates: %v", grid.ErrDataIntegrity, err)
		}
		pg, err := polygonFromCoords(coords)
		if err != nil {
			return nil, err
		}
		return MultiPolygon{pg}, nil
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("%w: malformed multipolygon coordinates: %v", grid.ErrDataIntegrity, err)
		}
		mp := make(MultiPolygon, 0, len(coords))
		for _, pc := range coords {
			pg, err := polygonFromCoords(pc)
			if err != nil {
				return nil, err
			}
			mp = append(mp, pg)
		}
		return mp, nil
	}
	return nil, fmt.Errorf("%w: unsupported geometry type %q", grid.ErrDataIntegrity, g.Type)
}

func polygonFromCoords(coords [][][]float64) (Polygon, error) {
	if len(coords) == 0 {
		return Polygon{}, fmt.Errorf("%w: polygon without rings", grid.ErrDataIntegrity)
	}
	rings := make([]Ring, 0, len(coords))
	for _, rc := range coords {
		ring := make(Ring, 0, len(rc))
		for _, pos := range rc {
			if len(pos) < 2 {
				return Polygon{}, fmt.Errorf("%w: position with fewer than 2 coordinates", grid.ErrDataIntegrity)
			}
			ring = append(ring, Point{Lon: pos[0], Lat: pos[1]})
		}
		rings = append(rings, ring)
	}
	return Polygon{Outer: rings[0], Holes: rings[1:]}, nil
}

// EncodeGeometry renders the region back as a GeoJSON MultiPolygon geometry.
func EncodeGeometry(mp MultiPolygon) json.RawMessage {
	coords := make([][][][]float64, 0, len(mp))
	for _, pg := range mp {
		rings := make([][][]float64, 0, 1+len(pg.Holes))
		rings = append(rings, ringCoords(pg.Outer))
		for _, h := range pg.Holes {
			rings = append(rings, ringCoords(h))
		}
		coords = append(coords, rings)
	}
	data, _ := json.Marshal(struct {
		Type        string          `json:"type"`
		Coordinates [][][][]float64 `json:"coordinates"`
	}{Type: "MultiPolygon", Coordinates: coords})
	return data
}

func ringCoords(r Ring) [][]float64 {
	out := make([][]float64, 0, len(r))
	for _, p := range r {
		out = append(out, []float64{p.Lon, p.Lat})
	}
	return out
}
