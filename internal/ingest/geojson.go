package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
)

const (
	defaultZoneColor   = "#3388ff"
	defaultZoneOpacity = 0.3
)

// boundaryColors assigns each interconnection a stable display color; regions
// outside the set fall back to grey.
var boundaryColors = map[string]string{
	"PJM":   "#1f77b4",
	"MISO":  "#ff7f0e",
	"SPP":   "#2ca02c",
	"ERCOT": "#d62728",
	"NYISO": "#9467bd",
	"ISONE": "#8c564b",
	"CAISO": "#e377c2",
}

type zoneOptions struct {
	idProperty   string
	nameProperty string
	fillColor    string
	strokeColor  string
	fillOpacity  float64
	parentZoneID string
}

// ZoneOption adjusts how GeoJSON features map onto zones.
type ZoneOption func(*zoneOptions)

// WithIDProperty selects the feature property holding the zone identifier.
func WithIDProperty(name string) ZoneOption {
	return func(o *zoneOptions) { o.idProperty = name }
}

// WithNameProperty selects the feature property holding the display name.
func WithNameProperty(name string) ZoneOption {
	return func(o *zoneOptions) { o.nameProperty = name }
}

// WithZoneStyle forces fill and stroke colors for every loaded zone,
// overriding any per-feature styling properties.
func WithZoneStyle(fill, stroke string, opacity float64) ZoneOption {
	return func(o *zoneOptions) {
		o.fillColor = fill
		o.strokeColor = stroke
		o.fillOpacity = opacity
	}
}

// WithParentZone attaches every loaded zone to the given parent, linking the
// file's zones into the containment tree.
func WithParentZone(zoneID string) ZoneOption {
	return func(o *zoneOptions) { o.parentZoneID = zoneID }
}

func applyZoneOptions(opts []ZoneOption) zoneOptions {
	options := zoneOptions{
		idProperty:   "id",
		nameProperty: "name",
		fillOpacity:  defaultZoneOpacity,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type geoFeatureCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Properties map[string]any `json:"properties"`
	Geometry   *geoGeometry   `json:"geometry"`
}

type geoGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func readFeatureCollection(path string) (*geoFeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	var fc geoFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("ingest: parse %s: %w", path, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: %s is not a FeatureCollection", grid.ErrValidation, path)
	}
	return &fc, nil
}

// normalizeGeometry renders the feature geometry as MultiPolygon GeoJSON,
// wrapping bare Polygons. The result is re-decoded so malformed ring data is
// rejected at load time rather than at first spatial query.
func normalizeGeometry(g *geoGeometry) (string, error) {
	if g == nil || len(g.Coordinates) == 0 {
		return "", fmt.Errorf("feature without geometry")
	}
	switch g.Type {
	case "MultiPolygon":
	case "Polygon":
		g = &geoGeometry{Type: "MultiPolygon", Coordinates: json.RawMessage("[" + string(g.Coordinates) + "]")}
	default:
		return "", fmt.Errorf("unsupported geometry type %q", g.Type)
	}
	out, err := json.Marshal(g)
	if err != nil {
		return "", err
	}
	if _, err := geo.DecodeGeometry(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// propString reads a feature property as a string. Numeric identifiers are
// common in exported shapefiles and render without a trailing fraction.
func propString(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// LoadZonesGeoJSON loads zone boundaries from a GeoJSON FeatureCollection.
// Zone identifiers are prefixed with the region so the same source file can
// be loaded for more than one interconnection without colliding.
func (l *Loader) LoadZonesGeoJSON(ctx context.Context, path, region string, category grid.ZoneCategory, opts ...ZoneOption) (int, error) {
	options := applyZoneOptions(opts)
	fc, err := readFeatureCollection(path)
	if err != nil {
		return 0, err
	}

	var zones []grid.Zone
	skipped := 0
	for _, feature := range fc.Features {
		rawID := propString(feature.Properties, options.idProperty)
		if rawID == "" {
			skipped++
			continue
		}
		geometry, err := normalizeGeometry(feature.Geometry)
		if err != nil {
			skipped++
			continue
		}
		name := propString(feature.Properties, options.nameProperty)
		if name == "" {
			name = rawID
		}
		fill := options.fillColor
		if fill == "" {
			if fill = propString(feature.Properties, "fill_color"); fill == "" {
				fill = defaultZoneColor
			}
		}
		stroke := options.strokeColor
		if stroke == "" {
			if stroke = propString(feature.Properties, "stroke_color"); stroke == "" {
				stroke = defaultZoneColor
			}
		}
		zones = append(zones, grid.Zone{
			ZoneID:      region + "_" + rawID,
			Name:        name,
			Category:    category,
			Region:      region,
			ParentID:    options.parentZoneID,
			Description: propString(feature.Properties, "description"),
			FillColor:   fill,
			StrokeColor: stroke,
			FillOpacity: options.fillOpacity,
			Geometry:    geometry,
		})
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: zones load skipped %d features in %s", skipped, path)
	}
	if err := l.sink.UpsertZones(ctx, zones); err != nil {
		return 0, err
	}
	return len(zones), nil
}

// LoadBoundariesGeoJSON loads interconnection boundary polygons. Each feature
// names its region through an iso_region, ISO or name property; colorOverrides
// replaces the built-in palette per region.
func (l *Loader) LoadBoundariesGeoJSON(ctx context.Context, path string, colorOverrides map[string]string) (int, error) {
	colors := make(map[string]string, len(boundaryColors)+len(colorOverrides))
	for region, color := range boundaryColors {
		colors[region] = color
	}
	for region, color := range colorOverrides {
		colors[strings.ToUpper(region)] = color
	}

	fc, err := readFeatureCollection(path)
	if err != nil {
		return 0, err
	}

	var zones []grid.Zone
	skipped := 0
	for _, feature := range fc.Features {
		region := propString(feature.Properties, "iso_region")
		if region == "" {
			region = propString(feature.Properties, "ISO")
		}
		if region == "" {
			region = propString(feature.Properties, "name")
		}
		if region == "" {
			skipped++
			continue
		}
		geometry, err := normalizeGeometry(feature.Geometry)
		if err != nil {
			skipped++
			continue
		}
		upper := strings.ToUpper(region)
		color, ok := colors[upper]
		if !ok {
			color = "#999999"
		}
		zones = append(zones, grid.Zone{
			ZoneID:      upper + "_BOUNDARY",
			Name:        region + " ISO/RTO Boundary",
			Category:    grid.ZoneISOBoundary,
			Region:      upper,
			FillColor:   color,
			StrokeColor: color,
			FillOpacity: 0.2,
			Geometry:    geometry,
		})
	}
	if skipped > 0 {
		logx.WithContext(ctx).Slowf("ingest: boundaries load skipped %d features in %s", skipped, path)
	}
	if err := l.sink.UpsertZones(ctx, zones); err != nil {
		return 0, err
	}
	return len(zones), nil
}
