package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gridscope-api/pkg/geo"
	"gridscope-api/pkg/grid"
)

const zonesFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": "SP15", "name": "South of Path 15"},
      "geometry": {"type": "Polygon", "coordinates": [[[-121, 34], [-117, 34], [-117, 36], [-121, 36], [-121, 34]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "NP15"},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[-123, 37], [-120, 37], [-120, 40], [-123, 40], [-123, 37]]]]}
    },
    {
      "type": "Feature",
      "properties": {"id": "BAD"},
      "geometry": {"type": "Point", "coordinates": [-120, 38]}
    }
  ]
}`

func TestLoadZonesGeoJSON(t *testing.T) {
	path := writeTempFile(t, "zones.geojson", zonesFixture)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadZonesGeoJSON(context.Background(), path, "CAISO", grid.ZoneLoad)
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 2, loaded, "point feature should be skipped")

	sp15 := sink.zones[0]
	assert.Equal(t, "CAISO_SP15", sp15.ZoneID, "zone id should be region-prefixed")
	assert.Equal(t, "South of Path 15", sp15.Name)
	assert.Equal(t, grid.ZoneLoad, sp15.Category)
	assert.Equal(t, "#3388ff", sp15.FillColor, "missing style should get the default color")
	assert.Equal(t, 0.3, sp15.FillOpacity)

	mp, err := geo.DecodeGeometry([]byte(sp15.Geometry))
	assert.NoError(t, err, "stored geometry should decode")
	assert.Len(t, mp, 1, "polygon should be wrapped into a one-element multipolygon")

	np15 := sink.zones[1]
	assert.Equal(t, "NP15", np15.Name, "missing name should fall back to the feature id")
}

func TestLoadZonesGeoJSONOptions(t *testing.T) {
	fixture := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"ZONE_CODE": "AEP", "ZONE_LABEL": "AEP Transmission"},
      "geometry": {"type": "Polygon", "coordinates": [[[-85, 38], [-80, 38], [-80, 41], [-85, 41], [-85, 38]]]}
    }
  ]
}`
	path := writeTempFile(t, "zones.geojson", fixture)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadZonesGeoJSON(context.Background(), path, "PJM", grid.ZoneTransmission,
		WithIDProperty("ZONE_CODE"),
		WithNameProperty("ZONE_LABEL"),
		WithZoneStyle("#112233", "#445566", 0.5),
		WithParentZone("PJM_BOUNDARY"),
	)
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 1, loaded)

	zone := sink.zones[0]
	assert.Equal(t, "PJM_AEP", zone.ZoneID)
	assert.Equal(t, "AEP Transmission", zone.Name)
	assert.Equal(t, "PJM_BOUNDARY", zone.ParentID, "option should link the zone to its parent")
	assert.Equal(t, "#112233", zone.FillColor)
	assert.Equal(t, "#445566", zone.StrokeColor)
	assert.Equal(t, 0.5, zone.FillOpacity)
}

func TestLoadZonesGeoJSONRejectsNonCollection(t *testing.T) {
	path := writeTempFile(t, "zone.geojson", `{"type": "Feature", "properties": {}, "geometry": null}`)

	_, err := NewLoader(&captureSink{}).LoadZonesGeoJSON(context.Background(), path, "PJM", grid.ZoneLoad)
	assert.Error(t, err, "bare features should be rejected")
	assert.True(t, errors.Is(err, grid.ErrValidation), "error should classify as validation")
}

func TestLoadBoundariesGeoJSON(t *testing.T) {
	fixture := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "caiso"},
      "geometry": {"type": "Polygon", "coordinates": [[[-125, 32], [-114, 32], [-114, 42], [-125, 42], [-125, 32]]]}
    },
    {
      "type": "Feature",
      "properties": {"ISO": "AESO"},
      "geometry": {"type": "Polygon", "coordinates": [[[-120, 49], [-110, 49], [-110, 60], [-120, 60], [-120, 49]]]}
    }
  ]
}`
	path := writeTempFile(t, "boundaries.geojson", fixture)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadBoundariesGeoJSON(context.Background(), path, nil)
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 2, loaded)

	caiso := sink.zones[0]
	assert.Equal(t, "CAISO_BOUNDARY", caiso.ZoneID, "region should uppercase into the id")
	assert.Equal(t, "caiso ISO/RTO Boundary", caiso.Name)
	assert.Equal(t, grid.ZoneISOBoundary, caiso.Category)
	assert.Equal(t, "CAISO", caiso.Region)
	assert.Equal(t, "#e377c2", caiso.FillColor, "known regions use the palette")
	assert.Equal(t, 0.2, caiso.FillOpacity)

	aeso := sink.zones[1]
	assert.Equal(t, "AESO_BOUNDARY", aeso.ZoneID, "ISO property is an accepted fallback")
	assert.Equal(t, "#999999", aeso.FillColor, "unknown regions fall back to grey")
}

func TestLoadBoundariesGeoJSONColorOverride(t *testing.T) {
	fixture := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"iso_region": "ERCOT"},
      "geometry": {"type": "Polygon", "coordinates": [[[-104, 26], [-93, 26], [-93, 36], [-104, 36], [-104, 26]]]}
    }
  ]
}`
	path := writeTempFile(t, "boundaries.geojson", fixture)

	sink := &captureSink{}
	_, err := NewLoader(sink).LoadBoundariesGeoJSON(context.Background(), path, map[string]string{"ercot": "#000000"})
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, "#000000", sink.zones[0].FillColor, "override should beat the palette")
}
