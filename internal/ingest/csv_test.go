package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gridscope-api/pkg/grid"
)

// captureSink records everything upserted so loader tests can inspect the
// exact batches a load produced.
type captureSink struct {
	assets        []grid.Asset
	outages       []grid.OutageInterval
	nodes         []grid.PricingNode
	samples       []grid.PriceSample
	zones         []grid.Zone
	sampleBatches int
}

func (c *captureSink) UpsertAssets(_ context.Context, assets []grid.Asset) error {
	c.assets = append(c.assets, assets...)
	return nil
}

func (c *captureSink) UpsertOutages(_ context.Context, outages []grid.OutageInterval) error {
	c.outages = append(c.outages, outages...)
	return nil
}

func (c *captureSink) UpsertNodes(_ context.Context, nodes []grid.PricingNode) error {
	c.nodes = append(c.nodes, nodes...)
	return nil
}

func (c *captureSink) UpsertSamples(_ context.Context, samples []grid.PriceSample) error {
	c.sampleBatches++
	c.samples = append(c.samples, samples...)
	return nil
}

func (c *captureSink) UpsertZones(_ context.Context, zones []grid.Zone) error {
	c.zones = append(c.zones, zones...)
	return nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAssetsCSV(t *testing.T) {
	csv := "asset_id,asset_name,fuel_type,capacity_mw,latitude,longitude,zone,owner\n" +
		"GEN-1,Diablo Canyon,Nuclear,2256,35.21,-120.85,SP15,PG&E\n" +
		"GEN-2,Topaz Solar,solar,550,35.38,-120.07,,\n" +
		"GEN-3,Helms,Hydroelectric,not-a-number,37.03,-119.01,,\n"
	path := writeTempFile(t, "assets.csv", csv)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadAssetsCSV(context.Background(), path, "CAISO")
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 2, loaded, "malformed capacity row should be skipped")
	assert.Len(t, sink.assets, 2, "sink should receive two assets")

	first := sink.assets[0]
	assert.Equal(t, "GEN-1", first.AssetID)
	assert.Equal(t, grid.FuelNuclear, first.Fuel, "fuel label should normalize case")
	assert.Equal(t, 2256.0, first.CapacityMW)
	assert.Equal(t, "CAISO", first.Region, "region comes from the load call")
	assert.Equal(t, "SP15", first.Zone)
	assert.Equal(t, "PG&E", first.Owner)
	assert.Equal(t, grid.FuelSolar, sink.assets[1].Fuel)
}

func TestLoadAssetsCSVColumnMap(t *testing.T) {
	csv := "plant_code,plant_name,primary_fuel,nameplate_mw,lat,lon\n" +
		"P1,Unit One,wind,120,41.5,-87.3\n"
	path := writeTempFile(t, "assets.csv", csv)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadAssetsCSV(context.Background(), path, "PJM",
		WithColumnMap(map[string]string{
			"plant_code":   "asset_id",
			"plant_name":   "asset_name",
			"primary_fuel": "fuel_type",
			"nameplate_mw": "capacity_mw",
			"lat":          "latitude",
			"lon":          "longitude",
		}))
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 1, loaded)
	assert.Equal(t, "P1", sink.assets[0].AssetID, "renamed columns should resolve")
	assert.Equal(t, grid.FuelWind, sink.assets[0].Fuel)
}

func TestLoadAssetsCSVMissingColumn(t *testing.T) {
	path := writeTempFile(t, "assets.csv", "asset_id,asset_name\nGEN-1,One\n")

	_, err := NewLoader(&captureSink{}).LoadAssetsCSV(context.Background(), path, "PJM")
	assert.Error(t, err, "missing capacity column should fail the load")
	assert.True(t, errors.Is(err, grid.ErrValidation), "error should classify as validation")
}

func TestLoadOutagesCSV(t *testing.T) {
	csv := "outage_id,asset_id,outage_type,start_time,end_time,status,cause_code,cause_description,capacity_reduction_mw\n" +
		"OUT-1,GEN-1,planned,2024-03-01T00:00:00Z,2024-03-08T00:00:00Z,scheduled,MAINT,Spring overhaul,2256\n" +
		"OUT-2,GEN-2,,2024-03-05 14:30:00,,,,,\n" +
		"OUT-3,GEN-3,forced,yesterday,,,,,\n"
	path := writeTempFile(t, "outages.csv", csv)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadOutagesCSV(context.Background(), path)
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 2, loaded, "unparseable start_time row should be skipped")

	first := sink.outages[0]
	assert.Equal(t, grid.OutagePlanned, first.Category)
	assert.Equal(t, grid.TagScheduled, first.Tag)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Start)
	if assert.NotNil(t, first.End, "bounded outage should carry an end") {
		assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), *first.End)
	}
	if assert.NotNil(t, first.CapacityReductionMW) {
		assert.Equal(t, 2256.0, *first.CapacityReductionMW)
	}

	second := sink.outages[1]
	assert.Equal(t, grid.OutageForced, second.Category, "blank type should default to forced")
	assert.Equal(t, grid.TagActive, second.Tag, "blank status should default to active")
	assert.Nil(t, second.End, "blank end_time marks an ongoing outage")
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), second.Start, "space-separated timestamps should parse")
}

func TestLoadNodesCSV(t *testing.T) {
	csv := "node_id,node_name,node_type,latitude,longitude,zone\n" +
		"NODE-1,Gen Bus 1,generator,35.21,-120.85,SP15\n" +
		"HUB-1,Trading Hub,,,,\n"
	path := writeTempFile(t, "nodes.csv", csv)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadNodesCSV(context.Background(), path, "CAISO")
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 2, loaded)

	located := sink.nodes[0]
	assert.True(t, located.Located(), "node with coordinates should report located")
	assert.Equal(t, "CAISO", located.Region)

	hub := sink.nodes[1]
	assert.Equal(t, "generator", hub.Kind, "blank node_type should default to generator")
	assert.False(t, hub.Located(), "hub without coordinates should not report located")
	assert.Nil(t, hub.Lat)
	assert.Nil(t, hub.Lon)
}

func TestLoadPricesCSV(t *testing.T) {
	csv := "node_id,timestamp,lmp_total,lmp_energy,lmp_congestion,lmp_loss\n" +
		"NODE-1,2024-03-01T00:00:00Z,42.5,40.1,1.9,0.5\n" +
		"NODE-1,2024-03-01T01:00:00Z,38.25,,,\n" +
		",2024-03-01T02:00:00Z,99,,,\n"
	path := writeTempFile(t, "prices.csv", csv)

	sink := &captureSink{}
	loaded, err := NewLoader(sink).LoadPricesCSV(context.Background(), path, "CAISO", WithMarket(grid.MarketRTM))
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, 2, loaded, "row without node_id should be skipped")
	assert.Equal(t, 1, sink.sampleBatches, "small file should flush once")

	first := sink.samples[0]
	assert.Equal(t, grid.MarketRTM, first.Market, "market comes from the load option")
	assert.Equal(t, 42.5, first.Total)
	if assert.NotNil(t, first.Energy) {
		assert.Equal(t, 40.1, *first.Energy)
	}

	second := sink.samples[1]
	assert.Nil(t, second.Energy, "absent components should stay nil")
	assert.Nil(t, second.Congestion)
	assert.Nil(t, second.Loss)
}

func TestLoadPricesCSVDefaultsToDayAhead(t *testing.T) {
	path := writeTempFile(t, "prices.csv", "node_id,timestamp,lmp_total\nNODE-1,2024-03-01T00:00:00Z,10\n")

	sink := &captureSink{}
	_, err := NewLoader(sink).LoadPricesCSV(context.Background(), path, "PJM")
	assert.NoError(t, err, "load should not error")
	assert.Equal(t, grid.MarketDAM, sink.samples[0].Market)
}
