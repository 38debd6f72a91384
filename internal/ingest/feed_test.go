package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gridscope-api/pkg/grid"
)

// stubProvider serves canned records per region and can fail one class.
type stubProvider struct {
	outagesErr error
}

func (p *stubProvider) PullAssets(_ context.Context, region string) ([]grid.Asset, error) {
	return []grid.Asset{
		{AssetID: region + "-GEN-1", Name: "Unit One", Fuel: grid.FuelWind, CapacityMW: 100, Lat: 40, Lon: -100, Region: region},
	}, nil
}

func (p *stubProvider) PullOutages(_ context.Context, region string) ([]grid.OutageInterval, error) {
	if p.outagesErr != nil {
		return nil, p.outagesErr
	}
	return []grid.OutageInterval{
		{OutageID: region + "-OUT-1", AssetID: region + "-GEN-1", Category: grid.OutageForced, Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Tag: grid.TagActive},
	}, nil
}

func (p *stubProvider) PullNodes(_ context.Context, region string) ([]grid.PricingNode, error) {
	return []grid.PricingNode{{NodeID: region + "-NODE-1", Name: "Bus 1", Kind: "generator", Region: region}}, nil
}

func (p *stubProvider) PullPrices(_ context.Context, region string, market grid.Market) ([]grid.PriceSample, error) {
	return []grid.PriceSample{
		{NodeID: region + "-NODE-1", At: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Market: market, Total: 42, Region: region},
	}, nil
}

func TestFeedPullRegion(t *testing.T) {
	sink := &captureSink{}
	feed := NewFeed("stub", &stubProvider{}, sink)

	stats, err := feed.PullRegion(context.Background(), "CAISO")
	assert.NoError(t, err, "pull should not error")
	assert.Equal(t, 1, stats.Assets)
	assert.Equal(t, 1, stats.Outages)
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 2, stats.Samples, "both markets should be pulled")
	assert.Equal(t, 5, stats.Total())

	markets := map[grid.Market]bool{}
	for _, sample := range sink.samples {
		markets[sample.Market] = true
	}
	assert.True(t, markets[grid.MarketDAM], "day-ahead prices should land")
	assert.True(t, markets[grid.MarketRTM], "real-time prices should land")
}

func TestFeedPullRegionPartialFailure(t *testing.T) {
	sink := &captureSink{}
	feed := NewFeed("stub", &stubProvider{outagesErr: errors.New("upstream 503")}, sink)

	stats, err := feed.PullRegion(context.Background(), "PJM")
	assert.Error(t, err, "failing class should surface")
	assert.True(t, strings.Contains(err.Error(), "pull outages PJM"), "error should name the failing step")
	assert.Equal(t, 0, stats.Outages)
	assert.Equal(t, 1, stats.Assets, "other classes should still land")
	assert.Len(t, sink.assets, 1)
	assert.Empty(t, sink.outages)
}

func TestFeedPullAggregatesRegions(t *testing.T) {
	sink := &captureSink{}
	feed := NewFeed("stub", &stubProvider{}, sink)

	stats, err := feed.Pull(context.Background(), []string{"CAISO", "ERCOT"})
	assert.NoError(t, err, "pull should not error")
	assert.Equal(t, 2, stats.Assets)
	assert.Equal(t, 4, stats.Samples)
	assert.Len(t, sink.assets, 2)
	assert.Equal(t, "CAISO-GEN-1", sink.assets[0].AssetID)
	assert.Equal(t, "ERCOT-GEN-1", sink.assets[1].AssetID)
}

func TestFeedPullStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &captureSink{}
	feed := NewFeed("stub", &stubProvider{}, sink)

	stats, err := feed.Pull(ctx, []string{"CAISO"})
	assert.Error(t, err, "cancelled context should surface")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, stats.Total(), "no region should be pulled after cancel")
}

func TestNewFeedNilSink(t *testing.T) {
	feed := NewFeed("stub", &stubProvider{}, nil)
	_, err := feed.PullRegion(context.Background(), "CAISO")
	assert.NoError(t, err, "nil sink should degrade to noop")
	assert.Equal(t, "stub", feed.Name())
}
