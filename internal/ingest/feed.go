package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/upstream"
)

// Feed lands upstream provider records in the sink. One pull refreshes the
// full record set for a region; the sink's business-key upserts absorb the
// overlap with previous pulls.
type Feed struct {
	name     string
	provider upstream.Provider
	sink     Sink
}

// NewFeed wires a named provider to a sink. A nil sink degrades to the noop
// sink so a feed can be exercised without storage.
func NewFeed(name string, provider upstream.Provider, sink Sink) *Feed {
	if sink == nil {
		sink = NewNoopSink()
	}
	return &Feed{name: name, provider: provider, sink: sink}
}

// Name returns the provider name the feed was built with.
func (f *Feed) Name() string { return f.name }

// PullStats counts the records landed by a pull.
type PullStats struct {
	Assets  int `json:"assets"`
	Outages int `json:"outages"`
	Nodes   int `json:"nodes"`
	Samples int `json:"samples"`
}

// Total sums all record classes.
func (s PullStats) Total() int {
	return s.Assets + s.Outages + s.Nodes + s.Samples
}

func (s *PullStats) add(o PullStats) {
	s.Assets += o.Assets
	s.Outages += o.Outages
	s.Nodes += o.Nodes
	s.Samples += o.Samples
}

// PullRegion pulls every record class for one region. A failing class does
// not abort the others; whatever pulled cleanly is persisted and the joined
// error reports the rest.
func (f *Feed) PullRegion(ctx context.Context, region string) (PullStats, error) {
	var stats PullStats
	var errs []error

	if assets, err := f.provider.PullAssets(ctx, region); err != nil {
		errs = append(errs, fmt.Errorf("pull assets %s: %w", region, err))
	} else if err := f.sink.UpsertAssets(ctx, assets); err != nil {
		errs = append(errs, fmt.Errorf("store assets %s: %w", region, err))
	} else {
		stats.Assets = len(assets)
	}

	if outages, err := f.provider.PullOutages(ctx, region); err != nil {
		errs = append(errs, fmt.Errorf("pull outages %s: %w", region, err))
	} else if err := f.sink.UpsertOutages(ctx, outages); err != nil {
		errs = append(errs, fmt.Errorf("store outages %s: %w", region, err))
	} else {
		stats.Outages = len(outages)
	}

	if nodes, err := f.provider.PullNodes(ctx, region); err != nil {
		errs = append(errs, fmt.Errorf("pull nodes %s: %w", region, err))
	} else if err := f.sink.UpsertNodes(ctx, nodes); err != nil {
		errs = append(errs, fmt.Errorf("store nodes %s: %w", region, err))
	} else {
		stats.Nodes = len(nodes)
	}

	for _, market := range []grid.Market{grid.MarketDAM, grid.MarketRTM} {
		samples, err := f.provider.PullPrices(ctx, region, market)
		if err != nil {
			errs = append(errs, fmt.Errorf("pull %s prices %s: %w", market, region, err))
			continue
		}
		if err := f.sink.UpsertSamples(ctx, samples); err != nil {
			errs = append(errs, fmt.Errorf("store %s prices %s: %w", market, region, err))
			continue
		}
		stats.Samples += len(samples)
	}

	logx.WithContext(ctx).Infof("ingest: feed %s region %s assets=%d outages=%d nodes=%d samples=%d",
		f.name, region, stats.Assets, stats.Outages, stats.Nodes, stats.Samples)
	return stats, errorsJoin(errs)
}

// Pull pulls each region in order, stopping early only on context
// cancellation.
func (f *Feed) Pull(ctx context.Context, regions []string) (PullStats, error) {
	var stats PullStats
	var errs []error
	for _, region := range regions {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		regionStats, err := f.PullRegion(ctx, region)
		stats.add(regionStats)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return stats, errorsJoin(errs)
}

func errorsJoin(errs []error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return errors.Join(filtered...)
}
