package repo

import (
	"context"
	"fmt"
	"time"

	"gridscope-api/pkg/snapshot"
)

const defaultPriceLookback = 2 * time.Hour

// RecordsRepo loads the record set snapshots are built from.
type RecordsRepo interface {
	// LoadRecords returns every asset, outage, node and zone plus the price
	// samples observed within lookback of now. Assets, outages and zones are
	// small enough to load whole; samples are windowed because the pricing
	// history grows without bound.
	LoadRecords(ctx context.Context, lookback time.Duration) (*snapshot.Records, error)
}

type recordsRepo struct {
	deps Dependencies
}

func newRecordsRepo(deps Dependencies) RecordsRepo {
	return &recordsRepo{deps: deps}
}

func (r *recordsRepo) LoadRecords(ctx context.Context, lookback time.Duration) (*snapshot.Records, error) {
	if lookback <= 0 {
		lookback = defaultPriceLookback
	}

	assets, err := r.deps.AssetsModel.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("recordsRepo.LoadRecords assets: %w", err)
	}
	outages, err := r.deps.OutagesModel.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("recordsRepo.LoadRecords outages: %w", err)
	}
	nodes, err := r.deps.PricingNodesModel.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("recordsRepo.LoadRecords nodes: %w", err)
	}
	samples, err := r.deps.PricingRecordsModel.Window(ctx, time.Now().Add(-lookback).UTC())
	if err != nil {
		return nil, fmt.Errorf("recordsRepo.LoadRecords samples: %w", err)
	}
	zones, err := r.deps.ZonesModel.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("recordsRepo.LoadRecords zones: %w", err)
	}

	return &snapshot.Records{
		SavedAt: time.Now().UTC(),
		Assets:  assets,
		Outages: outages,
		Nodes:   nodes,
		Samples: samples,
		Zones:   zones,
	}, nil
}
