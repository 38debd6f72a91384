package ingest

import (
	"context"

	"gridscope-api/pkg/grid"
)

// Sink receives normalized grid records from file loaders and upstream pulls.
// Implementations must tolerate repeated delivery of the same record: every
// record type carries a business key and re-ingestion replaces, never
// duplicates.
type Sink interface {
	// UpsertAssets persists generation asset metadata.
	UpsertAssets(ctx context.Context, assets []grid.Asset) error
	// UpsertOutages persists outage intervals keyed by outage ID.
	UpsertOutages(ctx context.Context, outages []grid.OutageInterval) error
	// UpsertNodes persists pricing node metadata.
	UpsertNodes(ctx context.Context, nodes []grid.PricingNode) error
	// UpsertSamples persists locational price observations.
	UpsertSamples(ctx context.Context, samples []grid.PriceSample) error
	// UpsertZones persists zone boundaries and styling.
	UpsertZones(ctx context.Context, zones []grid.Zone) error
}

type noopSink struct{}

func (noopSink) UpsertAssets(ctx context.Context, assets []grid.Asset) error { return nil }

func (noopSink) UpsertOutages(ctx context.Context, outages []grid.OutageInterval) error { return nil }

func (noopSink) UpsertNodes(ctx context.Context, nodes []grid.PricingNode) error { return nil }

func (noopSink) UpsertSamples(ctx context.Context, samples []grid.PriceSample) error { return nil }

func (noopSink) UpsertZones(ctx context.Context, zones []grid.Zone) error { return nil }

// NewNoopSink guarantees loaders always have a sink to call.
func NewNoopSink() Sink {
	return noopSink{}
}
