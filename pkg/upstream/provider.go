package upstream

import (
	"context"

	"gridscope-api/pkg/grid"
)

// Provider exposes vendor-agnostic grid records for one ISO region. Pull
// methods return full record sets; deduplication against previously stored
// rows happens in the persistence layer, which upserts by business key.
type Provider interface {
	// PullAssets returns the generation asset registry for the region.
	PullAssets(ctx context.Context, region string) ([]grid.Asset, error)
	// PullOutages returns outage intervals reported for the region.
	PullOutages(ctx context.Context, region string) ([]grid.OutageInterval, error)
	// PullNodes returns the pricing node directory for the region.
	PullNodes(ctx context.Context, region string) ([]grid.PricingNode, error)
	// PullPrices returns recent locational price samples for one market.
	PullPrices(ctx context.Context, region string, market grid.Market) ([]grid.PriceSample, error)
}
