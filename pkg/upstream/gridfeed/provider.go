package gridfeed

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"gridscope-api/pkg/grid"
	"gridscope-api/pkg/upstream"
)

const defaultProviderTimeout = 8 * time.Second

// Provider wraps gridfeed client calls behind the generic upstream.Provider
// contract.
type Provider struct {
	client     *Client
	timeout    time.Duration
	providerID string

	cacheMu sync.RWMutex
	assets  map[string]cachedAssets
	nodes   map[string]cachedNodes
}

type providerConfig struct {
	timeout      time.Duration
	clientConfig []Option
}

// ProviderOption customises the gridfeed provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying gridfeed client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientConfig = append(cfg.clientConfig, options...)
	}
}

// NewProvider constructs a gridfeed upstream provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{
		timeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := NewClient(cfg.clientConfig...)
	return &Provider{
		client: client,
		assets: make(map[string]cachedAssets),
		nodes:  make(map[string]cachedNodes),

		timeout: cfg.timeout,
	}
}

func init() {
	upstream.RegisterProvider("gridfeed", func(name string, cfg *upstream.ProviderConfig) (upstream.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if cfg.APIKey != "" {
			clientOptions = append(clientOptions, WithAPIKey(cfg.APIKey))
		}
		if cfg.MaxRetries > 0 {
			clientOptions = append(clientOptions, WithMaxRetries(cfg.MaxRetries))
		}
		if cfg.RateLimit > 0 {
			clientOptions = append(clientOptions, WithRateLimit(cfg.RateLimit, cfg.RateBurst))
		}
		if len(clientOptions) > 0 {
			opts = append(opts, WithClientOptions(clientOptions...))
		}
		provider := NewProvider(opts...)
		provider.providerID = name
		return provider, nil
	})
}

// PullAssets implements upstream.Provider. The asset registry changes rarely,
// so results are cached per region for a few minutes.
func (p *Provider) PullAssets(ctx context.Context, region string) ([]grid.Asset, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if assets, ok := p.loadAssets(region); ok {
		return assets, nil
	}

	records, err := p.client.GetAssets(ctx, region)
	if err != nil {
		return nil, err
	}
	assets := make([]grid.Asset, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.AssetID) == "" {
			continue
		}
		assets = append(assets, rec.toAsset())
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetID < assets[j].AssetID })
	p.storeAssets(region, assets)
	return assets, nil
}

// PullOutages implements upstream.Provider. Outage feeds are volatile and are
// never cached.
func (p *Provider) PullOutages(ctx context.Context, region string) ([]grid.OutageInterval, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	records, err := p.client.GetOutages(ctx, region)
	if err != nil {
		return nil, err
	}
	outages := make([]grid.OutageInterval, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.OutageID) == "" {
			continue
		}
		outage, err := rec.toOutage()
		if err != nil {
			return nil, err
		}
		outages = append(outages, outage)
	}
	return outages, nil
}

// PullNodes implements upstream.Provider with the same cache policy as assets.
func (p *Provider) PullNodes(ctx context.Context, region string) ([]grid.PricingNode, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if nodes, ok := p.loadNodes(region); ok {
		return nodes, nil
	}

	records, err := p.client.GetNodes(ctx, region)
	if err != nil {
		return nil, err
	}
	nodes := make([]grid.PricingNode, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.NodeID) == "" {
			continue
		}
		nodes = append(nodes, rec.toNode())
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].NodeID < nodes[j].NodeID })
	p.storeNodes(region, nodes)
	return nodes, nil
}

// PullPrices implements upstream.Provider.
func (p *Provider) PullPrices(ctx context.Context, region string, market grid.Market) ([]grid.PriceSample, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	records, err := p.client.GetPrices(ctx, region, string(market))
	if err != nil {
		return nil, err
	}
	samples := make([]grid.PriceSample, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.NodeID) == "" {
			continue
		}
		sample, err := rec.toSample()
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}

const (
	assetCacheTTL = 5 * time.Minute
	nodeCacheTTL  = 5 * time.Minute
)

type cachedAssets struct {
	Assets  []grid.Asset
	Fetched time.Time
}

type cachedNodes struct {
	Nodes   []grid.PricingNode
	Fetched time.Time
}

func (p *Provider) loadAssets(region string) ([]grid.Asset, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	entry, ok := p.assets[region]
	if !ok || len(entry.Assets) == 0 || time.Since(entry.Fetched) > assetCacheTTL {
		return nil, false
	}
	assets := make([]grid.Asset, len(entry.Assets))
	copy(assets, entry.Assets)
	return assets, true
}

func (p *Provider) storeAssets(region string, assets []grid.Asset) {
	clone := make([]grid.Asset, len(assets))
	copy(clone, assets)
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.assets == nil {
		p.assets = make(map[string]cachedAssets)
	}
	p.assets[region] = cachedAssets{Assets: clone, Fetched: time.Now()}
}

func (p *Provider) loadNodes(region string) ([]grid.PricingNode, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	entry, ok := p.nodes[region]
	if !ok || len(entry.Nodes) == 0 || time.Since(entry.Fetched) > nodeCacheTTL {
		return nil, false
	}
	nodes := make([]grid.PricingNode, len(entry.Nodes))
	copy(nodes, entry.Nodes)
	return nodes, true
}

func (p *Provider) storeNodes(region string, nodes []grid.PricingNode) {
	clone := make([]grid.PricingNode, len(nodes))
	copy(clone, nodes)
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.nodes == nil {
		p.nodes = make(map[string]cachedNodes)
	}
	p.nodes[region] = cachedNodes{Nodes: clone, Fetched: time.Now()}
}

// Name reports the registry name the provider was built under.
func (p *Provider) Name() string {
	if strings.TrimSpace(p.providerID) != "" {
		return p.providerID
	}
	return "gridfeed"
}
