package gridfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL          = "https://api.gridfeed.io"
	defaultHTTPTimeout      = 10 * time.Second
	defaultMaxRetries       = 3
	defaultRetryBackoffBase = 150 * time.Millisecond
)

// Client wraps access to the gridfeed REST endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithAPIKey sets the key sent in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithMaxRetries adjusts the retry budget.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// WithRateLimit caps sustained requests per second with the given burst.
// A non-positive rps disables client-side limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient constructs a gridfeed API client.
func NewClient(opts ...Option) *Client {
	httpClient := &http.Client{Timeout: defaultHTTPTimeout}
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = httpClient
	}
	return client
}

// GetAssets fetches the asset registry for one ISO region.
func (c *Client) GetAssets(ctx context.Context, region string) ([]AssetRecord, error) {
	query := url.Values{"region": {region}}
	var records []AssetRecord
	if err := c.doRequest(ctx, "/v1/assets", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetOutages fetches outage intervals for one ISO region.
func (c *Client) GetOutages(ctx context.Context, region string) ([]OutageRecord, error) {
	query := url.Values{"region": {region}}
	var records []OutageRecord
	if err := c.doRequest(ctx, "/v1/outages", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetNodes fetches the pricing node directory for one ISO region.
func (c *Client) GetNodes(ctx context.Context, region string) ([]NodeRecord, error) {
	query := url.Values{"region": {region}}
	var records []NodeRecord
	if err := c.doRequest(ctx, "/v1/pricing-nodes", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetPrices fetches recent locational price samples for one region and market.
func (c *Client) GetPrices(ctx context.Context, region, market string) ([]PriceRecord, error) {
	query := url.Values{"region": {region}, "market": {market}}
	var records []PriceRecord
	if err := c.doRequest(ctx, "/v1/lmp", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// doRequest issues a GET and decodes the JSON response into result.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var lastErr error
	backoff := defaultRetryBackoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("gridfeed: build request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("gridfeed: read response: %w", readErr)
			} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("gridfeed: http status %d: %s", resp.StatusCode, string(body))
			} else {
				if result != nil {
					if err := json.Unmarshal(body, result); err != nil {
						return fmt.Errorf("gridfeed: decode response: %w", err)
					}
				}
				return nil
			}
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
			continue
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("gridfeed: request failed without error detail")
}
