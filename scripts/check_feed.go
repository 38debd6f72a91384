package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gridscope-api/internal/config"
	"gridscope-api/pkg/upstream"

	_ "gridscope-api/pkg/upstream/gridfeed"
)

// queryFeed issues one raw GET against the feed, bypassing the typed client
// so a broken deployment is diagnosable even when decoding would fail.
func queryFeed(base, path, apiKey string, query url.Values) (string, int, error) {
	endpoint := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, _ := http.NewRequest(http.MethodGet, endpoint, nil)
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	c := &http.Client{Timeout: 10 * time.Second}
	resp, err := c.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	var records []json.RawMessage
	if err := json.Unmarshal(b, &records); err != nil {
		return resp.Status, -1, nil
	}
	return resp.Status, len(records), nil
}

func main() {
	configPath := "etc/gridscope.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	var upstreamCfg *upstream.Config
	if appCfg, err := config.Load(configPath); err == nil && appCfg.Upstream.Value != nil {
		upstreamCfg = appCfg.Upstream.Value
	} else {
		upstreamCfg = upstream.MustLoad()
	}

	name := upstreamCfg.Default
	provider := upstreamCfg.Providers[name]
	if provider == nil {
		fmt.Printf("default provider %q not defined in upstream config\n", name)
		os.Exit(1)
	}

	baseURL := provider.BaseURL
	if baseURL == "" {
		baseURL = "https://api.gridfeed.io"
	}
	regions := provider.Regions
	if len(regions) == 0 {
		regions = []string{"PJM"}
	}

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Feed: %s (type %s)\n", name, provider.Type)
	fmt.Printf("Base URL: %s\n", baseURL)
	if provider.APIKey != "" {
		fmt.Println("API Key: configured")
	} else {
		fmt.Println("API Key: (not set - anonymous access)")
	}
	fmt.Printf("Regions: %v\n", regions)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if provider.APIKey == "" {
		fmt.Println("⚠️  NO API KEY CONFIGURED")
		fmt.Println("Most feed deployments reject anonymous pulls with 401.")
		fmt.Println("")
		fmt.Println("To configure a key:")
		fmt.Println("1. Set api_key under the provider in etc/upstream.yaml, or")
		fmt.Println("2. Export the environment variable it expands, e.g.")
		fmt.Println("   GRIDFEED_API_KEY=... with api_key: ${GRIDFEED_API_KEY}")
		fmt.Println("")
	}

	endpoints := []struct {
		label string
		path  string
		query func(region string) url.Values
	}{
		{"ASSETS", "/v1/assets", func(r string) url.Values { return url.Values{"region": {r}} }},
		{"OUTAGES", "/v1/outages", func(r string) url.Values { return url.Values{"region": {r}} }},
		{"PRICING NODES", "/v1/pricing-nodes", func(r string) url.Values { return url.Values{"region": {r}} }},
		{"LMP (DAM)", "/v1/lmp", func(r string) url.Values { return url.Values{"region": {r}, "market": {"DAM"}} }},
	}

	for _, ep := range endpoints {
		fmt.Printf("--- %s ---\n", ep.label)
		for _, region := range regions {
			status, n, err := queryFeed(baseURL, ep.path, provider.APIKey, ep.query(region))
			switch {
			case err != nil:
				fmt.Printf("%s: error: %v\n", region, err)
			case n < 0:
				fmt.Printf("%s: %s (response is not a record array)\n", region, status)
			default:
				fmt.Printf("%s: %s, %d records\n", region, status, n)
			}
		}
		fmt.Println()
	}
}
