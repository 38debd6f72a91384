package upstream_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	upstream "gridscope-api/pkg/upstream"
	_ "gridscope-api/pkg/upstream/gridfeed"
)

func TestLoadUpstreamConfig(t *testing.T) {
	dir := t.TempDir()
	configYAML := `
default: gridfeed
providers:
  gridfeed:
    type: gridfeed
    base_url: https://api.gridfeed.io
    regions: [PJM, MISO, ERCOT]
    timeout: 6s
    http_timeout: 12s
    max_retries: 4
    rate_limit: 5
    rate_burst: 10
`
	path := filepath.Join(dir, "upstream.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := upstream.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Default != "gridfeed" {
		t.Fatalf("unexpected default: %s", cfg.Default)
	}
	provider := cfg.Providers["gridfeed"]
	if provider == nil {
		t.Fatalf("provider gridfeed missing")
	}
	if provider.Timeout != 6*time.Second {
		t.Fatalf("unexpected timeout: %s", provider.Timeout)
	}
	if len(provider.Regions) != 3 || provider.Regions[0] != "PJM" {
		t.Fatalf("unexpected regions: %v", provider.Regions)
	}

	providers, err := cfg.BuildProviders()
	if err != nil {
		t.Fatalf("BuildProviders error: %v", err)
	}
	if len(providers) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(providers))
	}
	if _, ok := providers["gridfeed"]; !ok {
		t.Fatalf("provider map missing gridfeed")
	}
}

func TestUpstreamConfigInvalidType(t *testing.T) {
	dir := t.TempDir()
	configYAML := `
providers:
  demo:
    type: foobar
`
	path := filepath.Join(dir, "upstream.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := upstream.LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestUpstreamConfigExpandsEnv(t *testing.T) {
	t.Setenv("GRIDFEED_API_KEY", "from-env")
	dir := t.TempDir()
	configYAML := `
providers:
  gridfeed:
    type: gridfeed
    api_key: ${GRIDFEED_API_KEY}
`
	path := filepath.Join(dir, "upstream.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := upstream.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if got := cfg.Providers["gridfeed"].APIKey; got != "from-env" {
		t.Fatalf("api_key not expanded, got %q", got)
	}
}

func TestUpstreamConfigRejectsNegativeRate(t *testing.T) {
	dir := t.TempDir()
	configYAML := `
providers:
  gridfeed:
    type: gridfeed
    rate_limit: -1
`
	path := filepath.Join(dir, "upstream.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := upstream.LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "rate_limit") {
		t.Fatalf("expected rate_limit error, got %v", err)
	}
}
