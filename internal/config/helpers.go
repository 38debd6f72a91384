package config

import (
	"gridscope-api/pkg/upstream"
)

// MustLoadUpstream loads etc/upstream.yaml from the project root and panics on
// error. It isolates upstream config so tests that only need providers do not
// have to load the full service configuration.
func MustLoadUpstream() *upstream.Config {
	return upstream.MustLoad()
}

// MustBuildUpstreamProviders loads upstream config from the default path
// and builds provider instances; returns the map and default provider name.
func MustBuildUpstreamProviders() (map[string]upstream.Provider, string) {
	cfg := MustLoadUpstream()
	providers, err := cfg.BuildProviders()
	if err != nil {
		panic(err)
	}
	return providers, cfg.Default
}
