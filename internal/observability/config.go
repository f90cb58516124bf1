package observability

import (
	"hrintel/internal/config"
)

// ResolveConfig returns the observability settings with the service version
// defaulted to the binary version.
func ResolveConfig(cfg *config.Config, version string) config.ObservabilityConfig {
	if cfg == nil {
		return config.ObservabilityConfig{ServiceName: "hrintel", ServiceVersion: version}
	}

	obs := cfg.Observability
	if obs.ServiceVersion == "" {
		obs.ServiceVersion = version
	}
	if obs.ServiceName == "" {
		obs.ServiceName = "hrintel"
	}
	return obs
}
