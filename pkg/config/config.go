package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the environment-driven settings shared by embedding
// applications. Component-specific knobs live next to their components.
type Config struct {
	// RpcUrl is the JSON-RPC endpoint the chain client dials.
	RpcUrl string `env:"RPC_URL"`

	// RegistryName is the on-chain name the registry address is resolved from.
	RegistryName string `env:"REGISTRY_NAME" envDefault:"v2.registry.ychad.eth"`

	// RegistryDeployBlock bounds historical log fetches from below and is the
	// cursor fallback when the registry has emitted no events yet.
	RegistryDeployBlock uint64 `env:"REGISTRY_DEPLOY_BLOCK" envDefault:"11563389"`

	// ConfirmationDepth is how many blocks the watch loop lags the chain tip.
	ConfirmationDepth uint64 `env:"CONFIRMATION_DEPTH" envDefault:"10"`

	// PollInterval is how often the height feed polls for a new tip.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"15s"`

	// PriceCacheTTL is how long oracle prices stay cached.
	PriceCacheTTL time.Duration `env:"PRICE_CACHE_TTL" envDefault:"10m"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load parses Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
