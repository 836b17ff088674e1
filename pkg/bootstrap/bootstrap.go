package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/clients/ethereum"
	"github.com/yield-labs/vault-registry/pkg/clients/multicall"
	"github.com/yield-labs/vault-registry/pkg/config"
	"github.com/yield-labs/vault-registry/pkg/contractResolver"
	"github.com/yield-labs/vault-registry/pkg/contractStore/inMemoryContractStore"
	"github.com/yield-labs/vault-registry/pkg/logger"
	"github.com/yield-labs/vault-registry/pkg/nameResolver"
	"github.com/yield-labs/vault-registry/pkg/priceOracle"
	"github.com/yield-labs/vault-registry/pkg/registryEvents"
	"github.com/yield-labs/vault-registry/pkg/vaultRegistry"
	"github.com/yield-labs/vault-registry/pkg/vaultRegistry/chainSource"
)

// Collaborators are the external services this module deliberately does not
// implement. Embedding applications inject their own.
type Collaborators struct {
	// ABISource fetches contract ABIs, typically from an explorer API.
	ABISource contractResolver.ABISource
	// PriceSource prices tokens; bootstrap wraps it in a TTL cache.
	PriceSource priceOracle.Oracle
}

// App owns a wired registry and the chain connection behind it.
type App struct {
	Registry *vaultRegistry.Registry
	Logger   *zap.Logger

	client *ethereum.EthereumClient
}

// NewApp dials cfg.RpcUrl once and fans the connection out to every
// component that needs the chain: the event source, ENS resolution, the
// contract resolver and the multicall path. The registry is wired but not
// started.
func NewApp(ctx context.Context, cfg *config.Config, collaborators *Collaborators) (*App, error) {
	if collaborators == nil || collaborators.ABISource == nil {
		return nil, fmt.Errorf("abi source is required")
	}
	if collaborators.PriceSource == nil {
		return nil, fmt.Errorf("price source is required")
	}

	log, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	client, err := ethereum.NewEthereumClient(ctx, &ethereum.EthereumClientConfig{
		BaseUrl: cfg.RpcUrl,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	decoder, err := registryEvents.NewDecoder(log)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("build event decoder: %w", err)
	}

	source := chainSource.NewChainEventSource(client, decoder, &chainSource.ChainEventSourceConfig{
		DeployBlock:  cfg.RegistryDeployBlock,
		PollInterval: cfg.PollInterval,
	}, log)

	store := inMemoryContractStore.NewInMemoryContractStore(nil, log)
	resolver := contractResolver.NewCachingResolver(store, collaborators.ABISource, client, log)

	oracle := priceOracle.NewCachingOracle(collaborators.PriceSource, &priceOracle.CachingOracleConfig{
		TTL: cfg.PriceCacheTTL,
	}, log)

	registry := vaultRegistry.NewRegistry(
		source,
		nameResolver.NewENSResolver(client, log),
		resolver,
		multicall.NewBatchCaller(client, log),
		oracle,
		&vaultRegistry.RegistryConfig{
			RegistryName:      cfg.RegistryName,
			DeployBlock:       cfg.RegistryDeployBlock,
			ConfirmationDepth: cfg.ConfirmationDepth,
		},
		log,
	)

	return &App{
		Registry: registry,
		Logger:   log,
		client:   client,
	}, nil
}

// Start brings the registry online; see Registry.Start for the protocol.
func (a *App) Start(ctx context.Context) error {
	return a.Registry.Start(ctx)
}

// Close stops the watch loop and releases the chain connection. The
// registry's reads stay valid on the frozen state.
func (a *App) Close() error {
	err := a.Registry.Close()
	a.client.Close()
	return err
}
