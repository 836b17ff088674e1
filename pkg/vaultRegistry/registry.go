package vaultRegistry

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yield-labs/vault-registry/pkg/clients/multicall"
	"github.com/yield-labs/vault-registry/pkg/contracts"
	"github.com/yield-labs/vault-registry/pkg/priceOracle"
	"github.com/yield-labs/vault-registry/pkg/vaults"
)

const DefaultRegistryName = "v2.registry.ychad.eth"

const defaultConfirmationDepth = 10

type RegistryConfig struct {
	// RegistryName is the ENS name of the registry contract.
	RegistryName string
	// DeployBlock is where history starts. Nothing earlier is fetched, and
	// it doubles as the cursor when the contract has emitted nothing yet.
	DeployBlock uint64
	// ConfirmationDepth is how many blocks the watch loop lags the head.
	ConfirmationDepth uint64
}

// Registry is an event-sourced, in-memory view of one on-chain vault
// registry. Start replays the contract's history synchronously and then
// hands the cursor to a single watch goroutine; readers are served from the
// last fully-applied state and are never blocked by network calls.
type Registry struct {
	source       IEventSource
	nameResolver INameResolver
	applier      *applier
	config       *RegistryConfig
	logger       *zap.Logger

	mu          sync.RWMutex
	address     common.Address
	state       *registryState
	watchCancel context.CancelFunc
	started     bool
	fault       error

	group *errgroup.Group
	done  chan struct{}
}

func NewRegistry(
	source IEventSource,
	names INameResolver,
	resolver IContractResolver,
	mc multicall.Caller,
	oracle priceOracle.Oracle,
	config *RegistryConfig,
	logger *zap.Logger,
) *Registry {
	if source == nil {
		panic("event source is required")
	}

	if config.RegistryName == "" {
		config.RegistryName = DefaultRegistryName
	}
	if config.ConfirmationDepth == 0 {
		config.ConfirmationDepth = defaultConfirmationDepth
	}

	registryLogger := logger.With(
		zap.String("registry", config.RegistryName),
	)
	return &Registry{
		source:       source,
		nameResolver: names,
		applier: &applier{
			resolver: resolver,
			mc:       mc,
			oracle:   oracle,
			logger:   registryLogger,
		},
		config: config,
		logger: registryLogger,
		state:  newRegistryState(),
		done:   make(chan struct{}),
	}
}

// Start resolves the registry's address, replays its full event history, and
// launches the watch loop. It returns only after the registry answers reads
// consistently with the chain as of the last historical event. On error the
// registry is dead: Done is closed, Err carries the cause, and the caller
// must discard the instance.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return fmt.Errorf("registry already started")
	}
	r.started = true
	r.mu.Unlock()

	start := time.Now()
	r.logger.Sugar().Infow("Starting vault registry",
		zap.Uint64("deployBlock", r.config.DeployBlock),
		zap.Uint64("confirmationDepth", r.config.ConfirmationDepth),
	)

	address, err := r.nameResolver.Resolve(ctx, r.config.RegistryName)
	if err != nil {
		return r.failStart(fmt.Errorf("resolve registry name %q: %w", r.config.RegistryName, err))
	}

	events, err := r.source.FetchHistoricalEvents(ctx, address)
	if err != nil {
		return r.failStart(fmt.Errorf("fetch historical events: %w", err))
	}

	// Replay onto a fresh state so a failed replay never becomes visible.
	st := newRegistryState()
	st.lastProcessedBlock = r.config.DeployBlock
	for _, ev := range events {
		if err := r.applier.Apply(ctx, st, ev); err != nil {
			return r.failStart(fmt.Errorf("replay event at block %d: %w", ev.BlockNumber(), err))
		}
		st.lastProcessedBlock = ev.BlockNumber()
	}

	watchCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.address = address
	r.state = st
	r.watchCancel = cancel
	r.mu.Unlock()

	r.logger.Sugar().Infow("Historical replay complete",
		"address", address.Hex(),
		"events", len(events),
		"releases", len(st.releases),
		"vaults", len(st.vaults),
		"lastProcessedBlock", st.lastProcessedBlock,
		"elapsed", time.Since(start),
	)

	heights, err := r.source.SubscribeNewHeights(watchCtx, r.config.ConfirmationDepth)
	if err != nil {
		cancel()
		return r.failStart(fmt.Errorf("subscribe to new heights: %w", err))
	}

	g, gctx := errgroup.WithContext(watchCtx)
	r.group = g
	g.Go(func() error {
		return r.watch(gctx, heights)
	})
	go func() {
		err := g.Wait()
		r.mu.Lock()
		r.fault = err
		r.mu.Unlock()
		close(r.done)
	}()

	return nil
}

// failStart settles the lifecycle channels so Done and Wait never hang on a
// registry whose Start failed.
func (r *Registry) failStart(err error) error {
	r.mu.Lock()
	r.fault = err
	r.mu.Unlock()
	close(r.done)
	return err
}

func (r *Registry) Address() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.address
}

// Governance reports the current governance address; false until the first
// NewGovernance event has been applied.
func (r *Registry) Governance() (common.Address, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.governance, r.state.hasGovernance
}

// Releases maps api version to the release template handle. Releases are
// never removed; vaults created later depend on them.
func (r *Registry) Releases() map[string]*contracts.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.state.releases)
}

// ListVaults returns every registered vault ordered by address.
func (r *Registry) ListVaults() []*vaults.Vault {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*vaults.Vault, 0, len(r.state.vaults))
	for _, v := range r.state.vaults {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Address().Cmp(list[j].Address()) < 0
	})
	return list
}

func (r *Registry) GetVault(address common.Address) (*vaults.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.state.vaults[address]
	if !ok {
		return nil, fmt.Errorf("vault %s: %w", address.Hex(), ErrVaultNotFound)
	}
	return v, nil
}

func (r *Registry) VaultByName(displayName string) (*vaults.Vault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for addr, name := range r.state.names {
		if name == displayName {
			return r.state.vaults[addr], nil
		}
	}
	return nil, fmt.Errorf("vault %q: %w", displayName, ErrVaultNotFound)
}

func (r *Registry) GetName(address common.Address) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.state.names[address]
	return name, ok
}

func (r *Registry) GetTag(address common.Address) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.state.tags[address]
	return tag, ok
}

func (r *Registry) Tags() map[common.Address]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.state.tags)
}

// LastProcessedBlock is the height through which state is complete.
func (r *Registry) LastProcessedBlock() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.lastProcessedBlock
}

func (r *Registry) DescribeVault(ctx context.Context, address common.Address) (vaults.Snapshot, error) {
	v, err := r.GetVault(address)
	if err != nil {
		return nil, err
	}
	return v.Describe(ctx)
}

// DescribeAll snapshots every registered vault, keyed by display name.
func (r *Registry) DescribeAll(ctx context.Context) (map[string]vaults.Snapshot, error) {
	all := make(map[string]vaults.Snapshot)
	for _, v := range r.ListVaults() {
		snapshot, err := v.Describe(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", v.DisplayName(), err)
		}
		all[v.DisplayName()] = snapshot
	}
	return all, nil
}

// Err reports the watch loop's fault. It is nil while the loop is healthy
// and stays nil after a clean shutdown; reads keep serving the last
// fully-applied state either way.
func (r *Registry) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fault
}

// Done closes once the watch loop has exited, cleanly or not.
func (r *Registry) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the watch loop exits and returns its fault, if any.
func (r *Registry) Wait() error {
	<-r.done
	return r.Err()
}

// Close stops the watch loop and waits for it to exit. Reads remain valid
// afterwards; the state is simply frozen.
func (r *Registry) Close() error {
	r.mu.RLock()
	cancel := r.watchCancel
	r.mu.RUnlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-r.done
	return r.Err()
}
