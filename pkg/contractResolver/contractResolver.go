package contractResolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/contractStore"
	"github.com/yield-labs/vault-registry/pkg/contracts"
)

// ABISource fetches the ABI of a deployed contract. Implementations wrap an
// external service (block explorer, local artifact index) and are injected
// by the embedding application.
type ABISource interface {
	FetchABI(ctx context.Context, address common.Address) (abi.ABI, error)
}

// CachingResolver turns addresses into callable contract handles, fetching
// each ABI at most once and caching the bound handle in the store.
type CachingResolver struct {
	store   contractStore.IContractStore
	source  ABISource
	backend contracts.Backend
	logger  *zap.Logger
}

func NewCachingResolver(
	store contractStore.IContractStore,
	source ABISource,
	backend contracts.Backend,
	logger *zap.Logger,
) *CachingResolver {
	return &CachingResolver{
		store:   store,
		source:  source,
		backend: backend,
		logger:  logger,
	}
}

// Resolve returns the handle for an address, fetching and binding its ABI
// on the first sighting.
func (cr *CachingResolver) Resolve(ctx context.Context, address common.Address) (*contracts.Contract, error) {
	cached, err := cr.store.GetContractByAddress(address)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, contractStore.ErrNotFound) {
		return nil, fmt.Errorf("lookup contract %s: %w", address.Hex(), err)
	}

	contractABI, err := cr.source.FetchABI(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch abi for %s: %w", address.Hex(), err)
	}

	contract := contracts.New(address, contractABI, cr.backend)
	cr.add(contract)
	return contract, nil
}

// ResolveWithABI binds a known ABI to an address without consulting the
// ABI source. Used when the ABI is already held, such as a release
// template's ABI applied to a vault deployed from it.
func (cr *CachingResolver) ResolveWithABI(address common.Address, contractABI abi.ABI) (*contracts.Contract, error) {
	cached, err := cr.store.GetContractByAddress(address)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, contractStore.ErrNotFound) {
		return nil, fmt.Errorf("lookup contract %s: %w", address.Hex(), err)
	}

	contract := contracts.New(address, contractABI, cr.backend)
	cr.add(contract)
	return contract, nil
}

func (cr *CachingResolver) add(contract *contracts.Contract) {
	if err := cr.store.AddContract(contract); err != nil {
		cr.logger.Sugar().Warnw("Failed to cache contract handle",
			zap.String("address", contract.Address.Hex()),
			zap.Error(err),
		)
	}
}
