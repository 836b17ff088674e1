package inMemoryContractStore

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/contractStore"
	"github.com/yield-labs/vault-registry/pkg/contracts"
	"github.com/yield-labs/vault-registry/pkg/util"
)

type InMemoryContractStore struct {
	mu        sync.RWMutex
	closed    bool
	contracts []*contracts.Contract
	logger    *zap.Logger
}

func NewInMemoryContractStore(initial []*contracts.Contract, logger *zap.Logger) *InMemoryContractStore {
	return &InMemoryContractStore{
		contracts: initial,
		logger:    logger,
	}
}

func (ics *InMemoryContractStore) GetContractByAddress(address common.Address) (*contracts.Contract, error) {
	ics.mu.RLock()
	defer ics.mu.RUnlock()

	if ics.closed {
		return nil, contractStore.ErrStoreClosed
	}

	contract := util.Find(ics.contracts, func(c *contracts.Contract) bool {
		return c.Address == address
	})
	if contract == nil {
		return nil, contractStore.ErrNotFound
	}
	return contract, nil
}

func (ics *InMemoryContractStore) AddContract(contract *contracts.Contract) error {
	ics.mu.Lock()
	defer ics.mu.Unlock()

	if ics.closed {
		return contractStore.ErrStoreClosed
	}
	if contract == nil {
		return fmt.Errorf("contract cannot be nil")
	}

	for _, c := range ics.contracts {
		if c.Address == contract.Address {
			return fmt.Errorf("contract already exists: address=%s", contract.Address.Hex())
		}
	}
	ics.contracts = append(ics.contracts, contract)

	ics.logger.Sugar().Debugw("Contract added to store",
		zap.String("address", contract.Address.Hex()),
		zap.Int("storeSize", len(ics.contracts)),
	)
	return nil
}

func (ics *InMemoryContractStore) ListContracts() []*contracts.Contract {
	ics.mu.RLock()
	defer ics.mu.RUnlock()

	out := make([]*contracts.Contract, len(ics.contracts))
	copy(out, ics.contracts)
	return out
}

func (ics *InMemoryContractStore) Close() error {
	ics.mu.Lock()
	defer ics.mu.Unlock()

	if ics.closed {
		return contractStore.ErrStoreClosed
	}
	ics.closed = true
	ics.contracts = nil
	return nil
}
