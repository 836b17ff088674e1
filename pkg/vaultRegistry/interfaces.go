package vaultRegistry

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/yield-labs/vault-registry/pkg/contracts"
	"github.com/yield-labs/vault-registry/pkg/registryEvents"
)

// IEventSource feeds the registry with decoded contract events, both the
// historical backlog and the live stream of confirmed block heights.
type IEventSource interface {
	// FetchHistoricalEvents returns every event the contract emitted from
	// its deploy block through the current head, in chain order.
	FetchHistoricalEvents(ctx context.Context, contract common.Address) ([]registryEvents.Event, error)
	// FetchLogs returns the raw logs emitted by contract in
	// [fromBlock, toBlock], ordered by block number then log index.
	FetchLogs(ctx context.Context, contract common.Address, fromBlock uint64, toBlock uint64) ([]types.Log, error)
	DecodeLogs(logs []types.Log) ([]registryEvents.Event, error)
	// SubscribeNewHeights emits head heights lagged by confirmationDepth.
	// Heights are strictly increasing. The channel closes when ctx is done.
	SubscribeNewHeights(ctx context.Context, confirmationDepth uint64) (<-chan uint64, error)
}

// INameResolver turns a human-readable name into the contract address the
// registry indexes.
type INameResolver interface {
	Resolve(ctx context.Context, name string) (common.Address, error)
}

// IContractResolver hands out callable contract handles. ResolveWithABI
// never touches the network; the ABI is already known.
type IContractResolver interface {
	Resolve(ctx context.Context, address common.Address) (*contracts.Contract, error)
	ResolveWithABI(address common.Address, contractABI abi.ABI) (*contracts.Contract, error)
}
