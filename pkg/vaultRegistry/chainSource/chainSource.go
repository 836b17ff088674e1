package chainSource

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/clients/ethereum"
	"github.com/yield-labs/vault-registry/pkg/registryEvents"
)

type ChainEventSourceConfig struct {
	// DeployBlock bounds historical fetches; the contract cannot have
	// emitted anything earlier.
	DeployBlock  uint64
	PollInterval time.Duration
}

// ChainEventSource feeds the registry from a JSON-RPC endpoint: ranged
// eth_getLogs reads plus a polled head subscription.
type ChainEventSource struct {
	client  ethereum.Client
	decoder *registryEvents.Decoder
	config  *ChainEventSourceConfig
	logger  *zap.Logger
}

func NewChainEventSource(
	client ethereum.Client,
	decoder *registryEvents.Decoder,
	config *ChainEventSourceConfig,
	logger *zap.Logger,
) *ChainEventSource {
	if config.PollInterval == 0 {
		config.PollInterval = 15 * time.Second
	}

	return &ChainEventSource{
		client:  client,
		decoder: decoder,
		config:  config,
		logger:  logger,
	}
}

// FetchLogs returns the contract's logs in [fromBlock, toBlock] ordered by
// block number then log index. Providers may answer unordered; application
// order must not depend on that.
func (s *ChainEventSource) FetchLogs(ctx context.Context, contract common.Address, fromBlock uint64, toBlock uint64) ([]types.Log, error) {
	logs, err := s.client.GetLogs(ctx, contract, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("get logs %d-%d: %w", fromBlock, toBlock, err)
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})
	return logs, nil
}

func (s *ChainEventSource) DecodeLogs(logs []types.Log) ([]registryEvents.Event, error) {
	return s.decoder.DecodeLogs(logs)
}

// FetchHistoricalEvents drains everything the contract emitted from the
// deploy block through the current head.
func (s *ChainEventSource) FetchHistoricalEvents(ctx context.Context, contract common.Address) ([]registryEvents.Event, error) {
	latest, err := s.client.GetLatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}

	logs, err := s.FetchLogs(ctx, contract, s.config.DeployBlock, latest)
	if err != nil {
		return nil, err
	}

	s.logger.Sugar().Infow("Fetched historical logs",
		"contract", contract.Hex(),
		"fromBlock", s.config.DeployBlock,
		"toBlock", latest,
		"logCount", len(logs),
	)
	return s.decoder.DecodeLogs(logs)
}

// SubscribeNewHeights polls the head and emits each new confirmed height,
// the head lagged by confirmationDepth, exactly once and in increasing
// order. The first confirmed height is emitted before the first tick so a
// fresh subscriber drains its backlog immediately. The channel closes when
// ctx is done.
func (s *ChainEventSource) SubscribeNewHeights(ctx context.Context, confirmationDepth uint64) (<-chan uint64, error) {
	tip, err := s.client.GetLatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}

	heights := make(chan uint64, 1)
	var lastEmitted uint64
	var haveEmitted bool
	if tip >= confirmationDepth {
		lastEmitted = tip - confirmationDepth
		haveEmitted = true
		heights <- lastEmitted
	}

	go s.pollForHeights(ctx, heights, confirmationDepth, lastEmitted, haveEmitted)

	return heights, nil
}

func (s *ChainEventSource) pollForHeights(ctx context.Context, heights chan<- uint64, confirmationDepth uint64, lastEmitted uint64, haveEmitted bool) {
	defer close(heights)

	s.logger.Sugar().Infow("Starting height poll loop",
		zap.Duration("pollInterval", s.config.PollInterval),
		zap.Uint64("confirmationDepth", confirmationDepth),
	)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Sugar().Infow("Height poll loop context cancelled, stopping")
			return
		case <-ticker.C:
			tip, err := s.client.GetLatestBlock(ctx)
			if err != nil {
				// Transient; the next tick tries again.
				s.logger.Sugar().Errorw("Error getting latest block number", "error", err)
				continue
			}
			if tip < confirmationDepth {
				continue
			}

			confirmed := tip - confirmationDepth
			if haveEmitted && confirmed <= lastEmitted {
				s.logger.Sugar().Debugw("No new confirmed height",
					"tip", tip,
					"lastEmitted", lastEmitted,
				)
				continue
			}

			select {
			case heights <- confirmed:
				lastEmitted = confirmed
				haveEmitted = true
			case <-ctx.Done():
				return
			}
		}
	}
}
