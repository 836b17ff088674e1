package ethereum

import (
	"context"
	"fmt"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// Client is the narrow chain surface the rest of the module depends on.
type Client interface {
	GetLatestBlock(ctx context.Context) (uint64, error)
	GetLogs(ctx context.Context, contract common.Address, fromBlock uint64, toBlock uint64) ([]types.Log, error)
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	BatchCall(ctx context.Context, batch []rpc.BatchElem) error
	Close()
}

type EthereumClientConfig struct {
	BaseUrl string
}

// EthereumClient implements Client over a single shared JSON-RPC
// connection. The typed ethclient and the raw batch client reuse it.
type EthereumClient struct {
	config    *EthereumClientConfig
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	logger    *zap.Logger
}

func NewEthereumClient(ctx context.Context, config *EthereumClientConfig, logger *zap.Logger) (*EthereumClient, error) {
	if config.BaseUrl == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	rpcClient, err := rpc.DialContext(ctx, config.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", config.BaseUrl, err)
	}

	return &EthereumClient{
		config:    config,
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		logger:    logger,
	}, nil
}

func (ec *EthereumClient) GetLatestBlock(ctx context.Context) (uint64, error) {
	blockNum, err := ec.ethClient.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get latest block: %w", err)
	}
	return blockNum, nil
}

func (ec *EthereumClient) GetLogs(ctx context.Context, contract common.Address, fromBlock uint64, toBlock uint64) ([]types.Log, error) {
	query := geth.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{contract},
	}

	logs, err := ec.ethClient.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get logs for %s in [%d, %d]: %w", contract.Hex(), fromBlock, toBlock, err)
	}

	ec.logger.Sugar().Debugw("Fetched logs",
		zap.String("contract", contract.Hex()),
		zap.Uint64("fromBlock", fromBlock),
		zap.Uint64("toBlock", toBlock),
		zap.Int("logCount", len(logs)),
	)
	return logs, nil
}

func (ec *EthereumClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := ec.ethClient.CallContract(ctx, geth.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", to.Hex(), err)
	}
	return out, nil
}

func (ec *EthereumClient) BatchCall(ctx context.Context, batch []rpc.BatchElem) error {
	if err := ec.rpcClient.BatchCallContext(ctx, batch); err != nil {
		return fmt.Errorf("batch call of %d elements: %w", len(batch), err)
	}
	return nil
}

func (ec *EthereumClient) Close() {
	ec.rpcClient.Close()
}
