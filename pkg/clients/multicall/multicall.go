package multicall

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/clients/ethereum"
	"github.com/yield-labs/vault-registry/pkg/contracts"
)

// ViewCall names one zero-argument read on a contract handle.
type ViewCall struct {
	Contract *contracts.Contract
	Method   string
}

// Caller executes a set of view calls as a single unit: either every call
// succeeds and results come back positionally aligned with the input, or
// the whole batch fails.
type Caller interface {
	Aggregate(ctx context.Context, calls []ViewCall) ([]any, error)
}

// BatchCaller implements Caller with one JSON-RPC batch of eth_call
// requests per Aggregate.
type BatchCaller struct {
	client ethereum.Client
	logger *zap.Logger
}

func NewBatchCaller(client ethereum.Client, logger *zap.Logger) *BatchCaller {
	return &BatchCaller{
		client: client,
		logger: logger,
	}
}

func (bc *BatchCaller) Aggregate(ctx context.Context, calls []ViewCall) ([]any, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	batch := make([]rpc.BatchElem, len(calls))
	for i, call := range calls {
		data, err := call.Contract.ABI.Pack(call.Method)
		if err != nil {
			return nil, fmt.Errorf("pack %s on %s: %w", call.Method, call.Contract.Address.Hex(), err)
		}
		batch[i] = rpc.BatchElem{
			Method: "eth_call",
			Args: []any{
				map[string]any{
					"to":   call.Contract.Address,
					"data": hexutil.Bytes(data),
				},
				"latest",
			},
			Result: new(hexutil.Bytes),
		}
	}

	if err := bc.client.BatchCall(ctx, batch); err != nil {
		return nil, fmt.Errorf("aggregate %d calls: %w", len(calls), err)
	}

	var failures error
	results := make([]any, len(calls))
	for i, elem := range batch {
		call := calls[i]
		if elem.Error != nil {
			failures = multierr.Append(failures, fmt.Errorf("%s on %s: %w", call.Method, call.Contract.Address.Hex(), elem.Error))
			continue
		}
		raw := *elem.Result.(*hexutil.Bytes)
		if len(raw) == 0 {
			failures = multierr.Append(failures, fmt.Errorf("%s on %s: empty result", call.Method, call.Contract.Address.Hex()))
			continue
		}
		values, err := call.Contract.ABI.Unpack(call.Method, raw)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("unpack %s on %s: %w", call.Method, call.Contract.Address.Hex(), err))
			continue
		}
		if len(values) == 0 {
			failures = multierr.Append(failures, fmt.Errorf("%s on %s: no outputs", call.Method, call.Contract.Address.Hex()))
			continue
		}
		results[i] = values[0]
	}
	if failures != nil {
		bc.logger.Sugar().Warnw("Batch call had failing elements",
			zap.Int("calls", len(calls)),
			zap.Error(failures),
		)
		return nil, failures
	}

	return results, nil
}
