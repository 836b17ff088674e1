package contracts

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Backend performs a read-only call against the latest block.
type Backend interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Contract is a callable handle: an address, its ABI, and the backend the
// calls go through. Handles are immutable once built.
type Contract struct {
	Address common.Address
	ABI     abi.ABI

	backend Backend
}

func New(address common.Address, contractABI abi.ABI, backend Backend) *Contract {
	return &Contract{
		Address: address,
		ABI:     contractABI,
		backend: backend,
	}
}

// Call invokes a read-only method and returns its unpacked outputs.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if _, ok := c.ABI.Methods[method]; !ok {
		return nil, fmt.Errorf("method %q not in abi of contract %s", method, c.Address.Hex())
	}

	data, err := c.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := c.backend.CallContract(ctx, c.Address, data)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, c.Address.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("call %s on %s: empty result", method, c.Address.Hex())
	}

	values, err := c.ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// Symbol reads the contract's symbol.
func (c *Contract) Symbol(ctx context.Context) (string, error) {
	values, err := c.Call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("symbol on %s: unexpected type %T", c.Address.Hex(), values[0])
	}
	return symbol, nil
}

// Decimals reads the token precision. Both uint8 and uint256 declarations
// appear in the wild, so both are accepted.
func (c *Contract) Decimals(ctx context.Context) (uint8, error) {
	values, err := c.Call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	switch v := values[0].(type) {
	case uint8:
		return v, nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("decimals on %s: unexpected type %T", c.Address.Hex(), values[0])
	}
}

// Token reads the address of the underlying token.
func (c *Contract) Token(ctx context.Context) (common.Address, error) {
	values, err := c.Call(ctx, "token")
	if err != nil {
		return common.Address{}, err
	}
	token, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("token on %s: unexpected type %T", c.Address.Hex(), values[0])
	}
	return token, nil
}

// NumericViews lists the zero-argument view methods returning a single
// uint256, sorted by name. These are the batch-readable gauges of the
// contract.
func (c *Contract) NumericViews() []string {
	views := make([]string, 0, len(c.ABI.Methods))
	for name, m := range c.ABI.Methods {
		if m.StateMutability != "view" {
			continue
		}
		if len(m.Inputs) != 0 || len(m.Outputs) != 1 {
			continue
		}
		out := m.Outputs[0].Type
		if out.T == abi.UintTy && out.Size == 256 {
			views = append(views, name)
		}
	}
	sort.Strings(views)
	return views
}
