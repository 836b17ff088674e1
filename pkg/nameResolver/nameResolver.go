package nameResolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/contracts"
)

// Resolver maps a human-readable name to the address it is registered to.
type Resolver interface {
	Resolve(ctx context.Context, name string) (common.Address, error)
}

var ErrNameNotFound = errors.New("name not registered")

// The singleton ENS registry, same address on mainnet and the testnets.
const ensRegistryAddress = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"

var (
	resolverSelector = crypto.Keccak256([]byte("resolver(bytes32)"))[:4]
	addrSelector     = crypto.Keccak256([]byte("addr(bytes32)"))[:4]
)

// ENSResolver resolves names through the on-chain ENS registry: one call to
// find the name's resolver, one call to the resolver for the address.
type ENSResolver struct {
	backend  contracts.Backend
	registry common.Address
	logger   *zap.Logger
}

func NewENSResolver(backend contracts.Backend, logger *zap.Logger) *ENSResolver {
	return &ENSResolver{
		backend:  backend,
		registry: common.HexToAddress(ensRegistryAddress),
		logger:   logger,
	}
}

// Namehash derives the EIP-137 node of a name by folding keccak over its
// labels from right to left.
func Namehash(name string) common.Hash {
	node := make([]byte, common.HashLength)
	if name == "" {
		return common.BytesToHash(node)
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256(node, labelHash)
	}
	return common.BytesToHash(node)
}

func (r *ENSResolver) Resolve(ctx context.Context, name string) (common.Address, error) {
	node := Namehash(name)

	out, err := r.backend.CallContract(ctx, r.registry, packNodeCall(resolverSelector, node))
	if err != nil {
		return common.Address{}, fmt.Errorf("resolver lookup for %q: %w", name, err)
	}
	resolverAddr := common.BytesToAddress(out)
	if resolverAddr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %q has no resolver", ErrNameNotFound, name)
	}

	out, err = r.backend.CallContract(ctx, resolverAddr, packNodeCall(addrSelector, node))
	if err != nil {
		return common.Address{}, fmt.Errorf("addr lookup for %q: %w", name, err)
	}
	address := common.BytesToAddress(out)
	if address == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %q resolves to the zero address", ErrNameNotFound, name)
	}

	r.logger.Sugar().Debugw("Resolved name",
		zap.String("name", name),
		zap.String("address", address.Hex()),
	)
	return address, nil
}

func packNodeCall(selector []byte, node common.Hash) []byte {
	data := make([]byte, 0, len(selector)+common.HashLength)
	data = append(data, selector...)
	return append(data, node.Bytes()...)
}
