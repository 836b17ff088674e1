package contractResolver

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/contractStore/inMemoryContractStore"
	"github.com/yield-labs/vault-registry/pkg/mocks"
)

func testABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(
		`[{"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}]`,
	))
	require.NoError(t, err)
	return parsed
}

func TestResolve_FetchesABIOncePerAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	address := common.HexToAddress("0xaaaa")
	source := mocks.NewMockABISource(ctrl)
	source.EXPECT().FetchABI(gomock.Any(), address).Return(testABI(t), nil).Times(1)

	store := inMemoryContractStore.NewInMemoryContractStore(nil, zap.NewNop())
	resolver := NewCachingResolver(store, source, nil, zap.NewNop())

	first, err := resolver.Resolve(context.Background(), address)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := resolver.Resolve(context.Background(), address)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResolve_SourceError_Propagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	address := common.HexToAddress("0xaaaa")
	source := mocks.NewMockABISource(ctrl)
	source.EXPECT().FetchABI(gomock.Any(), address).Return(abi.ABI{}, fmt.Errorf("rate limited"))

	store := inMemoryContractStore.NewInMemoryContractStore(nil, zap.NewNop())
	resolver := NewCachingResolver(store, source, nil, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), address)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestResolveWithABI_SkipsSourceAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	address := common.HexToAddress("0xbbbb")
	source := mocks.NewMockABISource(ctrl)

	store := inMemoryContractStore.NewInMemoryContractStore(nil, zap.NewNop())
	resolver := NewCachingResolver(store, source, nil, zap.NewNop())

	first, err := resolver.ResolveWithABI(address, testABI(t))
	require.NoError(t, err)

	cached, err := store.GetContractByAddress(address)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	// A later Resolve must serve the cached handle, never the source.
	second, err := resolver.Resolve(context.Background(), address)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
