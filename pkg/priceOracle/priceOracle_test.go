package priceOracle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/mocks"
)

func TestPriceOf_CachesWithinTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	token := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	source := mocks.NewMockOracle(ctrl)
	source.EXPECT().PriceOf(gomock.Any(), token).Return(1.0003, nil).Times(1)

	oracle := NewCachingOracle(source, &CachingOracleConfig{TTL: time.Minute}, zap.NewNop())

	first, err := oracle.PriceOf(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 1.0003, first)

	second, err := oracle.PriceOf(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPriceOf_ExpiredEntry_RefetchesFromSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	token := common.HexToAddress("0xaaaa")
	source := mocks.NewMockOracle(ctrl)
	gomock.InOrder(
		source.EXPECT().PriceOf(gomock.Any(), token).Return(10.0, nil),
		source.EXPECT().PriceOf(gomock.Any(), token).Return(11.0, nil),
	)

	oracle := NewCachingOracle(source, &CachingOracleConfig{TTL: 10 * time.Millisecond}, zap.NewNop())

	first, err := oracle.PriceOf(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 10.0, first)

	time.Sleep(20 * time.Millisecond)

	second, err := oracle.PriceOf(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 11.0, second)
}

func TestPriceOf_ErrorNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	token := common.HexToAddress("0xbbbb")
	source := mocks.NewMockOracle(ctrl)
	gomock.InOrder(
		source.EXPECT().PriceOf(gomock.Any(), token).Return(0.0, fmt.Errorf("upstream down")),
		source.EXPECT().PriceOf(gomock.Any(), token).Return(42.0, nil),
	)

	oracle := NewCachingOracle(source, &CachingOracleConfig{TTL: time.Minute}, zap.NewNop())

	_, err := oracle.PriceOf(context.Background(), token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")

	price, err := oracle.PriceOf(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 42.0, price)
}

func TestPriceOf_DistinctTokens_DistinctEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenA := common.HexToAddress("0x01")
	tokenB := common.HexToAddress("0x02")
	source := mocks.NewMockOracle(ctrl)
	source.EXPECT().PriceOf(gomock.Any(), tokenA).Return(1.0, nil).Times(1)
	source.EXPECT().PriceOf(gomock.Any(), tokenB).Return(2.0, nil).Times(1)

	oracle := NewCachingOracle(source, nil, zap.NewNop())

	a, err := oracle.PriceOf(context.Background(), tokenA)
	require.NoError(t, err)
	b, err := oracle.PriceOf(context.Background(), tokenB)
	require.NoError(t, err)

	assert.Equal(t, 1.0, a)
	assert.Equal(t, 2.0, b)
}
