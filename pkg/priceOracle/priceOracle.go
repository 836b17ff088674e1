package priceOracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Oracle quotes the spot price of a token in the pricing currency.
// Implementations wrap an external pricing service and are injected by the
// embedding application.
type Oracle interface {
	PriceOf(ctx context.Context, token common.Address) (float64, error)
}

type CachingOracleConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// CachingOracle decorates an Oracle with a TTL cache so a burst of vault
// snapshots does not hammer the pricing service. Errors are never cached.
type CachingOracle struct {
	source Oracle
	prices *cache.Cache
	logger *zap.Logger
}

func NewCachingOracle(source Oracle, config *CachingOracleConfig, logger *zap.Logger) *CachingOracle {
	if config == nil {
		config = &CachingOracleConfig{}
	}
	if config.TTL == 0 {
		config.TTL = 10 * time.Minute
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = config.TTL
	}

	return &CachingOracle{
		source: source,
		prices: cache.New(config.TTL, config.CleanupInterval),
		logger: logger,
	}
}

func (co *CachingOracle) PriceOf(ctx context.Context, token common.Address) (float64, error) {
	key := strings.ToLower(token.Hex())
	if cached, ok := co.prices.Get(key); ok {
		return cached.(float64), nil
	}

	price, err := co.source.PriceOf(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("price of %s: %w", token.Hex(), err)
	}

	co.prices.SetDefault(key, price)
	co.logger.Sugar().Debugw("Cached token price",
		zap.String("token", token.Hex()),
		zap.Float64("price", price),
	)
	return price, nil
}
