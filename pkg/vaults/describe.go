package vaults

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"slices"

	"github.com/yield-labs/vault-registry/pkg/clients/multicall"
	"github.com/yield-labs/vault-registry/pkg/util"
)

// Snapshot is a point-in-time numeric picture of a vault: view name to
// scaled value, plus "tokenPrice", "tvl" when computable, and the nested
// "strategies" section.
type Snapshot map[string]any

const (
	strategiesKey = "strategies"
	tokenPriceKey = "tokenPrice"
	tvlKey        = "tvl"
)

// ScaledViews are the views quoted in token units and therefore divided by
// 10^decimals. Anything else from the numeric view set passes through raw.
var ScaledViews = []string{
	"totalAssets",
	"maxAvailableShares",
	"pricePerShare",
	"debtOutstanding",
	"creditAvailable",
	"expectedReturn",
	"totalSupply",
	"availableDepositLimit",
	"depositLimit",
	"totalDebt",
	"debtLimit",
}

// Describe reads every numeric view in one batch and assembles the
// snapshot. A failed batch degrades to a snapshot without per-view values;
// decimals, token, price, and strategy failures propagate.
func (v *Vault) Describe(ctx context.Context) (Snapshot, error) {
	decimals, err := v.contract.Decimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("decimals for %s: %w", v.contract.Address.Hex(), err)
	}
	scale := math.Pow10(int(decimals))

	snapshot := Snapshot{}
	viewValues, err := v.fetchViews(ctx)
	if err != nil {
		v.logger.Sugar().Warnw("Batch view fetch failed, degrading to strategy-only snapshot",
			"error", err,
		)
	} else {
		for name, raw := range viewValues {
			snapshot[name] = scaleView(name, raw, scale)
		}
	}

	strategies := make(map[string]map[string]float64)
	for _, strat := range v.Strategies() {
		desc, err := strat.Describe(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe strategy %q: %w", strat.Name(), err)
		}
		strategies[strat.Name()] = desc
	}
	snapshot[strategiesKey] = strategies

	token, err := v.contract.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("token for %s: %w", v.contract.Address.Hex(), err)
	}
	price, err := v.oracle.PriceOf(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("price for %s: %w", v.contract.Address.Hex(), err)
	}
	snapshot[tokenPriceKey] = price

	if totalAssets, ok := snapshot["totalAssets"].(float64); ok {
		snapshot[tvlKey] = price * totalAssets
	}

	return snapshot, nil
}

// fetchViews is the all-or-nothing batched read of the cached view set.
func (v *Vault) fetchViews(ctx context.Context) (map[string]*big.Int, error) {
	if len(v.views) == 0 {
		return map[string]*big.Int{}, nil
	}

	calls := util.Map(v.views, func(name string) multicall.ViewCall {
		return multicall.ViewCall{Contract: v.contract, Method: name}
	})
	results, err := v.mc.Aggregate(ctx, calls)
	if err != nil {
		return nil, err
	}

	values := make(map[string]*big.Int, len(results))
	for i, result := range results {
		raw, ok := result.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("view %s: unexpected result type %T", v.views[i], result)
		}
		values[v.views[i]] = raw
	}
	return values, nil
}

func scaleView(name string, raw *big.Int, scale float64) float64 {
	value := new(big.Float).SetInt(raw)
	if slices.Contains(ScaledViews, name) {
		value.Quo(value, big.NewFloat(scale))
	}
	out, _ := value.Float64()
	return out
}
