package vaults

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/clients/multicall"
	"github.com/yield-labs/vault-registry/pkg/contracts"
	"github.com/yield-labs/vault-registry/pkg/priceOracle"
)

// Strategy is one yield strategy attached to a vault. Attachment is driven
// by the embedding application, not by registry events.
type Strategy interface {
	Name() string
	Describe(ctx context.Context) (map[string]float64, error)
}

// Vault is an immutable record of one registered vault plus its live
// strategy list. The numeric view set is discovered from the ABI once, at
// construction.
type Vault struct {
	contract *contracts.Contract
	mc       multicall.Caller
	oracle   priceOracle.Oracle
	logger   *zap.Logger

	apiVersion   string
	displayName  string
	experimental bool
	views        []string

	strategies atomic.Value // []Strategy
	writeMu    sync.Mutex
}

type VaultConfig struct {
	Contract     *contracts.Contract
	APIVersion   string
	DisplayName  string
	Experimental bool
}

func NewVault(cfg *VaultConfig, mc multicall.Caller, oracle priceOracle.Oracle, logger *zap.Logger) *Vault {
	v := &Vault{
		contract:     cfg.Contract,
		mc:           mc,
		oracle:       oracle,
		apiVersion:   cfg.APIVersion,
		displayName:  cfg.DisplayName,
		experimental: cfg.Experimental,
		views:        cfg.Contract.NumericViews(),
		logger:       logger.With(zap.String("vault", cfg.Contract.Address.Hex())),
	}
	v.strategies.Store([]Strategy{})
	return v
}

func (v *Vault) Address() common.Address { return v.contract.Address }
func (v *Vault) APIVersion() string      { return v.apiVersion }
func (v *Vault) DisplayName() string     { return v.displayName }
func (v *Vault) Experimental() bool      { return v.experimental }

// Views returns the discovered numeric view names.
func (v *Vault) Views() []string {
	out := make([]string, len(v.views))
	copy(out, v.views)
	return out
}

// Strategies returns the attached strategies in attachment order.
func (v *Vault) Strategies() []Strategy {
	current := v.strategies.Load().([]Strategy)
	out := make([]Strategy, len(current))
	copy(out, current)
	return out
}

// SetStrategies replaces the strategy list.
func (v *Vault) SetStrategies(strategies []Strategy) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	next := make([]Strategy, len(strategies))
	copy(next, strategies)
	v.strategies.Store(next)
}

// AddStrategies appends strategies not already attached, keyed by name.
func (v *Vault) AddStrategies(strategies ...Strategy) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	current := v.strategies.Load().([]Strategy)
	seen := make(map[string]struct{}, len(current))
	merged := make([]Strategy, 0, len(current)+len(strategies))
	for _, strat := range current {
		seen[strat.Name()] = struct{}{}
		merged = append(merged, strat)
	}
	for _, strat := range strategies {
		if _, ok := seen[strat.Name()]; ok {
			continue
		}
		seen[strat.Name()] = struct{}{}
		merged = append(merged, strat)
	}
	v.strategies.Store(merged)
}
