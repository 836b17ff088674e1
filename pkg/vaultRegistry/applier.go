package vaultRegistry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/clients/multicall"
	"github.com/yield-labs/vault-registry/pkg/priceOracle"
	"github.com/yield-labs/vault-registry/pkg/registryEvents"
	"github.com/yield-labs/vault-registry/pkg/vaults"
)

// applier folds decoded events into a registryState. It owns no state of its
// own; the caller decides which instance absorbs the batch.
type applier struct {
	resolver IContractResolver
	mc       multicall.Caller
	oracle   priceOracle.Oracle
	logger   *zap.Logger
}

func (a *applier) Apply(ctx context.Context, st *registryState, ev registryEvents.Event) error {
	switch e := ev.(type) {
	case *registryEvents.NewGovernance:
		st.governance = e.Governance
		st.hasGovernance = true
		return nil
	case *registryEvents.NewRelease:
		return a.applyNewRelease(ctx, st, e)
	case *registryEvents.NewVault:
		return a.applyNewVault(ctx, st, e)
	case *registryEvents.VaultTagged:
		// Last write wins, and tagging is independent of vault creation.
		st.tags[e.Vault] = e.Tag
		return nil
	case *registryEvents.Unknown:
		return &registryEvents.UnknownEventError{Name: e.Name, Block: e.Block, Index: e.Index}
	default:
		return &registryEvents.UnknownEventError{Block: ev.BlockNumber(), Index: ev.LogIndex()}
	}
}

func (a *applier) applyNewRelease(ctx context.Context, st *registryState, ev *registryEvents.NewRelease) error {
	template, err := a.resolver.Resolve(ctx, ev.Template)
	if err != nil {
		return fmt.Errorf("resolve release template %s: %w", ev.Template.Hex(), err)
	}
	st.releases[ev.APIVersion] = template

	a.logger.Sugar().Debugw("Registered release",
		"apiVersion", ev.APIVersion,
		"template", ev.Template.Hex(),
		"block", ev.Block,
	)
	return nil
}

func (a *applier) applyNewVault(ctx context.Context, st *registryState, ev *registryEvents.NewVault) error {
	if _, ok := st.vaults[ev.Vault]; ok {
		a.logger.Sugar().Debugw("Skipping already-registered vault",
			"vault", ev.Vault.Hex(),
			"block", ev.Block,
		)
		return nil
	}

	release, ok := st.releases[ev.APIVersion]
	if !ok {
		return &MissingReleaseError{APIVersion: ev.APIVersion, Vault: ev.Vault, Block: ev.Block}
	}

	contract, err := a.resolver.ResolveWithABI(ev.Vault, release.ABI)
	if err != nil {
		return fmt.Errorf("resolve vault %s: %w", ev.Vault.Hex(), err)
	}

	symbol, err := contract.Symbol(ctx)
	if err != nil {
		return fmt.Errorf("symbol for vault %s: %w", ev.Vault.Hex(), err)
	}
	displayName := fmt.Sprintf("%s v%s", symbol, ev.APIVersion)

	st.vaults[ev.Vault] = vaults.NewVault(&vaults.VaultConfig{
		Contract:     contract,
		APIVersion:   ev.APIVersion,
		DisplayName:  displayName,
		Experimental: ev.Experimental,
	}, a.mc, a.oracle, a.logger)
	st.names[ev.Vault] = displayName

	a.logger.Sugar().Infow("Registered vault",
		"vault", ev.Vault.Hex(),
		"displayName", displayName,
		"apiVersion", ev.APIVersion,
		"experimental", ev.Experimental,
		"block", ev.Block,
	)
	return nil
}
