package vaultRegistry

import (
	"maps"

	"github.com/ethereum/go-ethereum/common"

	"github.com/yield-labs/vault-registry/pkg/contracts"
	"github.com/yield-labs/vault-registry/pkg/vaults"
)

// registryState is the event-sourced picture of the contract. The watch loop
// is its only writer; every applied batch replaces the whole value, so
// readers never observe a half-applied range.
type registryState struct {
	governance    common.Address
	hasGovernance bool

	releases map[string]*contracts.Contract
	vaults   map[common.Address]*vaults.Vault
	names    map[common.Address]string
	tags     map[common.Address]string

	lastProcessedBlock uint64
}

func newRegistryState() *registryState {
	return &registryState{
		releases: make(map[string]*contracts.Contract),
		vaults:   make(map[common.Address]*vaults.Vault),
		names:    make(map[common.Address]string),
		tags:     make(map[common.Address]string),
	}
}

// clone copies the maps and shares the handles. A batch applied to the clone
// leaves the original untouched until the swap, so an aborted batch leaves
// no trace.
func (st *registryState) clone() *registryState {
	return &registryState{
		governance:         st.governance,
		hasGovernance:      st.hasGovernance,
		releases:           maps.Clone(st.releases),
		vaults:             maps.Clone(st.vaults),
		names:              maps.Clone(st.names),
		tags:               maps.Clone(st.tags),
		lastProcessedBlock: st.lastProcessedBlock,
	}
}
