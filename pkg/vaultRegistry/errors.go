package vaultRegistry

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var ErrVaultNotFound = errors.New("vault not found")

// MissingReleaseError means a vault creation referenced an api version the
// registry has never seen. The contract only emits releases before vaults
// deployed from them, so the stream cannot be trusted past this point.
type MissingReleaseError struct {
	APIVersion string
	Vault      common.Address
	Block      uint64
}

func (e *MissingReleaseError) Error() string {
	return fmt.Sprintf("vault %s references unknown release %q at block %d", e.Vault.Hex(), e.APIVersion, e.Block)
}
