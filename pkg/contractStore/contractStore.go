package contractStore

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/yield-labs/vault-registry/pkg/contracts"
)

var (
	ErrNotFound    = errors.New("contract not found")
	ErrStoreClosed = errors.New("contract store is closed")
)

// IContractStore caches callable contract handles by address so ABIs are
// fetched and bound at most once per contract.
type IContractStore interface {
	GetContractByAddress(address common.Address) (*contracts.Contract, error)
	AddContract(contract *contracts.Contract) error
	ListContracts() []*contracts.Contract
	Close() error
}
