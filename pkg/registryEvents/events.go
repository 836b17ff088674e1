package registryEvents

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Meta carries the log coordinates shared by every decoded event.
type Meta struct {
	Block  uint64
	Index  uint
	TxHash common.Hash
}

func (m Meta) BlockNumber() uint64 { return m.Block }
func (m Meta) LogIndex() uint      { return m.Index }

// Event is the closed set of registry log kinds. The decoder never drops a
// log: anything outside the known set comes back as Unknown, so the
// failure policy is decided exactly once, at application time.
type Event interface {
	BlockNumber() uint64
	LogIndex() uint

	registryEvent()
}

// NewGovernance announces the registry's governance address.
type NewGovernance struct {
	Meta
	Governance common.Address
}

// NewRelease registers a vault template for an api version.
type NewRelease struct {
	Meta
	ReleaseID  *big.Int
	Template   common.Address
	APIVersion string
}

// NewVault announces a vault deployment. Experimental marks deployments
// made outside the endorsed release process; they carry a Deployer instead
// of a VaultID but are otherwise identical.
type NewVault struct {
	Meta
	Token        common.Address
	Vault        common.Address
	APIVersion   string
	Experimental bool
	VaultID      *big.Int
	Deployer     common.Address
}

// VaultTagged attaches a free-form tag to a vault.
type VaultTagged struct {
	Meta
	Vault common.Address
	Tag   string
}

// Unknown wraps a log whose kind is not in the handled set.
type Unknown struct {
	Meta
	Name   string
	Topic0 common.Hash
}

func (*NewGovernance) registryEvent() {}
func (*NewRelease) registryEvent()    {}
func (*NewVault) registryEvent()      {}
func (*VaultTagged) registryEvent()   {}
func (*Unknown) registryEvent()       {}

// UnknownEventError reports a registry log outside the handled set. It is
// fatal for the batch carrying it: state derived from a partially
// understood history cannot be trusted.
type UnknownEventError struct {
	Name  string
	Block uint64
	Index uint
}

func (e *UnknownEventError) Error() string {
	name := e.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("unknown registry event %q at block %d log %d", name, e.Block, e.Index)
}
