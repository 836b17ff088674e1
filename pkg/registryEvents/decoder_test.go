package registryEvents

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDecoder(t *testing.T) *Decoder {
	t.Helper()
	d, err := NewDecoder(zap.NewNop())
	require.NoError(t, err)
	return d
}

func registryABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := RegistryABI()
	require.NoError(t, err)
	return parsed
}

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(common.LeftPadBytes(addr.Bytes(), 32))
}

func packData(t *testing.T, a abi.ABI, event string, values ...any) []byte {
	t.Helper()
	data, err := a.Events[event].Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)
	return data
}

func newReleaseLog(t *testing.T, a abi.ABI, block uint64, index uint, releaseID int64, template common.Address, apiVersion string) types.Log {
	return types.Log{
		Topics:      []common.Hash{a.Events["NewRelease"].ID, common.BigToHash(big.NewInt(releaseID))},
		Data:        packData(t, a, "NewRelease", template, apiVersion),
		BlockNumber: block,
		Index:       index,
	}
}

func newVaultLog(t *testing.T, a abi.ABI, block uint64, index uint, token, vault common.Address, vaultID int64, apiVersion string) types.Log {
	return types.Log{
		Topics: []common.Hash{
			a.Events["NewVault"].ID,
			addressTopic(token),
			common.BigToHash(big.NewInt(vaultID)),
		},
		Data:        packData(t, a, "NewVault", vault, apiVersion),
		BlockNumber: block,
		Index:       index,
	}
}

func TestDecodeLogs_NewRelease(t *testing.T) {
	a := registryABI(t)
	template := common.HexToAddress("0x0001")

	events, err := newTestDecoder(t).DecodeLogs([]types.Log{
		newReleaseLog(t, a, 100, 3, 0, template, "0.3.0"),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	release, ok := events[0].(*NewRelease)
	require.True(t, ok)
	assert.Equal(t, template, release.Template)
	assert.Equal(t, "0.3.0", release.APIVersion)
	assert.Equal(t, 0, release.ReleaseID.Cmp(big.NewInt(0)))
	assert.Equal(t, uint64(100), release.BlockNumber())
	assert.Equal(t, uint(3), release.LogIndex())
}

func TestDecodeLogs_NewVault(t *testing.T) {
	a := registryABI(t)
	token := common.HexToAddress("0x00aa")
	vault := common.HexToAddress("0x00bb")

	events, err := newTestDecoder(t).DecodeLogs([]types.Log{
		newVaultLog(t, a, 120, 0, token, vault, 7, "0.3.0"),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	created, ok := events[0].(*NewVault)
	require.True(t, ok)
	assert.Equal(t, token, created.Token)
	assert.Equal(t, vault, created.Vault)
	assert.Equal(t, "0.3.0", created.APIVersion)
	assert.Equal(t, 0, created.VaultID.Cmp(big.NewInt(7)))
	assert.False(t, created.Experimental)
}

func TestDecodeLogs_NewExperimentalVault(t *testing.T) {
	a := registryABI(t)
	token := common.HexToAddress("0x00aa")
	deployer := common.HexToAddress("0x00cc")
	vault := common.HexToAddress("0x00dd")

	lg := types.Log{
		Topics: []common.Hash{
			a.Events["NewExperimentalVault"].ID,
			addressTopic(token),
			addressTopic(deployer),
		},
		Data:        packData(t, a, "NewExperimentalVault", vault, "0.3.2"),
		BlockNumber: 140,
		Index:       1,
	}

	events, err := newTestDecoder(t).DecodeLogs([]types.Log{lg})
	require.NoError(t, err)

	created, ok := events[0].(*NewVault)
	require.True(t, ok)
	assert.True(t, created.Experimental)
	assert.Equal(t, deployer, created.Deployer)
	assert.Equal(t, vault, created.Vault)
	assert.Equal(t, "0.3.2", created.APIVersion)
}

func TestDecodeLogs_NewGovernance(t *testing.T) {
	a := registryABI(t)
	governance := common.HexToAddress("0xfeed")

	lg := types.Log{
		Topics:      []common.Hash{a.Events["NewGovernance"].ID},
		Data:        packData(t, a, "NewGovernance", governance),
		BlockNumber: 90,
	}

	events, err := newTestDecoder(t).DecodeLogs([]types.Log{lg})
	require.NoError(t, err)

	changed, ok := events[0].(*NewGovernance)
	require.True(t, ok)
	assert.Equal(t, governance, changed.Governance)
}

func TestDecodeLogs_VaultTagged(t *testing.T) {
	a := registryABI(t)
	vault := common.HexToAddress("0x00bb")

	lg := types.Log{
		Topics:      []common.Hash{a.Events["VaultTagged"].ID},
		Data:        packData(t, a, "VaultTagged", vault, "stable"),
		BlockNumber: 150,
		Index:       2,
	}

	events, err := newTestDecoder(t).DecodeLogs([]types.Log{lg})
	require.NoError(t, err)

	tagged, ok := events[0].(*VaultTagged)
	require.True(t, ok)
	assert.Equal(t, vault, tagged.Vault)
	assert.Equal(t, "stable", tagged.Tag)
}

func TestDecodeLogs_UnknownTopic_ReturnsUnknownVariant(t *testing.T) {
	lg := types.Log{
		Topics:      []common.Hash{common.HexToHash("0xdeadbeef")},
		BlockNumber: 200,
		Index:       5,
	}

	events, err := newTestDecoder(t).DecodeLogs([]types.Log{lg})
	require.NoError(t, err)

	unknown, ok := events[0].(*Unknown)
	require.True(t, ok)
	assert.Equal(t, common.HexToHash("0xdeadbeef"), unknown.Topic0)
	assert.Equal(t, uint64(200), unknown.BlockNumber())
}

func TestDecodeLogs_RemovedLog_ReturnsError(t *testing.T) {
	a := registryABI(t)
	lg := newVaultLog(t, a, 120, 0, common.HexToAddress("0x1"), common.HexToAddress("0x2"), 1, "0.3.0")
	lg.Removed = true

	_, err := newTestDecoder(t).DecodeLogs([]types.Log{lg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "removed log")
}

func TestDecodeLogs_PreservesOrder(t *testing.T) {
	a := registryABI(t)
	logs := []types.Log{
		newReleaseLog(t, a, 100, 0, 0, common.HexToAddress("0x1"), "0.3.0"),
		newVaultLog(t, a, 100, 1, common.HexToAddress("0x2"), common.HexToAddress("0x3"), 0, "0.3.0"),
		newVaultLog(t, a, 101, 0, common.HexToAddress("0x4"), common.HexToAddress("0x5"), 1, "0.3.0"),
	}

	events, err := newTestDecoder(t).DecodeLogs(logs)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.IsType(t, &NewRelease{}, events[0])
	assert.IsType(t, &NewVault{}, events[1])
	assert.IsType(t, &NewVault{}, events[2])
	assert.Equal(t, uint64(101), events[2].BlockNumber())
}

func TestUnknownEventError_Message(t *testing.T) {
	err := &UnknownEventError{Name: "VaultReleased", Block: 12, Index: 4}
	assert.Contains(t, err.Error(), "VaultReleased")
	assert.Contains(t, err.Error(), "block 12")

	anon := &UnknownEventError{Block: 1}
	assert.Contains(t, anon.Error(), "unnamed")
}
