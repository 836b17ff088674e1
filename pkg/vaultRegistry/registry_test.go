package vaultRegistry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/yield-labs/vault-registry/pkg/mocks"
	"github.com/yield-labs/vault-registry/pkg/registryEvents"
)

var registryAddr = common.HexToAddress("0xE15461B18EE31b7379019Dc523231C57d1Cbc18c")

type registryHarness struct {
	source   *mocks.MockIEventSource
	names    *mocks.MockINameResolver
	resolver *mocks.MockIContractResolver
	heights  chan uint64
	registry *Registry
}

func newHarness(ctrl *gomock.Controller) *registryHarness {
	h := &registryHarness{
		source:   mocks.NewMockIEventSource(ctrl),
		names:    mocks.NewMockINameResolver(ctrl),
		resolver: mocks.NewMockIContractResolver(ctrl),
		heights:  make(chan uint64, 8),
	}
	h.registry = NewRegistry(h.source, h.names, h.resolver, nil, nil, &RegistryConfig{
		DeployBlock:       100,
		ConfirmationDepth: 10,
	}, zap.NewNop())
	return h
}

// expectStart wires the three synchronous Start calls: name resolution,
// historical fetch, and the height subscription backed by h.heights.
func (h *registryHarness) expectStart(history []registryEvents.Event) {
	h.names.EXPECT().Resolve(gomock.Any(), DefaultRegistryName).Return(registryAddr, nil)
	h.source.EXPECT().FetchHistoricalEvents(gomock.Any(), registryAddr).Return(history, nil)
	h.source.EXPECT().SubscribeNewHeights(gomock.Any(), uint64(10)).Return((<-chan uint64)(h.heights), nil)
}

func TestStart_ReplaysHistoryAndServesReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.resolver.EXPECT().Resolve(gomock.Any(), templateAddr).Return(newTemplateContract(t, templateAddr), nil)
	h.resolver.EXPECT().ResolveWithABI(vaultAddr, gomock.Any()).Return(newVaultContract(t, vaultAddr, "yvDAI"), nil)
	h.expectStart([]registryEvents.Event{
		releaseEvent(110, "0.3.0"),
		vaultEvent(115, "0.3.0"),
		tagEvent(120, "stable"),
	})

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	assert.Equal(t, registryAddr, h.registry.Address())
	assert.Equal(t, uint64(120), h.registry.LastProcessedBlock())

	vaultList := h.registry.ListVaults()
	require.Len(t, vaultList, 1)
	assert.Equal(t, "yvDAI v0.3.0", vaultList[0].DisplayName())

	byName, err := h.registry.VaultByName("yvDAI v0.3.0")
	require.NoError(t, err)
	assert.Same(t, vaultList[0], byName)

	byAddr, err := h.registry.GetVault(vaultAddr)
	require.NoError(t, err)
	assert.Same(t, vaultList[0], byAddr)

	name, ok := h.registry.GetName(vaultAddr)
	require.True(t, ok)
	assert.Equal(t, "yvDAI v0.3.0", name)

	tag, ok := h.registry.GetTag(vaultAddr)
	require.True(t, ok)
	assert.Equal(t, "stable", tag)

	releases := h.registry.Releases()
	require.Contains(t, releases, "0.3.0")
}

func TestStart_EmptyHistory_CursorAtDeployBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.expectStart(nil)

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	assert.Equal(t, uint64(100), h.registry.LastProcessedBlock())
	assert.Empty(t, h.registry.ListVaults())

	_, ok := h.registry.Governance()
	assert.False(t, ok)

	_, err := h.registry.GetVault(vaultAddr)
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestStart_VaultBeforeRelease_Fails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.names.EXPECT().Resolve(gomock.Any(), DefaultRegistryName).Return(registryAddr, nil)
	h.source.EXPECT().FetchHistoricalEvents(gomock.Any(), registryAddr).Return([]registryEvents.Event{
		vaultEvent(110, "0.3.0"),
	}, nil)

	err := h.registry.Start(context.Background())
	require.Error(t, err)

	var missing *MissingReleaseError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "0.3.0", missing.APIVersion)

	select {
	case <-h.registry.Done():
	default:
		t.Fatal("Done should be closed after a failed Start")
	}
	assert.ErrorAs(t, h.registry.Err(), &missing)
}

func TestStart_NameResolutionError_Fails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.names.EXPECT().Resolve(gomock.Any(), DefaultRegistryName).Return(common.Address{}, fmt.Errorf("no resolver set"))

	err := h.registry.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultRegistryName)

	select {
	case <-h.registry.Done():
	default:
		t.Fatal("Done should be closed after a failed Start")
	}
}

func TestStart_SubscribeFailure_Fails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.names.EXPECT().Resolve(gomock.Any(), DefaultRegistryName).Return(registryAddr, nil)
	h.source.EXPECT().FetchHistoricalEvents(gomock.Any(), registryAddr).Return(nil, nil)
	h.source.EXPECT().SubscribeNewHeights(gomock.Any(), uint64(10)).Return(nil, fmt.Errorf("rpc unavailable"))

	err := h.registry.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribe")
}

func TestStart_CalledTwice_Fails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.expectStart(nil)

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	err := h.registry.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestWatch_AdvancesCursorOnEmptyRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.expectStart(nil)
	h.source.EXPECT().FetchLogs(gomock.Any(), registryAddr, uint64(101), uint64(150)).Return([]types.Log{}, nil)
	h.source.EXPECT().DecodeLogs(gomock.Any()).Return(nil, nil)

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	h.heights <- 150
	require.Eventually(t, func() bool {
		return h.registry.LastProcessedBlock() == 150
	}, time.Second, 5*time.Millisecond)
}

func TestWatch_AppliesEventsAtConfirmedHeight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.resolver.EXPECT().Resolve(gomock.Any(), templateAddr).Return(newTemplateContract(t, templateAddr), nil)
	h.resolver.EXPECT().ResolveWithABI(vaultAddr, gomock.Any()).Return(newVaultContract(t, vaultAddr, "yvDAI"), nil)
	h.expectStart([]registryEvents.Event{releaseEvent(110, "0.3.0")})

	rawLogs := []types.Log{{BlockNumber: 130, Index: 0}}
	h.source.EXPECT().FetchLogs(gomock.Any(), registryAddr, uint64(111), uint64(140)).Return(rawLogs, nil)
	h.source.EXPECT().DecodeLogs(rawLogs).Return([]registryEvents.Event{vaultEvent(130, "0.3.0")}, nil)

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	require.Empty(t, h.registry.ListVaults())

	h.heights <- 140
	require.Eventually(t, func() bool {
		return len(h.registry.ListVaults()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(140), h.registry.LastProcessedBlock())
}

func TestWatch_SkipsAlreadyProcessedHeights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.resolver.EXPECT().Resolve(gomock.Any(), templateAddr).Return(newTemplateContract(t, templateAddr), nil)
	h.expectStart([]registryEvents.Event{releaseEvent(120, "0.3.0")})

	// Only the height past the cursor reaches the source.
	h.source.EXPECT().FetchLogs(gomock.Any(), registryAddr, uint64(121), uint64(125)).Return([]types.Log{}, nil)
	h.source.EXPECT().DecodeLogs(gomock.Any()).Return(nil, nil)

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	h.heights <- 120
	h.heights <- 125
	require.Eventually(t, func() bool {
		return h.registry.LastProcessedBlock() == 125
	}, time.Second, 5*time.Millisecond)
}

func TestWatch_FaultKeepsLastGoodState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.resolver.EXPECT().Resolve(gomock.Any(), templateAddr).Return(newTemplateContract(t, templateAddr), nil)
	h.expectStart([]registryEvents.Event{releaseEvent(110, "0.3.0")})

	h.source.EXPECT().FetchLogs(gomock.Any(), registryAddr, uint64(111), uint64(140)).Return([]types.Log{{BlockNumber: 135}}, nil)
	h.source.EXPECT().DecodeLogs(gomock.Any()).Return([]registryEvents.Event{
		&registryEvents.Unknown{Meta: meta(135, 0), Name: "VaultRemoved"},
	}, nil)

	require.NoError(t, h.registry.Start(context.Background()))

	h.heights <- 140
	err := h.registry.Wait()
	require.Error(t, err)

	var unknown *registryEvents.UnknownEventError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "VaultRemoved", unknown.Name)

	// The failed batch left no trace: cursor and reads are as of block 110.
	assert.Equal(t, uint64(110), h.registry.LastProcessedBlock())
	assert.Contains(t, h.registry.Releases(), "0.3.0")
	assert.ErrorAs(t, h.registry.Err(), &unknown)
}

func TestClose_StopsWatchCleanly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.expectStart(nil)

	require.NoError(t, h.registry.Start(context.Background()))
	require.NoError(t, h.registry.Close())
	assert.NoError(t, h.registry.Err())

	// Closing again is a no-op.
	require.NoError(t, h.registry.Close())

	// State stays readable after shutdown.
	assert.Equal(t, uint64(100), h.registry.LastProcessedBlock())
}

func TestClose_BeforeStart_IsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	require.NoError(t, h.registry.Close())
}

func TestReads_ConcurrentWithWatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)
	h.expectStart(nil)
	h.source.EXPECT().FetchLogs(gomock.Any(), registryAddr, gomock.Any(), gomock.Any()).Return([]types.Log{}, nil).AnyTimes()
	h.source.EXPECT().DecodeLogs(gomock.Any()).Return(nil, nil).AnyTimes()

	require.NoError(t, h.registry.Start(context.Background()))
	defer h.registry.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.registry.ListVaults()
				h.registry.LastProcessedBlock()
				h.registry.Tags()
			}
		}()
	}

	go func() {
		for height := uint64(101); height <= 120; height++ {
			h.heights <- height
		}
	}()

	wg.Wait()
	require.Eventually(t, func() bool {
		return h.registry.LastProcessedBlock() == 120
	}, time.Second, 5*time.Millisecond)
}
