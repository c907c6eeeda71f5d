package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/rwaledger/pkg/constants/events"
	"github.com/weisyn/rwaledger/pkg/types"
)

func TestEventBus_SyncDelivery(t *testing.T) {
	bus := New(nil)

	var got *types.LedgerEvent
	require.NoError(t, bus.Subscribe(events.EventTypeAssetRegistered, func(e *types.LedgerEvent) {
		got = e
	}))
	assert.True(t, bus.HasCallback(events.EventTypeAssetRegistered))
	assert.False(t, bus.HasCallback(events.EventTypeVoteCast))

	bus.Publish(events.EventTypeAssetRegistered, &types.LedgerEvent{ID: "e1", AssetID: 1})
	require.NotNil(t, got, "同步订阅在 Publish 返回前执行")
	assert.Equal(t, uint64(1), got.AssetID)
}

func TestEventBus_AsyncDelivery(t *testing.T) {
	bus := New(nil)

	var count atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)
	require.NoError(t, bus.SubscribeAsync(events.EventTypeVoteCast, func(e *types.LedgerEvent) {
		count.Add(1)
		wg.Done()
	}, true))

	for i := 0; i < 3; i++ {
		bus.Publish(events.EventTypeVoteCast, &types.LedgerEvent{ProposalID: uint64(i)})
	}
	wg.Wait()
	bus.WaitAsync()
	assert.Equal(t, int32(3), count.Load())
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New(nil)

	calls := 0
	handler := func(e *types.LedgerEvent) { calls++ }
	require.NoError(t, bus.Subscribe(events.EventTypeKycUpdated, handler))
	bus.Publish(events.EventTypeKycUpdated, &types.LedgerEvent{})
	require.NoError(t, bus.Unsubscribe(events.EventTypeKycUpdated, handler))
	bus.Publish(events.EventTypeKycUpdated, &types.LedgerEvent{})

	assert.Equal(t, 1, calls)
}

func TestEventBus_StopDropsEvents(t *testing.T) {
	bus := New(nil)

	calls := 0
	require.NoError(t, bus.Subscribe(events.EventTypePriceReported, func(e *types.LedgerEvent) { calls++ }))
	bus.Publish(events.EventTypePriceReported, &types.LedgerEvent{})
	bus.Stop()
	bus.Stop()
	bus.Publish(events.EventTypePriceReported, &types.LedgerEvent{})

	assert.Equal(t, 1, calls)
	published, dropped := bus.Stats()
	assert.Equal(t, uint64(1), published)
	assert.Equal(t, uint64(1), dropped)
}
