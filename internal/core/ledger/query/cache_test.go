package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoryconfig "github.com/weisyn/rwaledger/internal/config/storage/memory"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/event"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/rwaledger/pkg/constants/events"
	"github.com/weisyn/rwaledger/pkg/types"
)

func newCache(t *testing.T) (*Cache, *event.EventBus) {
	t.Helper()
	store, err := memory.New(memoryconfig.NewFromOptions(&memoryconfig.MemoryOptions{
		Enabled:            true,
		LifeWindow:         time.Minute,
		CleanWindow:        time.Minute,
		MaxEntriesInWindow: 128,
		MaxEntrySize:       256,
		HardMaxCacheSize:   8,
	}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	bus := event.New(nil)
	c, err := New(store, bus, nil)
	require.NoError(t, err)
	return c, bus
}

type loader struct {
	calls int
	asset *types.Asset
	err   error
}

func (l *loader) load() (*types.Asset, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if l.asset == nil {
		return nil, nil
	}
	cp := *l.asset
	return &cp, nil
}

func TestFetch_ReadThrough(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	l := &loader{asset: &types.Asset{ID: 1, AssetValue: 5_000}}

	first, err := Fetch(ctx, c, AssetKey(1), l.load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, AssetKey(1), l.load)
	require.NoError(t, err)

	assert.Equal(t, 1, l.calls)
	assert.Equal(t, first, second)
	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestFetch_AbsentNotCached(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	l := &loader{}

	for i := 0; i < 2; i++ {
		rec, err := Fetch(ctx, c, AssetKey(7), l.load)
		require.NoError(t, err)
		assert.Nil(t, rec)
	}
	assert.Equal(t, 2, l.calls)

	l.asset = &types.Asset{ID: 7}
	rec, err := Fetch(ctx, c, AssetKey(7), l.load)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uint64(7), rec.ID)
}

func TestFetch_LoadErrorPropagates(t *testing.T) {
	c, _ := newCache(t)
	boom := errors.New("disk gone")
	_, err := Fetch(context.Background(), c, AssetKey(1), (&loader{err: boom}).load)
	assert.ErrorIs(t, err, boom)
}

func TestEventsInvalidate(t *testing.T) {
	c, bus := newCache(t)
	ctx := context.Background()

	l := &loader{asset: &types.Asset{ID: 3, TotalDividends: 10}}
	_, err := Fetch(ctx, c, AssetKey(3), l.load)
	require.NoError(t, err)

	l.asset.TotalDividends = 25
	bus.Publish(events.EventTypeDividendsRecorded, &types.LedgerEvent{Type: string(events.EventTypeDividendsRecorded), AssetID: 3})

	rec, err := Fetch(ctx, c, AssetKey(3), l.load)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), rec.TotalDividends)
	assert.Equal(t, 2, l.calls)

	// 其他资产的事件不影响本条目
	bus.Publish(events.EventTypePriceReported, &types.LedgerEvent{AssetID: 4})
	_, err = Fetch(ctx, c, AssetKey(3), l.load)
	require.NoError(t, err)
	assert.Equal(t, 2, l.calls)

	bus.Publish(events.EventTypePriceReported, &types.LedgerEvent{AssetID: 3})
	_, err = Fetch(ctx, c, AssetKey(3), l.load)
	require.NoError(t, err)
	assert.Equal(t, 3, l.calls)
}

func TestVoteInvalidatesProposal(t *testing.T) {
	c, bus := newCache(t)
	ctx := context.Background()
	calls := 0
	load := func() (*types.Proposal, error) {
		calls++
		return &types.Proposal{ID: 2, VotesFor: uint64(calls)}, nil
	}

	p, err := Fetch(ctx, c, ProposalKey(2), load)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p.VotesFor)

	bus.Publish(events.EventTypeVoteCast, &types.LedgerEvent{ProposalID: 2})
	p, err = Fetch(ctx, c, ProposalKey(2), load)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p.VotesFor)
}

func TestNilStorePassesThrough(t *testing.T) {
	c, err := New(nil, nil, nil)
	require.NoError(t, err)
	l := &loader{asset: &types.Asset{ID: 1}}
	for i := 0; i < 3; i++ {
		_, err := Fetch(context.Background(), c, AssetKey(1), l.load)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, l.calls)
	c.Invalidate(AssetKey(1))
}
