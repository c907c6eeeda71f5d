package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerconfig "github.com/weisyn/rwaledger/internal/config/ledger"
	memoryconfig "github.com/weisyn/rwaledger/internal/config/storage/memory"
	eventbus "github.com/weisyn/rwaledger/internal/core/infrastructure/event"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/rwaledger/internal/core/ledger/ledgertest"
	"github.com/weisyn/rwaledger/internal/core/ledger/query"
	"github.com/weisyn/rwaledger/internal/core/ledger/registry"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/constants/events"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/rwaledger/pkg/types"
)

type fixture struct {
	engine *Engine
	store  storage.BadgerStore
	bus    *eventbus.EventBus

	mu     sync.Mutex
	events []*types.LedgerEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := ledgertest.NewStore(t)
	bus := eventbus.New(nil)

	mem, err := memory.New(memoryconfig.NewFromOptions(&memoryconfig.MemoryOptions{
		Enabled:            true,
		LifeWindow:         time.Minute,
		CleanWindow:        time.Minute,
		MaxEntriesInWindow: 128,
		MaxEntrySize:       512,
		HardMaxCacheSize:   8,
	}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })

	cache, err := query.New(mem, bus, nil)
	require.NoError(t, err)

	opts := &ledgerconfig.LedgerOptions{
		Admin:               ledgertest.Admin,
		ComplianceAuthority: ledgertest.Authority,
		Oracles:             []types.Address{ledgertest.Oracle},
		PriceMaxAge:         144,
	}
	eng, err := New(store, bus, cache, opts, nil)
	require.NoError(t, err)

	f := &fixture{engine: eng, store: store, bus: bus}
	for _, typ := range events.All() {
		require.NoError(t, bus.Subscribe(typ, f.record))
	}
	return f
}

func (f *fixture) record(e *types.LedgerEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fixture) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

func (f *fixture) approve(t *testing.T, height uint64, accounts ...types.Address) {
	t.Helper()
	for _, a := range accounts {
		require.NoError(t, f.engine.SetKycStatus(context.Background(), ledgertest.At(ledgertest.Authority, height), a, true, 2, 10_000))
	}
}

// move 直接在存储中搬移份额；账本没有转账入口
func (f *fixture) move(t *testing.T, assetID uint64, to types.Address, amount uint64) {
	t.Helper()
	require.NoError(t, ledgertest.Update(t, f.store, func(v *state.State) error {
		return ledgertest.Move(v, assetID, ledgertest.Admin, to, amount)
	}))
}

func (f *fixture) assertSupply(t *testing.T, assetID uint64) {
	t.Helper()
	supply, err := f.engine.GetSupply(context.Background(), assetID)
	require.NoError(t, err)
	assert.Equal(t, constants.TokensPerAsset, supply)
}

func TestDividendScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 1), "ipfs://tower-a", 5_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	balance, err := f.engine.GetBalance(ctx, ledgertest.Admin, 1)
	require.NoError(t, err)
	assert.Equal(t, constants.TokensPerAsset, balance)

	f.move(t, 1, ledgertest.Alice, 10_000)
	f.approve(t, 2, ledgertest.Alice)

	asset, err := f.engine.GetAssetInfo(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, asset.TotalDividends)

	require.NoError(t, f.engine.RecordDividends(ctx, ledgertest.At(ledgertest.Admin, 3), 1, 10_000))
	asset, err = f.engine.GetAssetInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), asset.TotalDividends, "cached asset invalidated by dividends.recorded")

	require.NoError(t, f.engine.ClaimDividends(ctx, ledgertest.At(ledgertest.Alice, 4), 1))
	last, err := f.engine.GetLastClaim(ctx, 1, ledgertest.Alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), last)

	require.NoError(t, f.engine.ClaimDividends(ctx, ledgertest.At(ledgertest.Alice, 5), 1))

	f.mu.Lock()
	var claimed []uint64
	for _, e := range f.events {
		if e.Type == string(events.EventTypeDividendsClaimed) {
			claimed = append(claimed, e.Amount)
		}
	}
	f.mu.Unlock()
	assert.Equal(t, []uint64{1_000, 0}, claimed)
	f.assertSupply(t, 1)
}

func TestGovernanceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 1), "ipfs://tower-a", 5_000_000)
	require.NoError(t, err)
	f.move(t, 1, ledgertest.Alice, 20_000)
	f.move(t, 1, ledgertest.Bob, 5_000)
	f.approve(t, 2, ledgertest.Alice, ledgertest.Bob)

	pid, err := f.engine.CreateProposal(ctx, ledgertest.At(ledgertest.Alice, 100), 1, "Sell tower A", 50, 30_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), pid)

	p, err := f.engine.GetProposal(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), p.StartHeight)
	assert.Equal(t, uint64(150), p.EndHeight)

	err = f.engine.Vote(ctx, ledgertest.At(ledgertest.Bob, 151), pid, true, 5_000)
	assert.True(t, types.Is(err, types.ErrVoteEnded))

	require.NoError(t, f.engine.Vote(ctx, ledgertest.At(ledgertest.Bob, 150), pid, false, 5_000))
	p, err = f.engine.GetProposal(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000), p.VotesAgainst, "cached proposal invalidated by vote.cast")

	vote, err := f.engine.GetVote(ctx, pid, ledgertest.Bob)
	require.NoError(t, err)
	require.NotNil(t, vote)
	assert.False(t, vote.VoteFor)

	err = f.engine.Vote(ctx, ledgertest.At(ledgertest.Bob, 120), pid, true, 1)
	assert.True(t, types.Is(err, types.ErrVoteExists))
	f.assertSupply(t, 1)
}

func TestSequentialIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		id, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, want), "ipfs://asset", 1_000)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	_, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Alice, 4), "ipfs://asset", 1_000)
	assert.True(t, types.Is(err, types.ErrOwnerOnly))
	_, err = f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 4), "ipfs://asset", 999)
	assert.True(t, types.Is(err, types.ErrInvalidValue))

	id, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 5), "ipfs://asset", 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id, "failed registrations do not consume ids")

	assets, err := f.engine.ListAssets(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 4)
	for i, a := range assets {
		assert.Equal(t, uint64(i+1), a.ID)
		f.assertSupply(t, a.ID)
	}
}

func TestFailedCallLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	call := ledgertest.At(ledgertest.Admin, 1)

	err := f.engine.mutate(ctx, "test", call, func(v *state.State) (*types.LedgerEvent, error) {
		if _, err := registry.Register(v, ledgertest.Admin, call, "ipfs://ghost", 2_000); err != nil {
			return nil, err
		}
		return nil, types.NewError(types.ErrInvalidAmount, "late failure")
	})
	require.True(t, types.Is(err, types.ErrInvalidAmount))

	asset, err := f.engine.GetAssetInfo(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, asset)
	balance, err := f.engine.GetBalance(ctx, ledgertest.Admin, 1)
	require.NoError(t, err)
	assert.Zero(t, balance)
	ledgertest.View(t, f.store, func(v *state.State) error {
		cur, err := v.Counter(state.CounterAsset)
		require.NoError(t, err)
		assert.Zero(t, cur)
		return nil
	})
	assert.Empty(t, f.eventTypes(), "failed calls publish nothing")

	id, err := f.engine.RegisterAsset(ctx, call, "ipfs://real", 2_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestCallerAddressValidatedFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, caller := range []types.Address{"", ledgertest.Short, "0OIl", "3o4yHBX1hECygRE286s5UPtktyjvP"} {
		call := ledgertest.At(caller, 1)
		_, err := f.engine.RegisterAsset(ctx, call, "", 0)
		assert.True(t, types.Is(err, types.ErrInvalidAddress), "caller %q", caller)
		assert.True(t, types.Is(f.engine.ClaimDividends(ctx, call, 99), types.ErrInvalidAddress))
		assert.True(t, types.Is(f.engine.Vote(ctx, call, 99, true, 0), types.ErrInvalidAddress))
	}

	_, err := f.engine.GetBalance(ctx, ledgertest.Short, 1)
	assert.True(t, types.Is(err, types.ErrInvalidAddress))
}

func TestReadAccessorsReturnAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	asset, err := f.engine.GetAssetInfo(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, asset)
	p, err := f.engine.GetProposal(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, p)
	vote, err := f.engine.GetVote(ctx, 42, ledgertest.Alice)
	require.NoError(t, err)
	assert.Nil(t, vote)
	feed, err := f.engine.GetPriceFeed(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, feed)
	kyc, err := f.engine.GetKycStatus(ctx, ledgertest.Alice)
	require.NoError(t, err)
	assert.Nil(t, kyc)
	last, err := f.engine.GetLastClaim(ctx, 42, ledgertest.Alice)
	require.NoError(t, err)
	assert.Zero(t, last)
	supply, err := f.engine.GetSupply(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, supply)
}

func TestPriceFeedFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 1), "ipfs://tower-a", 5_000_000)
	require.NoError(t, err)

	_, err = f.engine.CheckPriceFresh(ctx, 1, 10)
	assert.True(t, types.Is(err, types.ErrPriceExpired))

	err = f.engine.ReportPrice(ctx, ledgertest.At(ledgertest.Outsider, 10), 1, 100, 2)
	assert.True(t, types.Is(err, types.ErrNotAuthorized))

	require.NoError(t, f.engine.ReportPrice(ctx, ledgertest.At(ledgertest.Oracle, 10), 1, 12_345, 2))
	feed, err := f.engine.GetPriceFeed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(12_345), feed.Price)

	require.NoError(t, f.engine.ReportPrice(ctx, ledgertest.At(ledgertest.Oracle, 20), 1, 13_000, 2))
	feed, err = f.engine.GetPriceFeed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(13_000), feed.Price, "cached feed invalidated by price.reported")
	asset, err := f.engine.GetAssetInfo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), asset.LastPriceUpdate)

	_, err = f.engine.CheckPriceFresh(ctx, 1, 20+144)
	assert.NoError(t, err)
	_, err = f.engine.CheckPriceFresh(ctx, 1, 20+145)
	assert.True(t, types.Is(err, types.ErrPriceExpired))
}

func TestKycGatesAndEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.engine.SetKycStatus(ctx, ledgertest.At(ledgertest.Admin, 1), ledgertest.Alice, true, 1, 100)
	assert.True(t, types.Is(err, types.ErrOwnerOnly), "only the compliance authority writes kyc")

	f.approve(t, 1, ledgertest.Alice)
	status, err := f.engine.GetKycStatus(ctx, ledgertest.Alice)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.IsApproved)
	assert.Equal(t, uint64(2), status.Level)

	f.mu.Lock()
	require.Len(t, f.events, 1)
	e := f.events[0]
	f.mu.Unlock()
	assert.Equal(t, string(events.EventTypeKycUpdated), e.Type)
	assert.Equal(t, ledgertest.Alice, e.Account)
	assert.Equal(t, ledgertest.Authority, e.Caller)
	assert.Equal(t, uint64(1), e.Height)
	assert.NotEmpty(t, e.ID)
}

func TestMetricsRecordResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	okBefore := testutil.ToFloat64(ledgerCallsTotal.WithLabelValues(opRegisterAsset, resultOK))
	deniedBefore := testutil.ToFloat64(ledgerCallsTotal.WithLabelValues(opRegisterAsset, "OwnerOnly"))

	_, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 1), "ipfs://a", 1_000)
	require.NoError(t, err)
	_, err = f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Bob, 1), "ipfs://a", 1_000)
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ledgerCallsTotal.WithLabelValues(opRegisterAsset, resultOK)))
	assert.Equal(t, deniedBefore+1, testutil.ToFloat64(ledgerCallsTotal.WithLabelValues(opRegisterAsset, "OwnerOnly")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ledgerAssets))
}

func TestConcurrentClaimsKeepSupply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.RegisterAsset(ctx, ledgertest.At(ledgertest.Admin, 1), "ipfs://a", 1_000)
	require.NoError(t, err)
	holders := []types.Address{ledgertest.Alice, ledgertest.Bob, ledgertest.Carol, ledgertest.Dave}
	for _, h := range holders {
		f.move(t, 1, h, 10_000)
	}
	f.approve(t, 1, holders...)
	require.NoError(t, f.engine.RecordDividends(ctx, ledgertest.At(ledgertest.Admin, 2), 1, 1_000_000))

	var wg sync.WaitGroup
	for _, h := range holders {
		wg.Add(1)
		go func(h types.Address) {
			defer wg.Done()
			for i := uint64(0); i < 5; i++ {
				assert.NoError(t, f.engine.ClaimDividends(ctx, ledgertest.At(h, 3+i), 1))
			}
		}(h)
	}
	wg.Wait()

	for _, h := range holders {
		last, err := f.engine.GetLastClaim(ctx, 1, h)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000), last)
	}
	f.assertSupply(t, 1)
}
