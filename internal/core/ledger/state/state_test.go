package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/rwaledger/internal/core/ledger/ledgertest"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/pkg/types"
)

func TestNextID_SequentialFromOne(t *testing.T) {
	store := ledgertest.NewStore(t)

	var ids []uint64
	for i := 0; i < 3; i++ {
		require.NoError(t, ledgertest.Update(t, store, func(v *state.State) error {
			id, err := v.NextID(state.CounterAsset)
			ids = append(ids, id)
			return err
		}))
	}
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	// 计数器彼此独立
	require.NoError(t, ledgertest.Update(t, store, func(v *state.State) error {
		id, err := v.NextID(state.CounterProposal)
		assert.Equal(t, uint64(1), id)
		return err
	}))
}

func TestNextID_RolledBackWithCall(t *testing.T) {
	store := ledgertest.NewStore(t)
	failed := errors.New("call failed")

	err := ledgertest.Update(t, store, func(v *state.State) error {
		if _, err := v.NextID(state.CounterAsset); err != nil {
			return err
		}
		return failed
	})
	require.ErrorIs(t, err, failed)

	ledgertest.View(t, store, func(v *state.State) error {
		cur, err := v.Counter(state.CounterAsset)
		require.NoError(t, err)
		assert.Zero(t, cur, "failed call must not consume an id")
		return nil
	})
}

func TestRecords_AbsentReadsNil(t *testing.T) {
	store := ledgertest.NewStore(t)
	ledgertest.View(t, store, func(v *state.State) error {
		a, err := v.Asset(1)
		require.NoError(t, err)
		assert.Nil(t, a)
		b, err := v.Balance(1, ledgertest.Alice)
		require.NoError(t, err)
		assert.Nil(t, b)
		vote, err := v.Vote(1, ledgertest.Alice)
		require.NoError(t, err)
		assert.Nil(t, vote)
		return nil
	})
}

func TestEachBalance_ScopedToAsset(t *testing.T) {
	store := ledgertest.NewStore(t)
	require.NoError(t, ledgertest.Update(t, store, func(v *state.State) error {
		for _, b := range []types.TokenBalance{
			{AssetID: 1, Account: ledgertest.Alice, Balance: 10},
			{AssetID: 1, Account: ledgertest.Bob, Balance: 20},
			{AssetID: 10, Account: ledgertest.Alice, Balance: 99},
			{AssetID: 11, Account: ledgertest.Carol, Balance: 7},
		} {
			b := b
			if err := v.PutBalance(&b); err != nil {
				return err
			}
		}
		return nil
	}))

	ledgertest.View(t, store, func(v *state.State) error {
		var sum uint64
		require.NoError(t, v.EachBalance(1, func(b *types.TokenBalance) error {
			assert.Equal(t, uint64(1), b.AssetID)
			sum += b.Balance
			return nil
		}))
		assert.Equal(t, uint64(30), sum)
		return nil
	})
}

func TestEachAsset_OrderedByID(t *testing.T) {
	store := ledgertest.NewStore(t)
	require.NoError(t, ledgertest.Update(t, store, func(v *state.State) error {
		for _, id := range []uint64{10, 2, 1} {
			if err := v.PutAsset(&types.Asset{ID: id}); err != nil {
				return err
			}
		}
		return nil
	}))

	ledgertest.View(t, store, func(v *state.State) error {
		var ids []uint64
		require.NoError(t, v.EachAsset(func(a *types.Asset) error {
			ids = append(ids, a.ID)
			return nil
		}))
		assert.Equal(t, []uint64{1, 2, 10}, ids)
		return nil
	})
}
