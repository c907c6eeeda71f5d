// Package ledgertest 提供账本组件测试共用的地址与内存存储
package ledgertest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	badgerconfig "github.com/weisyn/rwaledger/internal/config/storage/badger"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/rwaledger/pkg/types"
)

// 固定的 20 字节 base58 测试地址
const (
	Admin     types.Address = "2xTaAjapBQGCKVbzoggRh9FNHUG7"
	Alice     types.Address = "cRo2vgWSS8SWSUEo1qCRfKF4JQP"
	Bob       types.Address = "2op6XfTNTdLrkGnnP2LNLKYZN2K5"
	Carol     types.Address = "24XwayUQjapRSVatudbCT2GQnzKb"
	Dave      types.Address = "2N7s4vbyCWvwiFvu3vvZoaVxTeb6"
	Oracle    types.Address = "32yxGwtjz6nKZmXUNXvz4k1dxriS"
	Authority types.Address = "2zveVaqragTHBuQGrQZtPrqSAVq5"
	Outsider  types.Address = "2v5ZCcPok2hZ7Bx2K1Cp7vnbxg3e"

	// Short 合法 base58，但只有 19 字节
	Short types.Address = "9KWLWsCiDdVBxBCu9Pcq34h3W6"
)

// NewStore 创建内存模式 BadgerDB，测试结束时关闭
func NewStore(t *testing.T) storage.BadgerStore {
	t.Helper()
	store, err := badger.New(badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		InMemory:     true,
		MemTableSize: 16 << 20,
	}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Update 在读写事务中执行 fn，返回 fn 的错误（失败时事务已丢弃）
func Update(t *testing.T, store storage.BadgerStore, fn func(v *state.State) error) error {
	t.Helper()
	return store.RunInTransaction(context.Background(), func(tx storage.BadgerTransaction) error {
		return fn(state.New(tx))
	})
}

// View 在只读事务中执行 fn
func View(t *testing.T, store storage.BadgerStore, fn func(v *state.State) error) {
	t.Helper()
	require.NoError(t, store.View(context.Background(), func(tx storage.BadgerTransaction) error {
		return fn(state.New(tx))
	}))
}

// At 构造调用上下文
func At(caller types.Address, height uint64) types.CallContext {
	return types.CallContext{Caller: caller, Height: height}
}

// Approve 直接写入已批准的 KYC 记录
func Approve(v *state.State, account types.Address, expiry uint64) error {
	return v.PutKyc(&types.KycStatus{Account: account, IsApproved: true, Level: 1, Expiry: expiry})
}

// Move 在两个账户之间搬移份额，保持资产总量不变
//
// 账本没有转账入口，测试用它构造持仓分布。
func Move(v *state.State, assetID uint64, from, to types.Address, amount uint64) error {
	src, err := v.Balance(assetID, from)
	if err != nil {
		return err
	}
	if src == nil || src.Balance < amount {
		return fmt.Errorf("insufficient balance for %s", from)
	}
	dst, err := v.Balance(assetID, to)
	if err != nil {
		return err
	}
	if dst == nil {
		dst = &types.TokenBalance{AssetID: assetID, Account: to}
	}
	src.Balance -= amount
	dst.Balance += amount
	if err := v.PutBalance(src); err != nil {
		return err
	}
	return v.PutBalance(dst)
}
