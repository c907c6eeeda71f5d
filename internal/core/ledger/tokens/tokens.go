// Package tokens 维护 (资产, 账户) 维度的份额余额
//
// 余额是投票权与分红份额的唯一来源。当前唯一的变更路径是登记时的一次性铸造，
// 因此每个资产的余额总和恒等于 constants.TokensPerAsset。
package tokens

import (
	"fmt"

	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/pkg/types"
)

// Mint 向账户铸造份额，仅供资产登记调用
func Mint(v *state.State, assetID uint64, account types.Address, amount uint64) error {
	if amount == 0 {
		return types.NewError(types.ErrInvalidAmount, "mint amount must be positive")
	}
	bal, err := v.Balance(assetID, account)
	if err != nil {
		return err
	}
	if bal == nil {
		bal = &types.TokenBalance{AssetID: assetID, Account: account}
	}
	if bal.Balance+amount < bal.Balance {
		return types.NewError(types.ErrInvalidAmount, "balance overflow for %s on asset %d", account, assetID)
	}
	bal.Balance += amount
	return v.PutBalance(bal)
}

// BalanceOf 读取余额，无记录时为 0
func BalanceOf(v *state.State, account types.Address, assetID uint64) (uint64, error) {
	bal, err := v.Balance(assetID, account)
	if err != nil {
		return 0, err
	}
	if bal == nil {
		return 0, nil
	}
	return bal.Balance, nil
}

// SupplyOf 汇总资产的全部余额记录
func SupplyOf(v *state.State, assetID uint64) (uint64, error) {
	var total uint64
	err := v.EachBalance(assetID, func(b *types.TokenBalance) error {
		if total+b.Balance < total {
			return fmt.Errorf("资产 %d 余额汇总溢出", assetID)
		}
		total += b.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Holders 返回资产所有非零余额记录，按账户字典序
func Holders(v *state.State, assetID uint64) ([]types.TokenBalance, error) {
	var holders []types.TokenBalance
	err := v.EachBalance(assetID, func(b *types.TokenBalance) error {
		if b.Balance > 0 {
			holders = append(holders, *b)
		}
		return nil
	})
	return holders, err
}
