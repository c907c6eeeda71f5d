// Package dividend 实现分红领取记账
//
// 领取额 = floor(balance * (total - last) / TokensPerAsset)。
// 取整余数不结转，每次领取后记录直接追平到资产当前的 total-dividends。
package dividend

import (
	"math/bits"

	"github.com/weisyn/rwaledger/internal/core/ledger/compliance"
	"github.com/weisyn/rwaledger/internal/core/ledger/registry"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/internal/core/ledger/tokens"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/types"
)

// Claimable 计算可领取金额，乘积按 128 位计算
func Claimable(balance, total, lastClaimed uint64) (uint64, error) {
	if total < lastClaimed {
		return 0, types.NewError(types.ErrInvalidAmount, "total dividends %d below last claimed %d", total, lastClaimed)
	}
	hi, lo := bits.Mul64(balance, total-lastClaimed)
	if hi >= constants.TokensPerAsset {
		// 商超出 64 位；balance 不超过总份额时不可达
		return 0, types.NewError(types.ErrInvalidAmount, "claimable amount overflows")
	}
	quo, _ := bits.Div64(hi, lo, constants.TokensPerAsset)
	return quo, nil
}

// Claim 调用者领取分红，返回本次可领金额（可能为 0）
//
// 校验顺序：合规 → 资产存在 → total >= last-claimed。
func Claim(v *state.State, call types.CallContext, assetID uint64) (uint64, error) {
	if err := compliance.CheckCompliant(v, call.Caller, call.Height); err != nil {
		return 0, err
	}
	asset, err := registry.Asset(v, assetID)
	if err != nil {
		return 0, err
	}
	balance, err := tokens.BalanceOf(v, call.Caller, assetID)
	if err != nil {
		return 0, err
	}
	last, err := LastClaim(v, assetID, call.Caller)
	if err != nil {
		return 0, err
	}
	amount, err := Claimable(balance, asset.TotalDividends, last)
	if err != nil {
		return 0, err
	}

	if err := v.PutClaim(&types.DividendClaim{
		AssetID:           assetID,
		Account:           call.Caller,
		LastClaimedAmount: asset.TotalDividends,
	}); err != nil {
		return 0, err
	}
	return amount, nil
}

// LastClaim 读取上次领取时的累计分红快照，无记录时为 0
func LastClaim(v *state.State, assetID uint64, account types.Address) (uint64, error) {
	claim, err := v.Claim(assetID, account)
	if err != nil {
		return 0, err
	}
	if claim == nil {
		return 0, nil
	}
	return claim.LastClaimedAmount, nil
}
