// Package registry 管理资产记录与登记时的份额发行
package registry

import (
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/internal/core/ledger/tokens"
	"github.com/weisyn/rwaledger/internal/core/ledger/validation"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/types"
)

// Register 登记资产并把全部份额铸给调用者
//
// 仅 admin 可调用。每次调用都会创建新的资产，不存在重复登记检查。
func Register(v *state.State, admin types.Address, call types.CallContext, uri string, value uint64) (*types.Asset, error) {
	if call.Caller != admin {
		return nil, types.NewError(types.ErrOwnerOnly, "only the ledger admin may register assets")
	}
	uri, err := validation.ValidateMetadataURI(uri)
	if err != nil {
		return nil, err
	}
	value, err = validation.ValidateAssetValue(value)
	if err != nil {
		return nil, err
	}

	id, err := v.NextID(state.CounterAsset)
	if err != nil {
		return nil, err
	}
	asset := &types.Asset{
		ID:             id,
		Owner:          call.Caller,
		MetadataURI:    uri,
		AssetValue:     value,
		CreationHeight: call.Height,
	}
	if err := v.PutAsset(asset); err != nil {
		return nil, err
	}
	if err := tokens.Mint(v, id, call.Caller, constants.TokensPerAsset); err != nil {
		return nil, err
	}
	return asset, nil
}

// RecordDividends 资产所有者增加累计分红
//
// 只增加 total-dividends，不涉及资金划转。校验顺序：资产存在 → 所有者 → amount > 0 → 溢出。
func RecordDividends(v *state.State, call types.CallContext, assetID, amount uint64) (*types.Asset, error) {
	asset, err := Asset(v, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Owner != call.Caller {
		return nil, types.NewError(types.ErrOwnerOnly, "only the owner of asset %d may record dividends", assetID)
	}
	if amount == 0 {
		return nil, types.NewError(types.ErrInvalidAmount, "dividend amount must be positive")
	}
	if asset.TotalDividends+amount < asset.TotalDividends {
		return nil, types.NewError(types.ErrInvalidAmount, "total dividends overflow on asset %d", assetID)
	}
	asset.TotalDividends += amount
	if err := v.PutAsset(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Asset 读取资产，不存在时返回 NotFound
func Asset(v *state.State, assetID uint64) (*types.Asset, error) {
	asset, err := v.Asset(assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, types.NewError(types.ErrNotFound, "asset %d not found", assetID)
	}
	return asset, nil
}
