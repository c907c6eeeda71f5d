// Package pricefeed 实现价格时效门控与预言机上报
package pricefeed

import (
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/types"
)

// CheckFresh 返回在高度 height 仍然有效的报价
//
// 没有报价，或 height - last-updated > maxAge 时返回 PriceExpired。
func CheckFresh(v *state.State, assetID, height, maxAge uint64) (*types.PriceFeed, error) {
	feed, err := v.Price(assetID)
	if err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, types.NewError(types.ErrPriceExpired, "asset %d has no price feed", assetID)
	}
	if age := feed.Age(height); age > maxAge {
		return nil, types.NewError(types.ErrPriceExpired, "price for asset %d is %d heights old, max %d", assetID, age, maxAge)
	}
	return feed, nil
}

// OracleSet 判断身份是否为受信预言机
type OracleSet interface {
	IsOracle(addr types.Address) bool
}

// Report 预言机上报资产价格
//
// 校验顺序：调用者为预言机 → 资产存在 → price > 0 → decimals <= MaxPriceDecimals。
// 写入后报价的 last-updated 与资产的 last-price-update 均为当前高度。
func Report(v *state.State, oracles OracleSet, call types.CallContext, assetID, price, decimals uint64) (*types.PriceFeed, error) {
	if !oracles.IsOracle(call.Caller) {
		return nil, types.NewError(types.ErrNotAuthorized, "%s is not a configured oracle", call.Caller)
	}
	asset, err := v.Asset(assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, types.NewError(types.ErrNotFound, "asset %d not found", assetID)
	}
	if price == 0 {
		return nil, types.NewError(types.ErrInvalidAmount, "price must be positive")
	}
	if decimals > constants.MaxPriceDecimals {
		return nil, types.NewError(types.ErrInvalidValue, "decimals %d exceeds %d", decimals, constants.MaxPriceDecimals)
	}

	feed := &types.PriceFeed{
		AssetID:     assetID,
		Price:       price,
		Decimals:    decimals,
		LastUpdated: call.Height,
		Oracle:      call.Caller,
	}
	if err := v.PutPrice(feed); err != nil {
		return nil, err
	}
	asset.LastPriceUpdate = call.Height
	if err := v.PutAsset(asset); err != nil {
		return nil, err
	}
	return feed, nil
}
