// Package ledger 定义账本引擎对外暴露的入口
//
// 变更类入口接收宿主提供的 CallContext（调用者与高度），失败时不留下任何状态改动。
// 只读入口对合法键从不失败：记录不存在时返回 nil 或 0。
package ledger

import (
	"context"

	"github.com/weisyn/rwaledger/pkg/types"
)

// Ledger 账本引擎接口
type Ledger interface {
	// ========== 变更入口 ==========

	// RegisterAsset 登记资产并把全部份额铸给管理员，返回资产 ID
	RegisterAsset(ctx context.Context, call types.CallContext, metadataURI string, assetValue uint64) (uint64, error)

	// ClaimDividends 领取调用者在该资产上的全部可领分红
	ClaimDividends(ctx context.Context, call types.CallContext, assetID uint64) error

	// CreateProposal 创建提案，返回提案 ID
	CreateProposal(ctx context.Context, call types.CallContext, assetID uint64, title string, duration, minimumVotes uint64) (uint64, error)

	// Vote 以 amount 份额投票
	Vote(ctx context.Context, call types.CallContext, proposalID uint64, voteFor bool, amount uint64) error

	// ========== 宿主绑定 ==========

	// SetKycStatus 合规机构写入账户 KYC 状态
	SetKycStatus(ctx context.Context, call types.CallContext, account types.Address, approved bool, level, expiry uint64) error

	// ReportPrice 预言机上报资产价格
	ReportPrice(ctx context.Context, call types.CallContext, assetID, price, decimals uint64) error

	// RecordDividends 资产所有者增加累计分红
	RecordDividends(ctx context.Context, call types.CallContext, assetID, amount uint64) error

	// ========== 只读入口 ==========

	GetAssetInfo(ctx context.Context, assetID uint64) (*types.Asset, error)
	GetBalance(ctx context.Context, owner types.Address, assetID uint64) (uint64, error)
	GetProposal(ctx context.Context, proposalID uint64) (*types.Proposal, error)
	GetVote(ctx context.Context, proposalID uint64, voter types.Address) (*types.Vote, error)
	GetPriceFeed(ctx context.Context, assetID uint64) (*types.PriceFeed, error)
	GetLastClaim(ctx context.Context, assetID uint64, claimer types.Address) (uint64, error)
	GetKycStatus(ctx context.Context, account types.Address) (*types.KycStatus, error)

	// CheckPriceFresh 返回在 height 仍有效的报价，否则 PriceExpired
	CheckPriceFresh(ctx context.Context, assetID, height uint64) (*types.PriceFeed, error)

	// GetSupply 资产全部持仓之和，恒等于 TokensPerAsset
	GetSupply(ctx context.Context, assetID uint64) (uint64, error)

	// Holders 资产的非零持仓
	Holders(ctx context.Context, assetID uint64) ([]types.TokenBalance, error)

	// ListAssets 按 ID 升序列出全部资产
	ListAssets(ctx context.Context) ([]*types.Asset, error)

	// ListProposals 按 ID 升序列出全部提案
	ListProposals(ctx context.Context) ([]*types.Proposal, error)
}
