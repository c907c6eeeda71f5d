// Package types 定义账本引擎的核心数据结构
//
// 所有数值字段均为非负整数（uint64），ID 采用从 1 开始的顺序计数。
// 高度（height）是宿主提供的单调序列位置，作为过期与投票窗口的时间轴。
package types

// Address 账户地址（base58 编码，解码后固定 20 字节）
type Address string

// String 返回地址字符串
func (a Address) String() string { return string(a) }

// CallContext 单次调用的宿主上下文
//
// 调用者身份与当前高度由宿主按调用提供，核心逻辑视其为可信输入。
type CallContext struct {
	Caller Address `json:"caller"`
	Height uint64  `json:"height"`
}

// Asset 现实世界资产记录
type Asset struct {
	ID              uint64  `json:"asset_id"`
	Owner           Address `json:"owner"`
	MetadataURI     string  `json:"metadata_uri"`
	AssetValue      uint64  `json:"asset_value"`
	IsLocked        bool    `json:"is_locked"`
	CreationHeight  uint64  `json:"creation_height"`
	LastPriceUpdate uint64  `json:"last_price_update"`
	TotalDividends  uint64  `json:"total_dividends"` // 只增不减的累计分红
}

// TokenBalance (account, asset-id) 维度的份额余额
type TokenBalance struct {
	AssetID uint64  `json:"asset_id"`
	Account Address `json:"account"`
	Balance uint64  `json:"balance"`
}

// KycStatus 账户的合规状态
type KycStatus struct {
	Account    Address `json:"account"`
	IsApproved bool    `json:"is_approved"`
	Level      uint64  `json:"level"`
	Expiry     uint64  `json:"expiry"` // 高度截止点（含）
}

// CompliantAt 判断在高度 h 是否合规
func (k *KycStatus) CompliantAt(h uint64) bool {
	return k != nil && k.IsApproved && h <= k.Expiry
}

// Proposal 治理提案
type Proposal struct {
	ID           uint64  `json:"proposal_id"`
	AssetID      uint64  `json:"asset_id"`
	Proposer     Address `json:"proposer"`
	Title        string  `json:"title"`
	StartHeight  uint64  `json:"start_height"`
	EndHeight    uint64  `json:"end_height"`
	Executed     bool    `json:"executed"` // 执行逻辑未实现，恒为 false
	VotesFor     uint64  `json:"votes_for"`
	VotesAgainst uint64  `json:"votes_against"`
	MinimumVotes uint64  `json:"minimum_votes"` // 法定票数，仅记录不校验
}

// ProposalStatus 提案状态（由高度推导，不落盘）
type ProposalStatus string

const (
	// ProposalOpen start ≤ height ≤ end 且未执行
	ProposalOpen ProposalStatus = "open"
	// ProposalClosed height > end
	ProposalClosed ProposalStatus = "closed"
	// ProposalExecuted 预留状态，当前不会产生
	ProposalExecuted ProposalStatus = "executed"
)

// StatusAt 返回提案在高度 h 的状态
func (p *Proposal) StatusAt(h uint64) ProposalStatus {
	switch {
	case p.Executed:
		return ProposalExecuted
	case h > p.EndHeight:
		return ProposalClosed
	default:
		return ProposalOpen
	}
}

// Vote 投票记录，每个 (proposal-id, voter) 至多一条
type Vote struct {
	ProposalID uint64  `json:"proposal_id"`
	Voter      Address `json:"voter"`
	VoteFor    bool    `json:"vote_for"`
	VoteAmount uint64  `json:"vote_amount"`
}

// DividendClaim 已领取分红的累计快照
//
// LastClaimedAmount 表示截至上次领取时资产的 TotalDividends，而不是单期金额。
type DividendClaim struct {
	AssetID           uint64  `json:"asset_id"`
	Account           Address `json:"account"`
	LastClaimedAmount uint64  `json:"last_claimed_amount"`
}

// PriceFeed 资产价格报价
type PriceFeed struct {
	AssetID     uint64  `json:"asset_id"`
	Price       uint64  `json:"price"`
	Decimals    uint64  `json:"decimals"`
	LastUpdated uint64  `json:"last_updated"`
	Oracle      Address `json:"oracle"`
}

// Age 返回报价在高度 h 时的年龄；h 早于更新高度时视为 0
func (p *PriceFeed) Age(h uint64) uint64 {
	if h < p.LastUpdated {
		return 0
	}
	return h - p.LastUpdated
}
