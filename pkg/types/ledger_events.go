package types

// LedgerEvent 账本调用提交后发布的事件负载
//
// 未涉及的字段保持零值；Amount 的含义随事件类型变化（登记为铸造量、
// 领取为可领金额、投票为票数、分红为本次新增额、价格为报价）。
type LedgerEvent struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Height     uint64  `json:"height"`
	Caller     Address `json:"caller"`
	AssetID    uint64  `json:"asset_id,omitempty"`
	ProposalID uint64  `json:"proposal_id,omitempty"`
	Account    Address `json:"account,omitempty"`
	Amount     uint64  `json:"amount,omitempty"`
}
