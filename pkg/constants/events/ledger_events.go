// Package events 提供账本事件类型常量定义
//
// 事件在账本调用提交之后发布，负载统一为 *types.LedgerEvent。
// 失败的调用不会产生事件。
package events

import (
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/event"
)

// EventType 全局事件类型别名，兼容标准事件接口
type EventType = event.EventType

// 资产事件
const (
	// EventTypeAssetRegistered 资产登记完成，全部份额已铸给管理员
	EventTypeAssetRegistered EventType = "asset.registered"

	// EventTypeDividendsRecorded 资产累计分红增加
	EventTypeDividendsRecorded EventType = "dividends.recorded"

	// EventTypeDividendsClaimed 持有人完成分红领取（含可领为 0 的空领取）
	EventTypeDividendsClaimed EventType = "dividends.claimed"

	// EventTypePriceReported 预言机上报价格
	EventTypePriceReported EventType = "price.reported"
)

// 合规事件
const (
	// EventTypeKycUpdated 合规机构写入 KYC 状态
	EventTypeKycUpdated EventType = "kyc.updated"
)

// 治理事件
const (
	// EventTypeProposalCreated 提案创建
	EventTypeProposalCreated EventType = "proposal.created"

	// EventTypeVoteCast 投票记录并计入票数
	EventTypeVoteCast EventType = "vote.cast"
)

// All 返回全部账本事件类型
func All() []EventType {
	return []EventType{
		EventTypeAssetRegistered,
		EventTypeDividendsRecorded,
		EventTypeDividendsClaimed,
		EventTypePriceReported,
		EventTypeKycUpdated,
		EventTypeProposalCreated,
		EventTypeVoteCast,
	}
}
