// Package constants 定义账本协议层的固定常量
//
// 这些数值属于协议的一部分，修改会改变记账语义，因此不通过配置暴露。
// 运行期可调参数（管理员、预言机、价格有效期等）见 internal/config/ledger。
package constants

// ==================== 代币供应 ====================

// TokensPerAsset 每个资产在登记时一次性铸造的份额总量
const TokensPerAsset uint64 = 100_000

// ProposalThresholdBps 发起提案所需持仓比例（基点，1000 = 10%）
const ProposalThresholdBps uint64 = 1_000

// ProposalThreshold 发起提案所需的最低持仓份额
const ProposalThreshold = TokensPerAsset * ProposalThresholdBps / 10_000

// ==================== 资产估值 ====================

const (
	// MinAssetValue 资产估值下限（含）
	MinAssetValue uint64 = 1_000
	// MaxAssetValue 资产估值上限（含）
	MaxAssetValue uint64 = 1_000_000_000_000
)

// ==================== 治理 ====================

const (
	// MinDuration 提案投票期下限（高度，含）
	MinDuration uint64 = 10
	// MaxDuration 提案投票期上限（高度，含）
	MaxDuration uint64 = 10_080
)

// ==================== 合规 ====================

const (
	// MaxKycLevel KYC 等级上限，合法范围 1..MaxKycLevel
	MaxKycLevel uint64 = 5
	// MaxExpiry KYC 有效期相对当前高度的最大跨度
	MaxExpiry uint64 = 52_560
)

// ==================== 文本与地址 ====================

const (
	// MaxTextLength metadata-uri 与提案标题的最大字节数
	MaxTextLength = 256
	// AddressPayloadLen base58 地址解码后的字节长度
	AddressPayloadLen = 20
)

// ==================== 价格 ====================

// MaxPriceDecimals 价格精度上限
const MaxPriceDecimals uint64 = 18
