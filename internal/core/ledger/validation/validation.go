// Package validation 提供账本输入的纯校验函数
//
// 每个函数要么返回校验通过的值，要么返回带错误码的 *types.LedgerError；
// 不读取状态，不依赖调用者身份。
package validation

import (
	"github.com/mr-tron/base58"

	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/types"
)

// ValidateAssetValue 资产估值须在 [MinAssetValue, MaxAssetValue] 内
func ValidateAssetValue(value uint64) (uint64, error) {
	if value < constants.MinAssetValue || value > constants.MaxAssetValue {
		return 0, types.NewError(types.ErrInvalidValue, "asset value %d out of [%d, %d]",
			value, constants.MinAssetValue, constants.MaxAssetValue)
	}
	return value, nil
}

// ValidateDuration 投票时长须在 [MinDuration, MaxDuration] 内
func ValidateDuration(duration uint64) (uint64, error) {
	if duration < constants.MinDuration || duration > constants.MaxDuration {
		return 0, types.NewError(types.ErrInvalidDuration, "duration %d out of [%d, %d]",
			duration, constants.MinDuration, constants.MaxDuration)
	}
	return duration, nil
}

// ValidateKycLevel KYC 等级须在 [1, MaxKycLevel] 内
func ValidateKycLevel(level uint64) (uint64, error) {
	if level < 1 || level > constants.MaxKycLevel {
		return 0, types.NewError(types.ErrInvalidKycLevel, "kyc level %d out of [1, %d]",
			level, constants.MaxKycLevel)
	}
	return level, nil
}

// ValidateExpiry 过期高度须满足 0 < expiry <= height + MaxExpiry
func ValidateExpiry(expiry, height uint64) (uint64, error) {
	limit := height + constants.MaxExpiry
	if limit < height {
		limit = ^uint64(0)
	}
	if expiry == 0 || expiry > limit {
		return 0, types.NewError(types.ErrInvalidExpiry, "expiry %d out of (0, %d]", expiry, limit)
	}
	return expiry, nil
}

// ValidateMinimumVotes 法定票数须为正且不超过单资产总份额
func ValidateMinimumVotes(votes uint64) (uint64, error) {
	if votes == 0 || votes > constants.TokensPerAsset {
		return 0, types.NewError(types.ErrInvalidVotes, "minimum votes %d out of [1, %d]",
			votes, constants.TokensPerAsset)
	}
	return votes, nil
}

// ValidateMetadataURI 元数据 URI 非空、不超过 MaxTextLength 且为可打印 ASCII
func ValidateMetadataURI(uri string) (string, error) {
	if !isBoundedText(uri) {
		return "", types.NewError(types.ErrInvalidURI, "metadata uri must be 1..%d printable ascii bytes", constants.MaxTextLength)
	}
	return uri, nil
}

// ValidateTitle 提案标题规则同元数据 URI
func ValidateTitle(title string) (string, error) {
	if !isBoundedText(title) {
		return "", types.NewError(types.ErrInvalidTitle, "title must be 1..%d printable ascii bytes", constants.MaxTextLength)
	}
	return title, nil
}

// ValidateAddress 地址须为 base58 编码的 20 字节载荷
func ValidateAddress(addr types.Address) (types.Address, error) {
	if addr == "" {
		return "", types.NewError(types.ErrInvalidAddress, "empty address")
	}
	raw, err := base58.Decode(string(addr))
	if err != nil {
		return "", types.NewError(types.ErrInvalidAddress, "address %q is not base58", string(addr))
	}
	if len(raw) != constants.AddressPayloadLen {
		return "", types.NewError(types.ErrInvalidAddress, "address %q decodes to %d bytes, want %d",
			string(addr), len(raw), constants.AddressPayloadLen)
	}
	return addr, nil
}

func isBoundedText(s string) bool {
	if len(s) == 0 || len(s) > constants.MaxTextLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
