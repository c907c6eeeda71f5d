// Package compliance 实现 KYC 合规门控
package compliance

import (
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/internal/core/ledger/validation"
	"github.com/weisyn/rwaledger/pkg/types"
)

// CheckCompliant 账户在高度 height 是否合规
//
// 无记录、未批准或 height > expiry 均返回 KycRequired。
func CheckCompliant(v *state.State, account types.Address, height uint64) error {
	kyc, err := v.Kyc(account)
	if err != nil {
		return err
	}
	if !kyc.CompliantAt(height) {
		return types.NewError(types.ErrKycRequired, "account %s is not kyc compliant at height %d", account, height)
	}
	return nil
}

// Update 合规机构写入的 KYC 状态
type Update struct {
	Account  types.Address `json:"account"`
	Approved bool          `json:"is_approved"`
	Level    uint64        `json:"level"`
	Expiry   uint64        `json:"expiry"`
}

// SetStatus 由合规机构写入账户的 KYC 状态，覆盖已有记录
//
// 校验顺序：调用者为 authority → 账户地址 → 等级 → 过期高度。
func SetStatus(v *state.State, authority types.Address, call types.CallContext, upd Update) (*types.KycStatus, error) {
	if call.Caller != authority {
		return nil, types.NewError(types.ErrOwnerOnly, "only the compliance authority may set kyc status")
	}
	if _, err := validation.ValidateAddress(upd.Account); err != nil {
		return nil, err
	}
	level, err := validation.ValidateKycLevel(upd.Level)
	if err != nil {
		return nil, err
	}
	expiry, err := validation.ValidateExpiry(upd.Expiry, call.Height)
	if err != nil {
		return nil, err
	}

	status := &types.KycStatus{
		Account:    upd.Account,
		IsApproved: upd.Approved,
		Level:      level,
		Expiry:     expiry,
	}
	if err := v.PutKyc(status); err != nil {
		return nil, err
	}
	return status, nil
}

// Status 读取账户 KYC 状态，不存在时返回 nil
func Status(v *state.State, account types.Address) (*types.KycStatus, error) {
	return v.Kyc(account)
}
