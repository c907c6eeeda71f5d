// Package types 定义账本错误类型
package types

import (
	"errors"
	"fmt"
)

// ErrorCode 账本错误码
//
// 错误集合是封闭的，数值编码保持稳定以便跨系统对接。
type ErrorCode uint32

const (
	ErrOwnerOnly       ErrorCode = 100
	ErrNotFound        ErrorCode = 101
	ErrAlreadyListed   ErrorCode = 102 // 预留：当前没有重复登记路径
	ErrInvalidAmount   ErrorCode = 103
	ErrNotAuthorized   ErrorCode = 104
	ErrKycRequired     ErrorCode = 105
	ErrVoteExists      ErrorCode = 106
	ErrVoteEnded       ErrorCode = 107
	ErrPriceExpired    ErrorCode = 108
	ErrInvalidURI      ErrorCode = 110
	ErrInvalidValue    ErrorCode = 111
	ErrInvalidDuration ErrorCode = 112
	ErrInvalidKycLevel ErrorCode = 113
	ErrInvalidExpiry   ErrorCode = 114
	ErrInvalidVotes    ErrorCode = 115
	ErrInvalidAddress  ErrorCode = 116
	ErrInvalidTitle    ErrorCode = 117
)

var codeNames = map[ErrorCode]string{
	ErrOwnerOnly:       "OwnerOnly",
	ErrNotFound:        "NotFound",
	ErrAlreadyListed:   "AlreadyListed",
	ErrInvalidAmount:   "InvalidAmount",
	ErrNotAuthorized:   "NotAuthorized",
	ErrKycRequired:     "KycRequired",
	ErrVoteExists:      "VoteExists",
	ErrVoteEnded:       "VoteEnded",
	ErrPriceExpired:    "PriceExpired",
	ErrInvalidURI:      "InvalidUri",
	ErrInvalidValue:    "InvalidValue",
	ErrInvalidDuration: "InvalidDuration",
	ErrInvalidKycLevel: "InvalidKycLevel",
	ErrInvalidExpiry:   "InvalidExpiry",
	ErrInvalidVotes:    "InvalidVotes",
	ErrInvalidAddress:  "InvalidAddress",
	ErrInvalidTitle:    "InvalidTitle",
}

// String 返回错误码名称
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", uint32(c))
}

// Known 错误码是否属于封闭集合
func (c ErrorCode) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// LedgerError 带错误码的账本错误
type LedgerError struct {
	Code    ErrorCode
	Message string
}

// Error 实现 error 接口
func (e *LedgerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s(%d)", e.Code, uint32(e.Code))
	}
	return fmt.Sprintf("%s(%d): %s", e.Code, uint32(e.Code), e.Message)
}

// Is 支持 errors.Is 按错误码比较
func (e *LedgerError) Is(target error) bool {
	var t *LedgerError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError 创建账本错误
func NewError(code ErrorCode, format string, args ...interface{}) *LedgerError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &LedgerError{Code: code, Message: msg}
}

// CodeOf 提取错误链中的账本错误码
func CodeOf(err error) (ErrorCode, bool) {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code, true
	}
	return 0, false
}

// Is 判断错误链中是否包含指定错误码
func Is(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
