// Package types provides HTTP response type definitions.
package types

import (
	"errors"
	"net/http"

	ledgertypes "github.com/weisyn/rwaledger/pkg/types"
)

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
//
// 账本错误的 Code 为错误码名称（如 KycRequired），Numeric 为稳定数值编码；
// 适配层自身的错误（参数、内部故障）Numeric 为 0。
type ErrorDetail struct {
	Code      string      `json:"code"`
	Numeric   uint32      `json:"numeric,omitempty"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// 适配层错误码
const (
	ErrInvalidArgument   = "INVALID_ARGUMENT"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInternal          = "INTERNAL"
)

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message string, details interface{}) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithRequestID 添加请求ID
func (e *ErrorResponse) WithRequestID(requestID string) *ErrorResponse {
	e.Error.RequestID = requestID
	return e
}

// FromError 把处理器返回的错误转换为 HTTP 状态码与响应体
//
// 非账本错误一律视为内部故障，原始信息不回显给调用方。
func FromError(err error) (int, *ErrorResponse) {
	var le *ledgertypes.LedgerError
	if !errors.As(err, &le) {
		return http.StatusInternalServerError, NewErrorResponse(ErrInternal, "internal error", nil)
	}
	msg := le.Message
	if msg == "" {
		msg = le.Code.String()
	}
	return StatusOf(le.Code), &ErrorResponse{
		Error: ErrorDetail{
			Code:    le.Code.String(),
			Numeric: uint32(le.Code),
			Message: msg,
		},
	}
}

// StatusOf 账本错误码对应的 HTTP 状态码
func StatusOf(code ledgertypes.ErrorCode) int {
	switch code {
	case ledgertypes.ErrOwnerOnly, ledgertypes.ErrNotAuthorized, ledgertypes.ErrKycRequired:
		return http.StatusForbidden
	case ledgertypes.ErrNotFound:
		return http.StatusNotFound
	case ledgertypes.ErrAlreadyListed, ledgertypes.ErrVoteExists, ledgertypes.ErrVoteEnded, ledgertypes.ErrPriceExpired:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
