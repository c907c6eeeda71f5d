package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/weisyn/rwaledger/internal/api/http/middleware"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/ledger"
	"github.com/weisyn/rwaledger/pkg/types"
)

// KycHandlers 合规状态接口
type KycHandlers struct {
	ledger ledger.Ledger
	logger log.Logger
}

// NewKycHandlers 创建合规处理器
func NewKycHandlers(l ledger.Ledger, logger log.Logger) *KycHandlers {
	return &KycHandlers{ledger: l, logger: logger}
}

// RegisterRoutes 注册合规路由
func (h *KycHandlers) RegisterRoutes(r *gin.RouterGroup, call gin.HandlerFunc) {
	kyc := r.Group("/kyc")
	{
		kyc.PUT("/:account", call, h.SetStatus)
		kyc.GET("/:account", h.GetStatus)
	}
}

// SetKycRequest 写入 KYC 状态请求
type SetKycRequest struct {
	Approved bool   `json:"approved"`
	Level    uint64 `json:"level"`
	Expiry   uint64 `json:"expiry"`
}

// SetStatus PUT /v1/kyc/:account
func (h *KycHandlers) SetStatus(c *gin.Context) {
	var req SetKycRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	account := types.Address(c.Param("account"))
	if err := h.ledger.SetKycStatus(c.Request.Context(), middleware.GetCallContext(c), account, req.Approved, req.Level, req.Expiry); err != nil {
		fail(c, err)
		return
	}
	okResult(c)
}

// GetStatus GET /v1/kyc/:account
func (h *KycHandlers) GetStatus(c *gin.Context) {
	status, err := h.ledger.GetKycStatus(c.Request.Context(), types.Address(c.Param("account")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, status)
}
