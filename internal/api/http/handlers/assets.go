package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/rwaledger/internal/api/http/middleware"
	apitypes "github.com/weisyn/rwaledger/internal/api/http/types"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/ledger"
	"github.com/weisyn/rwaledger/pkg/types"
)

// AssetHandlers 资产、分红与报价相关接口
type AssetHandlers struct {
	ledger ledger.Ledger
	logger log.Logger
}

// NewAssetHandlers 创建资产处理器
func NewAssetHandlers(l ledger.Ledger, logger log.Logger) *AssetHandlers {
	return &AssetHandlers{ledger: l, logger: logger}
}

// RegisterRoutes 注册资产路由
//
// 变更类路由需要 CallContext 中间件解析出的调用者与高度。
func (h *AssetHandlers) RegisterRoutes(r *gin.RouterGroup, call gin.HandlerFunc) {
	assets := r.Group("/assets")
	{
		assets.POST("", call, h.RegisterAsset)
		assets.POST("/:id/claims", call, h.ClaimDividends)
		assets.POST("/:id/dividends", call, h.RecordDividends)
		assets.POST("/:id/price", call, h.ReportPrice)

		assets.GET("", h.ListAssets)
		assets.GET("/:id", h.GetAsset)
		assets.GET("/:id/balances/:owner", h.GetBalance)
		assets.GET("/:id/claims/:account", h.GetLastClaim)
		assets.GET("/:id/price", h.GetPriceFeed)
		assets.GET("/:id/supply", h.GetSupply)
		assets.GET("/:id/holders", h.GetHolders)
	}
}

// RegisterAssetRequest 登记资产请求
type RegisterAssetRequest struct {
	MetadataURI string `json:"metadata_uri"`
	AssetValue  uint64 `json:"asset_value"`
}

// RegisterAsset POST /v1/assets
func (h *AssetHandlers) RegisterAsset(c *gin.Context) {
	var req RegisterAssetRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	id, err := h.ledger.RegisterAsset(c.Request.Context(), middleware.GetCallContext(c), req.MetadataURI, req.AssetValue)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, id)
}

// ClaimDividends POST /v1/assets/:id/claims
func (h *AssetHandlers) ClaimDividends(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.ledger.ClaimDividends(c.Request.Context(), middleware.GetCallContext(c), id); err != nil {
		fail(c, err)
		return
	}
	okResult(c)
}

// AmountRequest 只携带金额的请求
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

// RecordDividends POST /v1/assets/:id/dividends
func (h *AssetHandlers) RecordDividends(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req AmountRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.ledger.RecordDividends(c.Request.Context(), middleware.GetCallContext(c), id, req.Amount); err != nil {
		fail(c, err)
		return
	}
	okResult(c)
}

// ReportPriceRequest 报价请求
type ReportPriceRequest struct {
	Price    uint64 `json:"price"`
	Decimals uint64 `json:"decimals"`
}

// ReportPrice POST /v1/assets/:id/price
func (h *AssetHandlers) ReportPrice(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req ReportPriceRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.ledger.ReportPrice(c.Request.Context(), middleware.GetCallContext(c), id, req.Price, req.Decimals); err != nil {
		fail(c, err)
		return
	}
	okResult(c)
}

// ListAssets GET /v1/assets
func (h *AssetHandlers) ListAssets(c *gin.Context) {
	assets, err := h.ledger.ListAssets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if assets == nil {
		assets = []*types.Asset{}
	}
	ok(c, assets)
}

// GetAsset GET /v1/assets/:id，不存在时 data 为 null
func (h *AssetHandlers) GetAsset(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	asset, err := h.ledger.GetAssetInfo(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, asset)
}

// GetBalance GET /v1/assets/:id/balances/:owner
func (h *AssetHandlers) GetBalance(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	balance, err := h.ledger.GetBalance(c.Request.Context(), types.Address(c.Param("owner")), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, apitypes.AmountResponse{Amount: balance})
}

// GetLastClaim GET /v1/assets/:id/claims/:account
func (h *AssetHandlers) GetLastClaim(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	last, err := h.ledger.GetLastClaim(c.Request.Context(), id, types.Address(c.Param("account")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, apitypes.AmountResponse{Amount: last})
}

// GetPriceFeed GET /v1/assets/:id/price
//
// 带 fresh_at=<height> 查询参数时执行新鲜度检查，过期返回 PriceExpired。
func (h *AssetHandlers) GetPriceFeed(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if raw, present := c.GetQuery("fresh_at"); present {
		height, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid query parameter", map[string]interface{}{"param": "fresh_at", "value": raw})
			return
		}
		feed, err := h.ledger.CheckPriceFresh(c.Request.Context(), id, height)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, feed)
		return
	}
	feed, err := h.ledger.GetPriceFeed(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, feed)
}

// GetSupply GET /v1/assets/:id/supply
func (h *AssetHandlers) GetSupply(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	supply, err := h.ledger.GetSupply(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, apitypes.AmountResponse{Amount: supply})
}

// GetHolders GET /v1/assets/:id/holders
func (h *AssetHandlers) GetHolders(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	holders, err := h.ledger.Holders(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if holders == nil {
		holders = []types.TokenBalance{}
	}
	ok(c, holders)
}
