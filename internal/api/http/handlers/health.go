package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/rwaledger/internal/api/http/types"
	"github.com/weisyn/rwaledger/internal/app/version"
	"github.com/weisyn/rwaledger/internal/core/ledger/query"
	"github.com/weisyn/rwaledger/pkg/interfaces/ledger"
)

// HealthHandler 健康检查端点处理器
//
// 通过一次只读查询确认存储可用；查询缓存只报告命中统计，不影响健康结论。
type HealthHandler struct {
	ledger    ledger.Ledger
	cache     *query.Cache
	startTime time.Time
}

// NewHealthHandler 创建健康检查处理器，cache 可为 nil
func NewHealthHandler(l ledger.Ledger, cache *query.Cache) *HealthHandler {
	return &HealthHandler{
		ledger:    l,
		cache:     cache,
		startTime: time.Now(),
	}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.GetHealth)
}

// GetHealth GET /health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	resp := apitypes.HealthResponse{
		Status:     "healthy",
		Version:    version.GetVersion(),
		Uptime:     time.Since(h.startTime).Truncate(time.Second).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: map[string]string{"storage": "ok"},
	}

	if _, err := h.ledger.GetAssetInfo(c.Request.Context(), 0); err != nil {
		resp.Status = "unhealthy"
		resp.Components["storage"] = "unavailable"
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		resp.Components["query_cache"] = fmt.Sprintf("hits=%d misses=%d", hits, misses)
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
