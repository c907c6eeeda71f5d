package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/rwaledger/internal/api/http/middleware"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/ledger"
	"github.com/weisyn/rwaledger/pkg/types"
)

// ProposalHandlers 治理相关接口
type ProposalHandlers struct {
	ledger ledger.Ledger
	logger log.Logger
}

// NewProposalHandlers 创建治理处理器
func NewProposalHandlers(l ledger.Ledger, logger log.Logger) *ProposalHandlers {
	return &ProposalHandlers{ledger: l, logger: logger}
}

// RegisterRoutes 注册治理路由
func (h *ProposalHandlers) RegisterRoutes(r *gin.RouterGroup, call gin.HandlerFunc) {
	proposals := r.Group("/proposals")
	{
		proposals.POST("", call, h.CreateProposal)
		proposals.POST("/:id/votes", call, h.Vote)

		proposals.GET("", h.ListProposals)
		proposals.GET("/:id", h.GetProposal)
		proposals.GET("/:id/votes/:voter", h.GetVote)
	}
}

// CreateProposalRequest 创建提案请求
type CreateProposalRequest struct {
	AssetID      uint64 `json:"asset_id"`
	Title        string `json:"title"`
	Duration     uint64 `json:"duration"`
	MinimumVotes uint64 `json:"minimum_votes"`
}

// CreateProposal POST /v1/proposals
func (h *ProposalHandlers) CreateProposal(c *gin.Context) {
	var req CreateProposalRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	id, err := h.ledger.CreateProposal(c.Request.Context(), middleware.GetCallContext(c), req.AssetID, req.Title, req.Duration, req.MinimumVotes)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, id)
}

// VoteRequest 投票请求
type VoteRequest struct {
	VoteFor bool   `json:"vote_for"`
	Amount  uint64 `json:"amount"`
}

// Vote POST /v1/proposals/:id/votes
func (h *ProposalHandlers) Vote(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req VoteRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.ledger.Vote(c.Request.Context(), middleware.GetCallContext(c), id, req.VoteFor, req.Amount); err != nil {
		fail(c, err)
		return
	}
	okResult(c)
}

// ProposalView 提案及其在查询高度的状态
type ProposalView struct {
	*types.Proposal
	Status types.ProposalStatus `json:"status,omitempty"`
}

// ListProposals GET /v1/proposals
func (h *ProposalHandlers) ListProposals(c *gin.Context) {
	proposals, err := h.ledger.ListProposals(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if proposals == nil {
		proposals = []*types.Proposal{}
	}
	ok(c, proposals)
}

// GetProposal GET /v1/proposals/:id，带 height 查询参数时附带状态
func (h *ProposalHandlers) GetProposal(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	p, err := h.ledger.GetProposal(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if p == nil {
		ok(c, nil)
		return
	}
	view := ProposalView{Proposal: p}
	if raw, present := c.GetQuery("height"); present {
		height, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid query parameter", map[string]interface{}{"param": "height", "value": raw})
			return
		}
		view.Status = p.StatusAt(height)
	}
	ok(c, view)
}

// GetVote GET /v1/proposals/:id/votes/:voter
func (h *ProposalHandlers) GetVote(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	vote, err := h.ledger.GetVote(c.Request.Context(), id, types.Address(c.Param("voter")))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, vote)
}
