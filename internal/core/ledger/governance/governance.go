// Package governance 管理提案生命周期与按份额加权的投票
//
// 法定票数（minimum-votes）在创建时记录，投票时不校验；执行逻辑尚未实现，
// executed 恒为 false。引擎在投票阶段只负责票数完整性与防重复投票。
package governance

import (
	"github.com/weisyn/rwaledger/internal/core/ledger/compliance"
	"github.com/weisyn/rwaledger/internal/core/ledger/registry"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/internal/core/ledger/tokens"
	"github.com/weisyn/rwaledger/internal/core/ledger/validation"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/types"
)

// ProposalRequest 创建提案的参数
type ProposalRequest struct {
	AssetID      uint64 `json:"asset_id"`
	Title        string `json:"title"`
	Duration     uint64 `json:"duration"`
	MinimumVotes uint64 `json:"minimum_votes"`
}

// CreateProposal 创建提案，投票窗口为 [height, height+duration]
//
// 校验顺序：合规 → 时长 → 法定票数 → 标题 → 资产存在 → 持仓 >= ProposalThreshold。
func CreateProposal(v *state.State, call types.CallContext, req ProposalRequest) (*types.Proposal, error) {
	if err := compliance.CheckCompliant(v, call.Caller, call.Height); err != nil {
		return nil, err
	}
	duration, err := validation.ValidateDuration(req.Duration)
	if err != nil {
		return nil, err
	}
	minimum, err := validation.ValidateMinimumVotes(req.MinimumVotes)
	if err != nil {
		return nil, err
	}
	title, err := validation.ValidateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if _, err := registry.Asset(v, req.AssetID); err != nil {
		return nil, err
	}
	balance, err := tokens.BalanceOf(v, call.Caller, req.AssetID)
	if err != nil {
		return nil, err
	}
	if balance < constants.ProposalThreshold {
		return nil, types.NewError(types.ErrNotAuthorized, "balance %d below proposal threshold %d", balance, constants.ProposalThreshold)
	}

	end := call.Height + duration
	if end < call.Height {
		return nil, types.NewError(types.ErrInvalidDuration, "voting window overflows at height %d", call.Height)
	}
	id, err := v.NextID(state.CounterProposal)
	if err != nil {
		return nil, err
	}
	p := &types.Proposal{
		ID:           id,
		AssetID:      req.AssetID,
		Proposer:     call.Caller,
		Title:        title,
		StartHeight:  call.Height,
		EndHeight:    end,
		MinimumVotes: minimum,
	}
	if err := v.PutProposal(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Vote 记录投票并累加票数，每个 (提案, 投票人) 只能投一次
//
// 校验顺序：提案存在 → height <= end-height → 未投过 → 0 < amount <= 余额 → 合规。
func Vote(v *state.State, call types.CallContext, proposalID uint64, voteFor bool, amount uint64) (*types.Vote, *types.Proposal, error) {
	p, err := Proposal(v, proposalID)
	if err != nil {
		return nil, nil, err
	}
	if call.Height > p.EndHeight {
		return nil, nil, types.NewError(types.ErrVoteEnded, "proposal %d closed at height %d", proposalID, p.EndHeight)
	}
	prior, err := v.Vote(proposalID, call.Caller)
	if err != nil {
		return nil, nil, err
	}
	if prior != nil {
		return nil, nil, types.NewError(types.ErrVoteExists, "%s already voted on proposal %d", call.Caller, proposalID)
	}
	balance, err := tokens.BalanceOf(v, call.Caller, p.AssetID)
	if err != nil {
		return nil, nil, err
	}
	if amount == 0 || amount > balance {
		return nil, nil, types.NewError(types.ErrInvalidAmount, "vote amount %d must be in [1, %d]", amount, balance)
	}
	if err := compliance.CheckCompliant(v, call.Caller, call.Height); err != nil {
		return nil, nil, err
	}

	vote := &types.Vote{
		ProposalID: proposalID,
		Voter:      call.Caller,
		VoteFor:    voteFor,
		VoteAmount: amount,
	}
	if err := v.PutVote(vote); err != nil {
		return nil, nil, err
	}
	if voteFor {
		p.VotesFor += amount
	} else {
		p.VotesAgainst += amount
	}
	if err := v.PutProposal(p); err != nil {
		return nil, nil, err
	}
	return vote, p, nil
}

// Proposal 读取提案，不存在时返回 NotFound
func Proposal(v *state.State, proposalID uint64) (*types.Proposal, error) {
	p, err := v.Proposal(proposalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, types.NewError(types.ErrNotFound, "proposal %d not found", proposalID)
	}
	return p, nil
}

// Status 提案在高度 height 的状态
func Status(p *types.Proposal, height uint64) types.ProposalStatus {
	return p.StatusAt(height)
}
