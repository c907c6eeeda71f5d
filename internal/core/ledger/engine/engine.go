// Package engine 组合账本组件，提供带事务、事件与指标的入口
//
// 每个变更入口在写锁内执行一个存储事务：任一校验失败即丢弃事务，状态保持调用前的样子。
// 提交成功后在写锁内发布事件，同步订阅者（查询缓存失效）因此与下一次读取不会交错；
// 其他订阅者必须使用异步订阅，不得在回调中同步重入引擎。
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	ledgerconfig "github.com/weisyn/rwaledger/internal/config/ledger"
	"github.com/weisyn/rwaledger/internal/core/ledger/compliance"
	"github.com/weisyn/rwaledger/internal/core/ledger/dividend"
	"github.com/weisyn/rwaledger/internal/core/ledger/governance"
	"github.com/weisyn/rwaledger/internal/core/ledger/pricefeed"
	"github.com/weisyn/rwaledger/internal/core/ledger/query"
	"github.com/weisyn/rwaledger/internal/core/ledger/registry"
	"github.com/weisyn/rwaledger/internal/core/ledger/state"
	"github.com/weisyn/rwaledger/internal/core/ledger/tokens"
	"github.com/weisyn/rwaledger/internal/core/ledger/validation"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/constants/events"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	ledgerInterface "github.com/weisyn/rwaledger/pkg/interfaces/ledger"
	"github.com/weisyn/rwaledger/pkg/types"
)

// 入口名称，用作指标与日志的 op 标签
const (
	opRegisterAsset   = "register_asset"
	opClaimDividends  = "claim_dividends"
	opCreateProposal  = "create_proposal"
	opVote            = "vote"
	opSetKycStatus    = "set_kyc_status"
	opReportPrice     = "report_price"
	opRecordDividends = "record_dividends"

	opGetAssetInfo    = "get_asset_info"
	opGetBalance      = "get_balance"
	opGetProposal     = "get_proposal"
	opGetVote         = "get_vote"
	opGetPriceFeed    = "get_price_feed"
	opGetLastClaim    = "get_last_claim"
	opGetKycStatus    = "get_kyc_status"
	opCheckPriceFresh = "check_price_fresh"
	opGetSupply       = "get_supply"
	opHolders         = "holders"
	opListAssets      = "list_assets"
	opListProposals   = "list_proposals"
)

// Engine 账本引擎
type Engine struct {
	mu sync.RWMutex

	store  storage.BadgerStore
	bus    event.EventBus
	cache  *query.Cache
	opts   *ledgerconfig.LedgerOptions
	logger log.Logger
}

var _ ledgerInterface.Ledger = (*Engine)(nil)

// New 创建引擎，并以已持久化的计数器初始化资产/提案数量指标
//
// bus、cache、logger 均可为 nil。
func New(store storage.BadgerStore, bus event.EventBus, cache *query.Cache, opts *ledgerconfig.LedgerOptions, logger log.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("账本存储未配置")
	}
	if opts == nil {
		return nil, fmt.Errorf("账本配置未提供")
	}
	e := &Engine{
		store:  store,
		bus:    bus,
		cache:  cache,
		opts:   opts,
		logger: logger,
	}

	err := store.View(context.Background(), func(tx storage.BadgerTransaction) error {
		v := state.New(tx)
		assets, err := v.Counter(state.CounterAsset)
		if err != nil {
			return err
		}
		proposals, err := v.Counter(state.CounterProposal)
		if err != nil {
			return err
		}
		ledgerAssets.Set(float64(assets))
		ledgerProposals.Set(float64(proposals))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("读取账本计数器失败: %w", err)
	}
	return e, nil
}

// ==================== 变更入口 ====================

// RegisterAsset 登记资产
func (e *Engine) RegisterAsset(ctx context.Context, call types.CallContext, metadataURI string, assetValue uint64) (uint64, error) {
	var id uint64
	err := e.mutate(ctx, opRegisterAsset, call, func(v *state.State) (*types.LedgerEvent, error) {
		asset, err := registry.Register(v, e.opts.Admin, call, metadataURI, assetValue)
		if err != nil {
			return nil, err
		}
		id = asset.ID
		return &types.LedgerEvent{
			Type:    string(events.EventTypeAssetRegistered),
			AssetID: asset.ID,
			Account: asset.Owner,
			Amount:  constants.TokensPerAsset,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	ledgerAssets.Set(float64(id))
	return id, nil
}

// ClaimDividends 领取分红；可领金额为 0 时同样成功
func (e *Engine) ClaimDividends(ctx context.Context, call types.CallContext, assetID uint64) error {
	return e.mutate(ctx, opClaimDividends, call, func(v *state.State) (*types.LedgerEvent, error) {
		amount, err := dividend.Claim(v, call, assetID)
		if err != nil {
			return nil, err
		}
		return &types.LedgerEvent{
			Type:    string(events.EventTypeDividendsClaimed),
			AssetID: assetID,
			Account: call.Caller,
			Amount:  amount,
		}, nil
	})
}

// CreateProposal 创建提案
func (e *Engine) CreateProposal(ctx context.Context, call types.CallContext, assetID uint64, title string, duration, minimumVotes uint64) (uint64, error) {
	var id uint64
	err := e.mutate(ctx, opCreateProposal, call, func(v *state.State) (*types.LedgerEvent, error) {
		p, err := governance.CreateProposal(v, call, governance.ProposalRequest{
			AssetID:      assetID,
			Title:        title,
			Duration:     duration,
			MinimumVotes: minimumVotes,
		})
		if err != nil {
			return nil, err
		}
		id = p.ID
		return &types.LedgerEvent{
			Type:       string(events.EventTypeProposalCreated),
			AssetID:    assetID,
			ProposalID: p.ID,
			Account:    call.Caller,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	ledgerProposals.Set(float64(id))
	return id, nil
}

// Vote 投票
func (e *Engine) Vote(ctx context.Context, call types.CallContext, proposalID uint64, voteFor bool, amount uint64) error {
	return e.mutate(ctx, opVote, call, func(v *state.State) (*types.LedgerEvent, error) {
		_, p, err := governance.Vote(v, call, proposalID, voteFor, amount)
		if err != nil {
			return nil, err
		}
		return &types.LedgerEvent{
			Type:       string(events.EventTypeVoteCast),
			AssetID:    p.AssetID,
			ProposalID: proposalID,
			Account:    call.Caller,
			Amount:     amount,
		}, nil
	})
}

// SetKycStatus 写入 KYC 状态
func (e *Engine) SetKycStatus(ctx context.Context, call types.CallContext, account types.Address, approved bool, level, expiry uint64) error {
	return e.mutate(ctx, opSetKycStatus, call, func(v *state.State) (*types.LedgerEvent, error) {
		status, err := compliance.SetStatus(v, e.opts.ComplianceAuthority, call, compliance.Update{
			Account:  account,
			Approved: approved,
			Level:    level,
			Expiry:   expiry,
		})
		if err != nil {
			return nil, err
		}
		return &types.LedgerEvent{
			Type:    string(events.EventTypeKycUpdated),
			Account: status.Account,
		}, nil
	})
}

// ReportPrice 上报价格
func (e *Engine) ReportPrice(ctx context.Context, call types.CallContext, assetID, price, decimals uint64) error {
	return e.mutate(ctx, opReportPrice, call, func(v *state.State) (*types.LedgerEvent, error) {
		feed, err := pricefeed.Report(v, e.opts, call, assetID, price, decimals)
		if err != nil {
			return nil, err
		}
		return &types.LedgerEvent{
			Type:    string(events.EventTypePriceReported),
			AssetID: assetID,
			Amount:  feed.Price,
		}, nil
	})
}

// RecordDividends 增加累计分红
func (e *Engine) RecordDividends(ctx context.Context, call types.CallContext, assetID, amount uint64) error {
	return e.mutate(ctx, opRecordDividends, call, func(v *state.State) (*types.LedgerEvent, error) {
		if _, err := registry.RecordDividends(v, call, assetID, amount); err != nil {
			return nil, err
		}
		return &types.LedgerEvent{
			Type:    string(events.EventTypeDividendsRecorded),
			AssetID: assetID,
			Amount:  amount,
		}, nil
	})
}

// mutate 在写锁与单个存储事务内执行 fn，提交后发布 fn 返回的事件
func (e *Engine) mutate(ctx context.Context, op string, call types.CallContext, fn func(v *state.State) (*types.LedgerEvent, error)) error {
	start := time.Now()
	if _, err := validation.ValidateAddress(call.Caller); err != nil {
		observe(op, start, err)
		e.logRejected(op, call, err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var evt *types.LedgerEvent
	err := e.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		var err error
		evt, err = fn(state.New(tx))
		return err
	})
	observe(op, start, err)
	if err != nil {
		e.logRejected(op, call, err)
		return err
	}

	if evt != nil {
		evt.ID = uuid.NewString()
		evt.Height = call.Height
		evt.Caller = call.Caller
		if e.bus != nil {
			e.bus.Publish(event.EventType(evt.Type), evt)
		}
		if e.logger != nil {
			e.logger.With(
				"op", op,
				"caller", string(call.Caller),
				"height", call.Height,
				"event_id", evt.ID,
			).Infof("账本调用成功: %s asset=%d proposal=%d amount=%d", evt.Type, evt.AssetID, evt.ProposalID, evt.Amount)
		}
	}
	return nil
}

func (e *Engine) logRejected(op string, call types.CallContext, err error) {
	if e.logger == nil {
		return
	}
	l := e.logger.With("op", op, "caller", string(call.Caller), "height", call.Height)
	if _, ok := types.CodeOf(err); ok {
		l.Infof("账本调用被拒绝: %v", err)
		return
	}
	l.Errorf("账本调用失败: %v", err)
}

// ==================== 只读入口 ====================

// GetAssetInfo 查询资产，不存在时返回 nil
func (e *Engine) GetAssetInfo(ctx context.Context, assetID uint64) (*types.Asset, error) {
	var asset *types.Asset
	err := e.read(opGetAssetInfo, func() error {
		var err error
		asset, err = query.Fetch(ctx, e.cache, query.AssetKey(assetID), func() (*types.Asset, error) {
			var a *types.Asset
			err := e.view(ctx, func(v *state.State) error {
				var err error
				a, err = v.Asset(assetID)
				return err
			})
			return a, err
		})
		return err
	})
	return asset, err
}

// GetBalance 查询持仓，不存在时为 0
func (e *Engine) GetBalance(ctx context.Context, owner types.Address, assetID uint64) (uint64, error) {
	var balance uint64
	err := e.read(opGetBalance, func() error {
		if _, err := validation.ValidateAddress(owner); err != nil {
			return err
		}
		return e.view(ctx, func(v *state.State) error {
			var err error
			balance, err = tokens.BalanceOf(v, owner, assetID)
			return err
		})
	})
	return balance, err
}

// GetProposal 查询提案，不存在时返回 nil
func (e *Engine) GetProposal(ctx context.Context, proposalID uint64) (*types.Proposal, error) {
	var proposal *types.Proposal
	err := e.read(opGetProposal, func() error {
		var err error
		proposal, err = query.Fetch(ctx, e.cache, query.ProposalKey(proposalID), func() (*types.Proposal, error) {
			var p *types.Proposal
			err := e.view(ctx, func(v *state.State) error {
				var err error
				p, err = v.Proposal(proposalID)
				return err
			})
			return p, err
		})
		return err
	})
	return proposal, err
}

// GetVote 查询投票记录，不存在时返回 nil
func (e *Engine) GetVote(ctx context.Context, proposalID uint64, voter types.Address) (*types.Vote, error) {
	var vote *types.Vote
	err := e.read(opGetVote, func() error {
		if _, err := validation.ValidateAddress(voter); err != nil {
			return err
		}
		return e.view(ctx, func(v *state.State) error {
			var err error
			vote, err = v.Vote(proposalID, voter)
			return err
		})
	})
	return vote, err
}

// GetPriceFeed 查询报价，不存在时返回 nil
func (e *Engine) GetPriceFeed(ctx context.Context, assetID uint64) (*types.PriceFeed, error) {
	var feed *types.PriceFeed
	err := e.read(opGetPriceFeed, func() error {
		var err error
		feed, err = query.Fetch(ctx, e.cache, query.PriceKey(assetID), func() (*types.PriceFeed, error) {
			var f *types.PriceFeed
			err := e.view(ctx, func(v *state.State) error {
				var err error
				f, err = v.Price(assetID)
				return err
			})
			return f, err
		})
		return err
	})
	return feed, err
}

// GetLastClaim 查询上次领取时的累计分红快照，不存在时为 0
func (e *Engine) GetLastClaim(ctx context.Context, assetID uint64, claimer types.Address) (uint64, error) {
	var last uint64
	err := e.read(opGetLastClaim, func() error {
		if _, err := validation.ValidateAddress(claimer); err != nil {
			return err
		}
		return e.view(ctx, func(v *state.State) error {
			var err error
			last, err = dividend.LastClaim(v, assetID, claimer)
			return err
		})
	})
	return last, err
}

// GetKycStatus 查询 KYC 状态，不存在时返回 nil
func (e *Engine) GetKycStatus(ctx context.Context, account types.Address) (*types.KycStatus, error) {
	var status *types.KycStatus
	err := e.read(opGetKycStatus, func() error {
		if _, err := validation.ValidateAddress(account); err != nil {
			return err
		}
		return e.view(ctx, func(v *state.State) error {
			var err error
			status, err = compliance.Status(v, account)
			return err
		})
	})
	return status, err
}

// CheckPriceFresh 价格新鲜度检查
func (e *Engine) CheckPriceFresh(ctx context.Context, assetID, height uint64) (*types.PriceFeed, error) {
	var feed *types.PriceFeed
	err := e.read(opCheckPriceFresh, func() error {
		return e.view(ctx, func(v *state.State) error {
			var err error
			feed, err = pricefeed.CheckFresh(v, assetID, height, e.opts.PriceMaxAge)
			return err
		})
	})
	return feed, err
}

// GetSupply 资产份额总量
func (e *Engine) GetSupply(ctx context.Context, assetID uint64) (uint64, error) {
	var supply uint64
	err := e.read(opGetSupply, func() error {
		return e.view(ctx, func(v *state.State) error {
			var err error
			supply, err = tokens.SupplyOf(v, assetID)
			return err
		})
	})
	return supply, err
}

// Holders 资产的非零持仓
func (e *Engine) Holders(ctx context.Context, assetID uint64) ([]types.TokenBalance, error) {
	var holders []types.TokenBalance
	err := e.read(opHolders, func() error {
		return e.view(ctx, func(v *state.State) error {
			var err error
			holders, err = tokens.Holders(v, assetID)
			return err
		})
	})
	return holders, err
}

// ListAssets 列出全部资产
func (e *Engine) ListAssets(ctx context.Context) ([]*types.Asset, error) {
	var assets []*types.Asset
	err := e.read(opListAssets, func() error {
		return e.view(ctx, func(v *state.State) error {
			return v.EachAsset(func(a *types.Asset) error {
				assets = append(assets, a)
				return nil
			})
		})
	})
	return assets, err
}

// ListProposals 列出全部提案
func (e *Engine) ListProposals(ctx context.Context) ([]*types.Proposal, error) {
	var proposals []*types.Proposal
	err := e.read(opListProposals, func() error {
		return e.view(ctx, func(v *state.State) error {
			return v.EachProposal(func(p *types.Proposal) error {
				proposals = append(proposals, p)
				return nil
			})
		})
	})
	return proposals, err
}

// read 在读锁内执行查询并记录指标
func (e *Engine) read(op string, fn func() error) error {
	start := time.Now()
	e.mu.RLock()
	err := fn()
	e.mu.RUnlock()
	observe(op, start, err)
	if err != nil && e.logger != nil {
		if _, ok := types.CodeOf(err); !ok {
			e.logger.With("op", op).Errorf("账本查询失败: %v", err)
		}
	}
	return err
}

func (e *Engine) view(ctx context.Context, fn func(v *state.State) error) error {
	return e.store.View(ctx, func(tx storage.BadgerTransaction) error {
		return fn(state.New(tx))
	})
}
