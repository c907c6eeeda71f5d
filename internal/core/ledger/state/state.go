// Package state 提供账本记录在键值事务上的类型化视图
//
// 一次账本调用对应一个事务，所有组件通过同一个 *State 读写，
// 调用失败时事务整体丢弃。记录使用 JSON 编码。
//
// 键布局（ID 统一零填充到 20 位，保证字典序与数值序一致）：
//
//	asset/<asset-id>
//	bal/<asset-id>/<account>
//	kyc/<account>
//	prop/<proposal-id>
//	vote/<proposal-id>/<voter>
//	claim/<asset-id>/<account>
//	price/<asset-id>
//	meta/counter/<name>
package state

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/rwaledger/pkg/types"
)

// 计数器名称
const (
	CounterAsset    = "asset"
	CounterProposal = "proposal"
)

const (
	prefixAsset    = "asset/"
	prefixBalance  = "bal/"
	prefixKyc      = "kyc/"
	prefixProposal = "prop/"
	prefixVote     = "vote/"
	prefixClaim    = "claim/"
	prefixPrice    = "price/"
	prefixCounter  = "meta/counter/"
)

// State 单次调用的状态视图
type State struct {
	tx storage.BadgerTransaction
}

// New 在事务上创建状态视图
func New(tx storage.BadgerTransaction) *State {
	return &State{tx: tx}
}

func idPart(id uint64) string {
	return fmt.Sprintf("%020d", id)
}

func assetKey(id uint64) []byte { return []byte(prefixAsset + idPart(id)) }

func balancePrefix(assetID uint64) []byte { return []byte(prefixBalance + idPart(assetID) + "/") }

func balanceKey(assetID uint64, account types.Address) []byte {
	return append(balancePrefix(assetID), account...)
}

func kycKey(account types.Address) []byte { return []byte(prefixKyc + string(account)) }

func proposalKey(id uint64) []byte { return []byte(prefixProposal + idPart(id)) }

func voteKey(proposalID uint64, voter types.Address) []byte {
	return []byte(prefixVote + idPart(proposalID) + "/" + string(voter))
}

func claimKey(assetID uint64, account types.Address) []byte {
	return []byte(prefixClaim + idPart(assetID) + "/" + string(account))
}

func priceKey(assetID uint64) []byte { return []byte(prefixPrice + idPart(assetID)) }

func counterKey(name string) []byte { return []byte(prefixCounter + name) }

// getRecord 读取并解码记录，键不存在时返回 nil, nil
func getRecord[T any](tx storage.BadgerTransaction, key []byte) (*T, error) {
	raw, err := tx.Get(key)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", key, err)
	}
	if raw == nil {
		return nil, nil
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("解码 %s 失败: %w", key, err)
	}
	return &rec, nil
}

func putRecord(tx storage.BadgerTransaction, key []byte, rec interface{}) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("编码 %s 失败: %w", key, err)
	}
	if err := tx.Set(key, raw); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", key, err)
	}
	return nil
}

// iterateRecords 按键序解码前缀下的全部记录
func iterateRecords[T any](tx storage.BadgerTransaction, prefix []byte, fn func(*T) error) error {
	return tx.IteratePrefix(prefix, func(key, value []byte) error {
		var rec T
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("解码 %s 失败: %w", key, err)
		}
		return fn(&rec)
	})
}

// ==================== 资产 ====================

// Asset 读取资产，不存在时返回 nil
func (s *State) Asset(id uint64) (*types.Asset, error) {
	return getRecord[types.Asset](s.tx, assetKey(id))
}

// PutAsset 写入资产
func (s *State) PutAsset(a *types.Asset) error {
	return putRecord(s.tx, assetKey(a.ID), a)
}

// EachAsset 按 ID 升序遍历资产
func (s *State) EachAsset(fn func(*types.Asset) error) error {
	return iterateRecords(s.tx, []byte(prefixAsset), fn)
}

// ==================== 余额 ====================

// Balance 读取余额记录，不存在时返回 nil
func (s *State) Balance(assetID uint64, account types.Address) (*types.TokenBalance, error) {
	return getRecord[types.TokenBalance](s.tx, balanceKey(assetID, account))
}

// PutBalance 写入余额记录
func (s *State) PutBalance(b *types.TokenBalance) error {
	return putRecord(s.tx, balanceKey(b.AssetID, b.Account), b)
}

// EachBalance 遍历某资产的全部余额记录
func (s *State) EachBalance(assetID uint64, fn func(*types.TokenBalance) error) error {
	return iterateRecords(s.tx, balancePrefix(assetID), fn)
}

// ==================== KYC ====================

// Kyc 读取 KYC 状态，不存在时返回 nil
func (s *State) Kyc(account types.Address) (*types.KycStatus, error) {
	return getRecord[types.KycStatus](s.tx, kycKey(account))
}

// PutKyc 写入 KYC 状态
func (s *State) PutKyc(k *types.KycStatus) error {
	return putRecord(s.tx, kycKey(k.Account), k)
}

// ==================== 提案与投票 ====================

// Proposal 读取提案，不存在时返回 nil
func (s *State) Proposal(id uint64) (*types.Proposal, error) {
	return getRecord[types.Proposal](s.tx, proposalKey(id))
}

// PutProposal 写入提案
func (s *State) PutProposal(p *types.Proposal) error {
	return putRecord(s.tx, proposalKey(p.ID), p)
}

// EachProposal 按 ID 升序遍历提案
func (s *State) EachProposal(fn func(*types.Proposal) error) error {
	return iterateRecords(s.tx, []byte(prefixProposal), fn)
}

// Vote 读取投票记录，不存在时返回 nil
func (s *State) Vote(proposalID uint64, voter types.Address) (*types.Vote, error) {
	return getRecord[types.Vote](s.tx, voteKey(proposalID, voter))
}

// PutVote 写入投票记录
func (s *State) PutVote(v *types.Vote) error {
	return putRecord(s.tx, voteKey(v.ProposalID, v.Voter), v)
}

// ==================== 分红与价格 ====================

// Claim 读取分红领取记录，不存在时返回 nil
func (s *State) Claim(assetID uint64, account types.Address) (*types.DividendClaim, error) {
	return getRecord[types.DividendClaim](s.tx, claimKey(assetID, account))
}

// PutClaim 写入分红领取记录
func (s *State) PutClaim(c *types.DividendClaim) error {
	return putRecord(s.tx, claimKey(c.AssetID, c.Account), c)
}

// Price 读取价格，不存在时返回 nil
func (s *State) Price(assetID uint64) (*types.PriceFeed, error) {
	return getRecord[types.PriceFeed](s.tx, priceKey(assetID))
}

// PutPrice 写入价格
func (s *State) PutPrice(p *types.PriceFeed) error {
	return putRecord(s.tx, priceKey(p.AssetID), p)
}

// ==================== 计数器 ====================

// Counter 返回计数器当前值（最近一次分配的 ID），从未分配时为 0
func (s *State) Counter(name string) (uint64, error) {
	raw, err := s.tx.Get(counterKey(name))
	if err != nil {
		return 0, fmt.Errorf("读取计数器 %s 失败: %w", name, err)
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("计数器 %s 长度异常: %d", name, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

// NextID 分配下一个顺序 ID（从 1 开始），与创建记录处于同一事务
func (s *State) NextID(name string) (uint64, error) {
	cur, err := s.Counter(name)
	if err != nil {
		return 0, err
	}
	next := cur + 1
	if next == 0 {
		return 0, fmt.Errorf("计数器 %s 溢出", name)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := s.tx.Set(counterKey(name), buf); err != nil {
		return 0, fmt.Errorf("写入计数器 %s 失败: %w", name, err)
	}
	return next, nil
}
