// Package query 提供账本读路径的通读缓存
//
// 缓存基于 MemoryStore（bigcache），只缓存已存在的记录；条目由账本事件失效，
// 失效订阅为同步订阅，因此 Publish 返回时旧条目已被删除。
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/weisyn/rwaledger/pkg/constants/events"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/rwaledger/pkg/types"
)

// Cache 账本查询缓存
//
// store 为 nil 时退化为直通（cache.enabled=false）。
type Cache struct {
	store  storage.MemoryStore
	logger log.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New 创建查询缓存并订阅失效事件
func New(store storage.MemoryStore, bus event.EventBus, logger log.Logger) (*Cache, error) {
	c := &Cache{store: store, logger: logger}
	if store == nil || bus == nil {
		return c, nil
	}
	subs := map[event.EventType]func(*types.LedgerEvent){
		events.EventTypeAssetRegistered:   c.onAssetChanged,
		events.EventTypeDividendsRecorded: c.onAssetChanged,
		events.EventTypePriceReported:     c.onPriceReported,
		events.EventTypeVoteCast:          c.onVoteCast,
	}
	for typ, handler := range subs {
		if err := bus.Subscribe(typ, handler); err != nil {
			return nil, fmt.Errorf("订阅缓存失效事件 %s 失败: %w", typ, err)
		}
	}
	return c, nil
}

// AssetKey 资产缓存键
func AssetKey(id uint64) string { return fmt.Sprintf("asset/%d", id) }

// ProposalKey 提案缓存键
func ProposalKey(id uint64) string { return fmt.Sprintf("proposal/%d", id) }

// PriceKey 报价缓存键
func PriceKey(assetID uint64) string { return fmt.Sprintf("price/%d", assetID) }

// Fetch 先查缓存，未命中时调用 load 并回填
//
// load 返回 nil 记录时不回填。缓存自身的故障只记日志，不影响读取结果。
func Fetch[T any](ctx context.Context, c *Cache, key string, load func() (*T, error)) (*T, error) {
	if c == nil || c.store == nil {
		return load()
	}

	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.warnf("读取查询缓存失败: key=%s err=%v", key, err)
	} else if ok {
		var rec T
		if err := json.Unmarshal(raw, &rec); err == nil {
			c.hits.Add(1)
			return &rec, nil
		}
		_ = c.store.Delete(ctx, key)
	}

	c.misses.Add(1)
	rec, err := load()
	if err != nil || rec == nil {
		return rec, err
	}
	if raw, err := json.Marshal(rec); err == nil {
		if err := c.store.Set(ctx, key, raw); err != nil {
			c.warnf("写入查询缓存失败: key=%s err=%v", key, err)
		}
	}
	return rec, nil
}

// Invalidate 删除指定键
func (c *Cache) Invalidate(keys ...string) {
	if c == nil || c.store == nil {
		return
	}
	for _, key := range keys {
		if err := c.store.Delete(context.Background(), key); err != nil {
			c.warnf("删除查询缓存失败: key=%s err=%v", key, err)
		}
	}
}

// Stats 返回命中与未命中次数
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) onAssetChanged(e *types.LedgerEvent) {
	c.Invalidate(AssetKey(e.AssetID))
}

// 报价同时改写资产的 last-price-update
func (c *Cache) onPriceReported(e *types.LedgerEvent) {
	c.Invalidate(PriceKey(e.AssetID), AssetKey(e.AssetID))
}

func (c *Cache) onVoteCast(e *types.LedgerEvent) {
	c.Invalidate(ProposalKey(e.ProposalID))
}

func (c *Cache) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}
