// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/allegro/bigcache/v3"
	memoryconfig "github.com/weisyn/rwaledger/internal/config/storage/memory"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
)

// shards 分片数，bigcache 要求为 2 的幂
const shards = 256

// Store 实现了MemoryStore接口，基于BigCache提供内存缓存功能
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
}

// New 创建一个新的BigCache内存存储实例
func New(config *memoryconfig.Config, logger log.Logger) (storage.MemoryStore, error) {
	opts := config.GetOptions()

	bigCacheConfig := bigcache.DefaultConfig(opts.LifeWindow)
	bigCacheConfig.Shards = shards
	bigCacheConfig.CleanWindow = opts.CleanWindow
	bigCacheConfig.MaxEntriesInWindow = opts.MaxEntriesInWindow
	bigCacheConfig.MaxEntrySize = opts.MaxEntrySize
	bigCacheConfig.HardMaxCacheSize = opts.HardMaxCacheSize
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	if logger != nil {
		logger.Debugf("查询缓存已创建: life_window=%s, max_entry_size=%d", opts.LifeWindow, opts.MaxEntrySize)
	}

	return &Store{
		cache:  cache,
		logger: logger,
	}, nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}

	err := s.cache.Close()
	if err == nil {
		s.closed = true
	}
	return err
}

// Get 获取缓存值
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil, false, nil
	}

	value, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set 设置缓存值
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil
	}

	if err := s.cache.Set(key, value); err != nil {
		if s.logger != nil {
			s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		}
		return err
	}
	return nil
}

// Delete 删除指定键的缓存
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

// Clear 清空所有缓存
func (s *Store) Clear(ctx context.Context) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return nil
	}
	return s.cache.Reset()
}

// Count 获取当前缓存中的键数量
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return 0, nil
	}
	return int64(s.cache.Len()), nil
}
