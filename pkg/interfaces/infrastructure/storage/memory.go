package storage

import "context"

// MemoryStore 定义了进程内缓存接口
//
// 仅用于读路径加速（见 internal/core/ledger/query），不是状态的来源。
type MemoryStore interface {
	// Get 获取缓存值，返回值、是否存在及可能的错误
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除指定键的缓存，键不存在时不返回错误
	Delete(ctx context.Context, key string) error

	// Clear 清空所有缓存
	Clear(ctx context.Context) error

	// Count 获取当前缓存中的键数量
	Count(ctx context.Context) (int64, error)

	// Close 释放缓存资源
	Close() error
}
