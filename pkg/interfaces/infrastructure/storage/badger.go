// Package storage 定义账本状态存储接口
//
// 账本的全部记录（资产、余额、提案、投票、分红领取、KYC、价格）都以键值形式落在 BadgerStore 中。
// 每一次变更型调用在单个 RunInTransaction 内完成：函数返回错误时事务被丢弃，状态保持调用前的样子。
package storage

import (
	"context"
)

// BadgerStore 定义了键值存储的应用接口
type BadgerStore interface {
	// Close 关闭数据库连接，确保数据被正确写入磁盘
	Close() error

	// Get 获取指定键的值；键不存在时返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键；键不存在时不返回错误
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 返回所有以 prefix 开头的键值对，map 的键为键的字符串表示
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// View 在只读事务中执行 fn，fn 中的写操作会返回错误
	View(ctx context.Context, fn func(tx BadgerTransaction) error) error

	// RunInTransaction 在读写事务中执行 fn
	// fn 返回错误时事务被回滚，否则提交
	RunInTransaction(ctx context.Context, fn func(tx BadgerTransaction) error) error
}

// BadgerTransaction 定义了键值存储事务操作接口
type BadgerTransaction interface {
	// Get 获取指定键的值；键不存在时返回nil值和nil错误
	Get(key []byte) ([]byte, error)

	// Set 设置键值对
	Set(key, value []byte) error

	// Delete 删除指定键的值
	Delete(key []byte) error

	// Exists 检查键是否存在
	Exists(key []byte) (bool, error)

	// IteratePrefix 按键序遍历以 prefix 开头的条目，fn 返回错误时停止遍历
	IteratePrefix(prefix []byte, fn func(key, value []byte) error) error
}
