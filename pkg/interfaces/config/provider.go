// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/rwaledger/internal/config/api"
	ledgerconfig "github.com/weisyn/rwaledger/internal/config/ledger"
	logconfig "github.com/weisyn/rwaledger/internal/config/log"
	badgerconfig "github.com/weisyn/rwaledger/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/rwaledger/internal/config/storage/memory"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLedger 获取账本配置（管理员、合规机构、预言机、价格年龄）
	GetLedger() *ledgerconfig.LedgerOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetStorage 获取 BadgerDB 存储配置
	GetStorage() *badgerconfig.BadgerOptions

	// GetCache 获取查询缓存配置
	GetCache() *memoryconfig.MemoryOptions

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// Validate 校验配置，启动时调用
	Validate() error
}
