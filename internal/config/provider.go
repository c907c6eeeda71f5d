package config

import (
	"github.com/weisyn/rwaledger/internal/config/api"
	"github.com/weisyn/rwaledger/internal/config/ledger"
	"github.com/weisyn/rwaledger/internal/config/log"
	"github.com/weisyn/rwaledger/internal/config/storage/badger"
	"github.com/weisyn/rwaledger/internal/config/storage/memory"
	"github.com/weisyn/rwaledger/pkg/interfaces/config"
)

// Provider 实现配置提供者接口
//
// 各段选项在构造时一次性解析，之后的 Get 调用返回同一份实例。
type Provider struct {
	appConfig *AppConfig

	ledger  *ledger.LedgerOptions
	log     *log.LogOptions
	storage *badger.BadgerOptions
	cache   *memory.MemoryOptions
	api     *api.APIOptions
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
		ledger:    ledger.New(appConfig.Ledger).GetOptions(),
		log:       log.New(appConfig.Log).GetOptions(),
		storage:   badger.New(appConfig.Storage).GetOptions(),
		cache:     memory.New(appConfig.Cache).GetOptions(),
		api:       api.New(appConfig.API).GetOptions(),
	}
}

// GetLedger 获取账本配置
func (p *Provider) GetLedger() *ledger.LedgerOptions { return p.ledger }

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions { return p.log }

// GetStorage 获取 BadgerDB 存储配置
func (p *Provider) GetStorage() *badger.BadgerOptions { return p.storage }

// GetCache 获取查询缓存配置
func (p *Provider) GetCache() *memory.MemoryOptions { return p.cache }

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions { return p.api }

// Validate 启动时校验全部配置
func (p *Provider) Validate() error {
	return p.ledger.Validate()
}
