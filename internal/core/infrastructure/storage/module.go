// Package storage 提供存储管理功能
package storage

import (
	"context"
	"fmt"

	badgerconfig "github.com/weisyn/rwaledger/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/rwaledger/internal/config/storage/memory"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/rwaledger/pkg/interfaces/config"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider // 配置提供者
	Logger    log.Logger      // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	BadgerStore storageInterface.BadgerStore // 账本状态存储（必需，失败即错误）
	MemoryStore storageInterface.MemoryStore `optional:"true"` // 查询缓存（cache.enabled=false 时为 nil）
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建存储并登记关闭钩子
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := params.Logger.With("module", "storage")

	store, err := badger.New(badgerconfig.NewFromOptions(params.Provider.GetStorage()), logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建BadgerDB存储失败: %w", err)
	}

	var cache storageInterface.MemoryStore
	if cacheOpts := params.Provider.GetCache(); cacheOpts.Enabled {
		cache, err = memory.New(memoryconfig.NewFromOptions(cacheOpts), logger)
		if err != nil {
			_ = store.Close()
			return ModuleOutput{}, fmt.Errorf("创建查询缓存失败: %w", err)
		}
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("正在关闭存储服务...")
			if cache != nil {
				if err := cache.Close(); err != nil {
					logger.Warnf("关闭查询缓存失败: %v", err)
				}
			}
			return store.Close()
		},
	})

	return ModuleOutput{
		BadgerStore: store,
		MemoryStore: cache,
	}, nil
}
