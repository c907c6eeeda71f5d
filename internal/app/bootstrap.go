package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	httpapi "github.com/weisyn/rwaledger/internal/api/http"
	"github.com/weisyn/rwaledger/internal/config"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/event"
	log "github.com/weisyn/rwaledger/internal/core/infrastructure/log"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage"
	"github.com/weisyn/rwaledger/internal/core/ledger"
)

// startTimeout 启动超时，包含 BadgerDB 打开与值日志回放
const startTimeout = 60 * time.Second

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts      *options
	appConfig *config.AppConfig
	fxApp     *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Supply(b.appConfig),
		config.Module(), // 1. 配置(不依赖其他)
		log.Module(),    // 2. 日志(依赖配置)
	}
}

// SetupCommunicationLayer 设置通信与数据层模块
func (b *Bootstrap) SetupCommunicationLayer() []fx.Option {
	return []fx.Option{
		event.Module(),   // 事件(依赖日志)
		storage.Module(), // 存储(依赖配置和日志)
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		ledger.Module(), // 账本引擎与查询缓存(依赖存储和事件)
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	var modules []fx.Option
	if b.opts.enableAPI {
		modules = append(modules, httpapi.Module())
	}
	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() ([]fx.Option, error) {
	appConfig, err := b.opts.resolveAppConfig()
	if err != nil {
		return nil, err
	}
	b.appConfig = appConfig

	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupCommunicationLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	return allModules, nil
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	modules, err := b.SetupModules()
	if err != nil {
		return err
	}

	b.fxApp = fx.New(
		fx.Options(modules...),
		// 禁用fx内部日志
		fx.NopLogger,
	)
	return b.fxApp.Err()
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(options ...Option) (App, error) {
	bootstrap := NewBootstrap(newOptions(options...))

	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), startTimeout)
	defer startupCancel()
	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}
