// Package event 提供事件管理功能
package event

import (
	"context"

	"go.uber.org/fx"

	eventInterface "github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Logger    log.Logger   `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle // 生命周期管理
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus // 基础事件总线
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建事件总线，停止时等待异步订阅者处理完毕
func ProvideServices(input ModuleInput) ModuleOutput {
	var logger log.Logger
	if input.Logger != nil {
		logger = input.Logger.With("module", "event")
	}
	bus := New(logger)

	input.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			bus.Stop()
			if logger != nil {
				published, dropped := bus.Stats()
				logger.Infof("事件总线已停止: published=%d dropped=%d", published, dropped)
			}
			return nil
		},
	})

	return ModuleOutput{EventBus: bus}
}
