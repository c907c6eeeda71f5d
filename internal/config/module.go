// Package config 提供应用配置管理功能
package config

import (
	"github.com/weisyn/rwaledger/internal/config/api"
	"github.com/weisyn/rwaledger/internal/config/ledger"
	"github.com/weisyn/rwaledger/pkg/interfaces/config"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 配置文件内容，未提供时全部取默认值
	AppConfig *AppConfig `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *ledger.LedgerOptions {
				return provider.GetLedger()
			},
			func(provider config.Provider) *api.APIOptions {
				return provider.GetAPI()
			},
		),
	)
}

// ProvideConfigServices 创建并校验配置提供者，校验失败时应用启动失败
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	provider := NewProvider(params.AppConfig)
	if err := provider.Validate(); err != nil {
		return ConfigOutput{}, err
	}
	return ConfigOutput{Provider: provider}, nil
}
