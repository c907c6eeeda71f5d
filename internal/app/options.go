package app

import (
	"github.com/weisyn/rwaledger/internal/config"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
type options struct {
	// 配置文件路径，空则取 config.DefaultConfigPath
	configFilePath string

	// 已解析的配置（优先级高于 configFilePath）
	appConfig *config.AppConfig

	// API支持开关 (默认启用)
	enableAPI bool
}

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithAppConfig 直接提供配置内容，跳过文件加载
func WithAppConfig(appConfig *config.AppConfig) Option {
	return func(o *options) {
		o.appConfig = appConfig
	}
}

// WithAPI 启用API模块
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithoutAPI 禁用API模块
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	o := &options{
		enableAPI: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// resolveAppConfig 返回最终生效的配置
func (o *options) resolveAppConfig() (*config.AppConfig, error) {
	if o.appConfig != nil {
		return o.appConfig, nil
	}
	return config.LoadFile(o.configFilePath)
}
