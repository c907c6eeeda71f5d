package api

import (
	"fmt"
	"time"
)

// APIOptions HTTP 适配层配置选项
type APIOptions struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout     time.Duration `json:"read_timeout"`     // 读取超时时间
	WriteTimeout    time.Duration `json:"write_timeout"`    // 写入超时时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout"` // 优雅关闭等待时间

	// 限制
	MaxRequestSize int64 `json:"max_request_size"` // 最大请求体(字节)
	EnableMetrics  bool  `json:"enable_metrics"`   // 是否暴露 /metrics

	// 按客户端 IP 的每秒请求数，0 表示不限流
	ReadRateLimit  int `json:"read_rate_limit"`
	WriteRateLimit int `json:"write_rate_limit"`
}

// UserAPIConfig 配置文件中的 api 段
type UserAPIConfig struct {
	Enabled        *bool   `json:"enabled,omitempty"`
	Host           *string `json:"host,omitempty"`
	Port           *int    `json:"port,omitempty"`
	ReadTimeout    *string `json:"read_timeout,omitempty"`
	WriteTimeout   *string `json:"write_timeout,omitempty"`
	MaxRequestSize *int64  `json:"max_request_size,omitempty"`
	EnableMetrics  *bool   `json:"enable_metrics,omitempty"`
	ReadRateLimit  *int    `json:"read_rate_limit,omitempty"`
	WriteRateLimit *int    `json:"write_rate_limit,omitempty"`
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	options := createDefaultAPIOptions()

	// 2. 如果有用户配置，则覆盖默认配置
	if userConfig != nil {
		mergeUserConfig(options, userConfig)
	}

	return &Config{options: options}
}

func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		Enabled:         defaultEnabled,
		Host:            defaultHost,
		Port:            defaultPort,
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		ShutdownTimeout: defaultShutdownTimeout,
		MaxRequestSize:  defaultMaxRequestSize,
		EnableMetrics:   defaultEnableMetrics,
		ReadRateLimit:   defaultReadRateLimit,
		WriteRateLimit:  defaultWriteRateLimit,
	}
}

func mergeUserConfig(options *APIOptions, uc *UserAPIConfig) {
	if uc.Enabled != nil {
		options.Enabled = *uc.Enabled
	}
	if uc.Host != nil {
		options.Host = *uc.Host
	}
	if uc.Port != nil && *uc.Port > 0 && *uc.Port < 65536 {
		options.Port = *uc.Port
	}
	if uc.ReadTimeout != nil {
		if d, err := time.ParseDuration(*uc.ReadTimeout); err == nil {
			options.ReadTimeout = d
		}
	}
	if uc.WriteTimeout != nil {
		if d, err := time.ParseDuration(*uc.WriteTimeout); err == nil {
			options.WriteTimeout = d
		}
	}
	if uc.MaxRequestSize != nil && *uc.MaxRequestSize > 0 {
		options.MaxRequestSize = *uc.MaxRequestSize
	}
	if uc.EnableMetrics != nil {
		options.EnableMetrics = *uc.EnableMetrics
	}
	if uc.ReadRateLimit != nil && *uc.ReadRateLimit >= 0 {
		options.ReadRateLimit = *uc.ReadRateLimit
	}
	if uc.WriteRateLimit != nil && *uc.WriteRateLimit >= 0 {
		options.WriteRateLimit = *uc.WriteRateLimit
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// Addr 返回 host:port 监听地址
func (o *APIOptions) Addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}
