package api

import "time"

// API服务默认配置值
const (
	defaultEnabled = true

	// defaultHost 默认仅监听本地
	defaultHost = "127.0.0.1"
	defaultPort = 28680

	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	// defaultMaxRequestSize 默认 1MB
	defaultMaxRequestSize int64 = 1 << 20

	defaultEnableMetrics = true

	defaultReadRateLimit  = 200
	defaultWriteRateLimit = 20
)
