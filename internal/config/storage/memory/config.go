package memory

import "time"

// MemoryOptions 查询缓存（bigcache）配置选项
type MemoryOptions struct {
	Enabled            bool          `json:"enabled"`               // 是否启用查询缓存
	LifeWindow         time.Duration `json:"life_window"`           // 条目存活时间
	CleanWindow        time.Duration `json:"clean_window"`          // 过期清理间隔
	MaxEntriesInWindow int           `json:"max_entries_in_window"` // 窗口内预估条目数，用于预分配
	MaxEntrySize       int           `json:"max_entry_size"`        // 单条目预估大小(字节)
	HardMaxCacheSize   int           `json:"hard_max_cache_size"`   // 缓存上限(MB)，0 表示不限
}

// UserMemoryConfig 配置文件中的 cache 段，时长使用 time.ParseDuration 格式
type UserMemoryConfig struct {
	Enabled          *bool   `json:"enabled,omitempty"`
	LifeWindow       *string `json:"life_window,omitempty"`
	CleanWindow      *string `json:"clean_window,omitempty"`
	MaxEntrySize     *int    `json:"max_entry_size,omitempty"`
	HardMaxCacheSize *int    `json:"hard_max_cache_size,omitempty"`
}

// Config 内存存储配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存存储配置实现
func New(userConfig *UserMemoryConfig) *Config {
	options := createDefaultMemoryOptions()
	if userConfig != nil {
		applyUserConfig(options, userConfig)
	}
	return &Config{options: options}
}

// createDefaultMemoryOptions 创建默认内存存储配置
func createDefaultMemoryOptions() *MemoryOptions {
	return &MemoryOptions{
		Enabled:            defaultEnabled,
		LifeWindow:         defaultLifeWindow,
		CleanWindow:        defaultCleanWindow,
		MaxEntriesInWindow: defaultMaxEntriesInWindow,
		MaxEntrySize:       defaultMaxEntrySize,
		HardMaxCacheSize:   defaultHardMaxCacheSize,
	}
}

// applyUserConfig 无法解析的时长保留默认值
func applyUserConfig(options *MemoryOptions, uc *UserMemoryConfig) {
	if uc.Enabled != nil {
		options.Enabled = *uc.Enabled
	}
	if uc.LifeWindow != nil {
		if d, err := time.ParseDuration(*uc.LifeWindow); err == nil && d > 0 {
			options.LifeWindow = d
		}
	}
	if uc.CleanWindow != nil {
		if d, err := time.ParseDuration(*uc.CleanWindow); err == nil && d >= 0 {
			options.CleanWindow = d
		}
	}
	if uc.MaxEntrySize != nil && *uc.MaxEntrySize > 0 {
		options.MaxEntrySize = *uc.MaxEntrySize
	}
	if uc.HardMaxCacheSize != nil && *uc.HardMaxCacheSize >= 0 {
		options.HardMaxCacheSize = *uc.HardMaxCacheSize
	}
}

// GetOptions 获取完整的内存存储配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}

// GetLifeWindow 获取生命周期窗口
func (c *Config) GetLifeWindow() time.Duration {
	return c.options.LifeWindow
}

// GetCleanWindow 获取清理窗口
func (c *Config) GetCleanWindow() time.Duration {
	return c.options.CleanWindow
}

// GetMaxEntrySize 获取最大条目大小
func (c *Config) GetMaxEntrySize() int {
	return c.options.MaxEntrySize
}

// NewFromOptions 从MemoryOptions创建配置实现
func NewFromOptions(options *MemoryOptions) *Config {
	return &Config{options: options}
}
