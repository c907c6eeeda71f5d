package badger

// BadgerOptions BadgerDB存储配置选项
type BadgerOptions struct {
	// === 基础配置 ===
	Path       string `json:"path"`        // 数据库存储路径
	InMemory   bool   `json:"in_memory"`   // 纯内存模式，不落盘（测试与演示用）
	SyncWrites bool   `json:"sync_writes"` // 是否同步写入（数据安全性）
	ReadOnly   bool   `json:"-"`           // 只读打开，仅由 inspect 命令设置

	// === 基础性能配置 ===
	MemTableSize int64 `json:"mem_table_size"` // 内存表大小
}

// UserBadgerConfig 配置文件中的 storage 段
type UserBadgerConfig struct {
	Path         *string `json:"path,omitempty"`
	InMemory     *bool   `json:"in_memory,omitempty"`
	SyncWrites   *bool   `json:"sync_writes,omitempty"`
	MemTableSize *int64  `json:"mem_table_size,omitempty"`
}

// Config BadgerDB配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置实现
func New(userConfig *UserBadgerConfig) *Config {
	defaultOptions := createDefaultBadgerOptions()

	// 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从BadgerOptions创建配置实现
func NewFromOptions(options *BadgerOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultBadgerOptions 创建默认BadgerDB配置
func createDefaultBadgerOptions() *BadgerOptions {
	return &BadgerOptions{
		Path:         defaultPath,
		InMemory:     defaultInMemory,
		SyncWrites:   defaultSyncWrites,
		MemTableSize: defaultMemTableSize,
	}
}

// applyUserConfig 只覆盖 JSON 中实际出现的字段
func applyUserConfig(options *BadgerOptions, uc *UserBadgerConfig) {
	if uc.Path != nil {
		options.Path = *uc.Path
	}
	if uc.InMemory != nil {
		options.InMemory = *uc.InMemory
	}
	if uc.SyncWrites != nil {
		options.SyncWrites = *uc.SyncWrites
	}
	if uc.MemTableSize != nil && *uc.MemTableSize > 0 {
		options.MemTableSize = *uc.MemTableSize
	}
}

// GetOptions 获取完整的BadgerDB配置选项
func (c *Config) GetOptions() *BadgerOptions {
	return c.options
}

// === 基础配置访问方法 ===

// GetPath 获取数据库路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsInMemory 是否为纯内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}

// IsSyncWritesEnabled 是否启用同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// GetMemTableSize 获取内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}
