// Package log 提供日志模块的配置
package log

import (
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 日志文件路径，空字符串表示不写文件

	// === 多文件配置 ===
	EnableMultiFile bool   `json:"enable_multi_file"` // 按 module 字段拆分 system/business 两个文件
	LogDir          string `json:"log_dir"`           // 多文件模式下的目录，空则取 FilePath 所在目录

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `json:"enable_caller"`     // 是否启用调用者信息
	EnableStacktrace bool `json:"enable_stacktrace"` // 是否启用堆栈跟踪
}

// UserLogConfig 配置文件中的日志段，指针字段区分“未设置”与“零值”
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`
	ToConsole *bool   `json:"to_console,omitempty"`
	FilePath  *string `json:"file_path,omitempty"`
	MultiFile *bool   `json:"enable_multi_file,omitempty"`
	LogDir    *string `json:"log_dir,omitempty"`
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置，userConfig 可以是 *UserLogConfig 或 *LogOptions
func New(userConfig interface{}) *Config {
	options := createDefaultLogOptions()

	switch uc := userConfig.(type) {
	case *LogOptions:
		if uc != nil {
			options = uc
		}
	case *UserLogConfig:
		applyUserLogConfig(options, uc)
	}

	return &Config{options: options}
}

// NewFromProvider 从配置提供者创建日志配置
func NewFromProvider(provider interface{}) *Config {
	if p, ok := provider.(interface{ GetLog() *LogOptions }); ok && p.GetLog() != nil {
		return &Config{options: p.GetLog()}
	}
	return New(nil)
}

// DefaultOptions 返回一份默认日志配置
func DefaultOptions() *LogOptions {
	return createDefaultLogOptions()
}

func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		FilePath:         defaultFilePath,
		EnableMultiFile:  defaultEnableMultiFile,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}
}

// ApplyUser 把配置文件中的日志段叠加到选项上
func ApplyUser(options *LogOptions, uc *UserLogConfig) {
	applyUserLogConfig(options, uc)
}

func applyUserLogConfig(options *LogOptions, uc *UserLogConfig) {
	if uc == nil {
		return
	}
	if uc.Level != nil {
		options.Level = *uc.Level
	}
	if uc.FilePath != nil {
		options.FilePath = *uc.FilePath
		options.ToConsole = false // 指定文件路径时默认不输出到控制台
	}
	if uc.ToConsole != nil {
		options.ToConsole = *uc.ToConsole
	}
	if uc.MultiFile != nil {
		options.EnableMultiFile = *uc.MultiFile
	}
	if uc.LogDir != nil {
		options.LogDir = *uc.LogDir
	}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions { return c.options }

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, ok := levelMap[c.options.Level]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool { return c.options.ToConsole }

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string { return c.options.FilePath }

// IsMultiFileEnabled 是否启用 system/business 拆分
func (c *Config) IsMultiFileEnabled() bool { return c.options.EnableMultiFile }

// GetLogDir 多文件模式的日志目录
func (c *Config) GetLogDir() string { return c.options.LogDir }

// GetSystemLogFile 系统日志文件名
func (c *Config) GetSystemLogFile() string { return defaultSystemLogFile }

// GetBusinessLogFile 业务日志文件名
func (c *Config) GetBusinessLogFile() string { return defaultBusinessLogFile }

// GetMaxSize 获取单个文件最大大小(MB)
func (c *Config) GetMaxSize() int { return c.options.MaxSize }

// GetMaxBackups 获取最大备份文件数
func (c *Config) GetMaxBackups() int { return c.options.MaxBackups }

// GetMaxAge 获取最大保留天数
func (c *Config) GetMaxAge() int { return c.options.MaxAge }

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool { return c.options.Compress }

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool { return c.options.EnableCaller }

// IsStacktraceEnabled 是否启用堆栈跟踪
func (c *Config) IsStacktraceEnabled() bool { return c.options.EnableStacktrace }

// CreateFileEncoder 创建文件编码器（JSON）
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
