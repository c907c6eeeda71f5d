// Package log 提供基于zap的日志实现
// 支持控制台/文件输出、按 module 字段拆分系统与业务日志、日志轮转
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	logconfig "github.com/weisyn/rwaledger/internal/config/log"
	logInterface "github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// 全局日志实例
	globalLogger logInterface.Logger
	mu           sync.RWMutex
)

// Logger 是日志记录器的结构体，实现了log.Logger接口
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

func init() {
	ResetDefault()
}

// ResetDefault 重置全局日志记录器为默认配置
func ResetDefault() {
	logger, err := New(logconfig.New(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize default logger: %v\n", err)
		return
	}
	SetLogger(logger)
}

// moduleRoutingCore 基于 module 字段的路由 Core
// 基础设施模块写入 system 日志，账本与 API 写入 business 日志
type moduleRoutingCore struct {
	systemCore   zapcore.Core
	businessCore zapcore.Core
	fallbackCore zapcore.Core // 没有 module 字段时的默认 core
}

// Enabled 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Enabled(level zapcore.Level) bool {
	return c.systemCore.Enabled(level) || c.businessCore.Enabled(level) || c.fallbackCore.Enabled(level)
}

// With 实现 zapcore.Core 接口
func (c *moduleRoutingCore) With(fields []zapcore.Field) zapcore.Core {
	// With 携带的 module 字段在 Write 阶段不可见，这里提前决定路由
	if module := moduleOf(fields); module != "" {
		switch {
		case isSystemModule(module):
			return c.systemCore.With(fields)
		case isBusinessModule(module):
			return c.businessCore.With(fields)
		}
	}
	return &moduleRoutingCore{
		systemCore:   c.systemCore.With(fields),
		businessCore: c.businessCore.With(fields),
		fallbackCore: c.fallbackCore.With(fields),
	}
}

// Check 实现 zapcore.Core 接口，实际路由在 Write 中进行
func (c *moduleRoutingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	module := moduleOf(fields)
	switch {
	case isSystemModule(module):
		return c.systemCore.Write(entry, fields)
	case isBusinessModule(module):
		return c.businessCore.Write(entry, fields)
	default:
		return c.fallbackCore.Write(entry, fields)
	}
}

// Sync 实现 zapcore.Core 接口
func (c *moduleRoutingCore) Sync() error {
	var errs []error
	for _, core := range []zapcore.Core{c.systemCore, c.businessCore, c.fallbackCore} {
		if err := core.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("同步日志文件失败: %v", errs)
	}
	return nil
}

func moduleOf(fields []zapcore.Field) string {
	for _, field := range fields {
		if field.Key != "module" {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.StringerType:
			if s, ok := field.Interface.(fmt.Stringer); ok && s != nil {
				return s.String()
			}
		default:
			if str, ok := field.Interface.(string); ok {
				return str
			}
		}
	}
	return ""
}

// isSystemModule 基础设施模块
func isSystemModule(module string) bool {
	switch module {
	case "storage", "event", "cache", "config", "system":
		return true
	}
	return false
}

// isBusinessModule 业务模块
func isBusinessModule(module string) bool {
	switch module {
	case "ledger", "api", "cli":
		return true
	}
	return false
}

// createFileWriter 创建带轮转的日志文件写入器
func createFileWriter(logPath string, config *logconfig.Config) zapcore.WriteSyncer {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "创建日志目录失败 %s: %v\n", logDir, err)
		return zapcore.AddSync(os.Stderr)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.GetMaxSize(), // megabytes
		MaxBackups: config.GetMaxBackups(),
		MaxAge:     config.GetMaxAge(), // days
		Compress:   config.IsCompressionEnabled(),
	})
}

// New 根据配置创建新的日志记录器
func New(config *logconfig.Config) (logInterface.Logger, error) {
	level := zap.NewAtomicLevelAt(config.GetZapLevel())

	var cores []zapcore.Core

	outputPath := config.GetFilePath()
	if config.IsConsoleEnabled() || outputPath == "stdout" || outputPath == "stderr" {
		output := zapcore.AddSync(os.Stdout)
		if outputPath == "stderr" {
			output = zapcore.AddSync(os.Stderr)
		}
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), output, level))
	}

	if outputPath != "" && outputPath != "stdout" && outputPath != "stderr" {
		fileEncoder := config.CreateFileEncoder()
		if config.IsMultiFileEnabled() {
			logDir := config.GetLogDir()
			if logDir == "" {
				logDir = filepath.Dir(outputPath)
			}
			systemCore := zapcore.NewCore(fileEncoder,
				createFileWriter(filepath.Join(logDir, config.GetSystemLogFile()), config), level)
			businessCore := zapcore.NewCore(fileEncoder,
				createFileWriter(filepath.Join(logDir, config.GetBusinessLogFile()), config), level)

			cores = append(cores, &moduleRoutingCore{
				systemCore:   systemCore,
				businessCore: businessCore,
				fallbackCore: zapcore.NewTee(systemCore, businessCore), // 没有 module 字段时写入两个文件
			})
		} else {
			absPath, err := filepath.Abs(outputPath)
			if err != nil {
				return nil, fmt.Errorf("获取日志文件绝对路径失败: %w", err)
			}
			cores = append(cores, zapcore.NewCore(fileEncoder, createFileWriter(absPath, config), level))
		}
	}

	var zapOptions []zap.Option
	if config.IsCallerEnabled() {
		// 跳过一层封装，让调用位置指向业务代码
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.IsStacktraceEnabled() {
		zapOptions = append(zapOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zapOptions...)
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}, nil
}

// NewFromZap 用已有的 zap.Logger 构造日志记录器（测试中常配合 zaptest/observer 使用）
func NewFromZap(z *zap.Logger) logInterface.Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// NewNop 返回丢弃所有输出的日志记录器
func NewNop() logInterface.Logger {
	return NewFromZap(zap.NewNop())
}

// SetLogger 设置全局日志记录器
func SetLogger(logger logInterface.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
}

// GetLogger 获取全局日志记录器
func GetLogger() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// toZapFields 将 key, value 成对参数转换为zap字段，奇数个时丢弃最后一个
func toZapFields(args ...interface{}) []zap.Field {
	if len(args)%2 != 0 {
		args = args[:len(args)-1]
	}
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger { return l.zapLogger }

// Debug 记录调试级别的日志
func (l *Logger) Debug(msg string) { l.sugar.Debug(msg) }

// Debugf 使用格式化字符串记录调试级别的日志
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info 记录信息级别的日志
func (l *Logger) Info(msg string) { l.sugar.Info(msg) }

// Infof 使用格式化字符串记录信息级别的日志
func (l *Logger) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn 记录警告级别的日志
func (l *Logger) Warn(msg string) { l.sugar.Warn(msg) }

// Warnf 使用格式化字符串记录警告级别的日志
func (l *Logger) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error 记录错误级别的日志
func (l *Logger) Error(msg string) { l.sugar.Error(msg) }

// Errorf 使用格式化字符串记录错误级别的日志
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With 返回一个带有额外字段的Logger
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	z := l.zapLogger.With(toZapFields(args...)...)
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// Sync 同步日志缓冲区到输出
func (l *Logger) Sync() error { return l.zapLogger.Sync() }
