package log

import "go.uber.org/zap/zapcore"

// 日志配置默认值
const (
	defaultLogLevel  = "info"
	defaultToConsole = true
	defaultFilePath  = "" // 默认只输出控制台

	defaultEnableMultiFile = false
	defaultSystemLogFile   = "ledger-system.log"
	defaultBusinessLogFile = "ledger-business.log"

	// 轮转：单文件 100MB，保留 10 份、30 天
	defaultMaxSize    = 100
	defaultMaxBackups = 10
	defaultMaxAge     = 30
	defaultCompress   = true

	defaultEnableCaller     = true
	defaultEnableStacktrace = true
)

var levelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}
