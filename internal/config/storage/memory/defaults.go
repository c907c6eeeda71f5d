package memory

import "time"

// 查询缓存默认配置值
//
// 账本记录都是小 JSON，1KB 的条目预估和 1 万条的窗口足以覆盖典型负载。
const (
	defaultEnabled            = true
	defaultLifeWindow         = 10 * time.Minute
	defaultCleanWindow        = 5 * time.Minute
	defaultMaxEntriesInWindow = 10000
	defaultMaxEntrySize       = 1024
	defaultHardMaxCacheSize   = 64
)
