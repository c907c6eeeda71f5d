package badger

// BadgerDB存储默认配置值

const (
	// defaultPath 默认数据目录
	defaultPath = "./data/badger"

	// defaultInMemory 默认落盘
	defaultInMemory = false

	// defaultSyncWrites 默认启用同步写入
	// 每次账本调用一个事务，提交即持久化
	defaultSyncWrites = true

	// defaultMemTableSize 默认内存表大小为64MB
	defaultMemTableSize = 64 << 20
)
