package ledger

// 账本默认配置值
//
// 管理员没有安全的默认值：留空会在 Validate 时被拒绝，必须由配置文件提供。

const (
	defaultAdmin               = ""
	defaultComplianceAuthority = ""

	// defaultPriceMaxAge 默认价格最大年龄 144 个高度
	defaultPriceMaxAge uint64 = 144
)
