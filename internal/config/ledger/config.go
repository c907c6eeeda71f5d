// Package ledger 提供账本引擎的配置
//
// 账本的特权身份（管理员、合规机构、预言机）都是显式配置项，由引擎在调用入口处比对。
package ledger

import (
	"fmt"

	"github.com/weisyn/rwaledger/internal/core/ledger/validation"
	"github.com/weisyn/rwaledger/pkg/types"
)

// LedgerOptions 账本配置选项
type LedgerOptions struct {
	// === 身份配置 ===
	Admin               types.Address   `json:"admin"`                // 合约管理员，唯一可登记资产的身份
	ComplianceAuthority types.Address   `json:"compliance_authority"` // 合规机构，唯一可写入 KYC 状态的身份
	Oracles             []types.Address `json:"oracles"`              // 允许上报价格的预言机身份

	// === 门控配置 ===
	PriceMaxAge uint64 `json:"price_max_age"` // 价格最大允许年龄（高度数）
}

// UserLedgerConfig 配置文件中的 ledger 段
type UserLedgerConfig struct {
	Admin               *string  `json:"admin,omitempty"`
	ComplianceAuthority *string  `json:"compliance_authority,omitempty"`
	Oracles             []string `json:"oracles,omitempty"`
	PriceMaxAge         *uint64  `json:"price_max_age,omitempty"`
}

// Config 账本配置实现
type Config struct {
	options *LedgerOptions
}

// New 创建账本配置实现
func New(userConfig *UserLedgerConfig) *Config {
	options := createDefaultLedgerOptions()
	if userConfig != nil {
		applyUserConfig(options, userConfig)
	}
	return &Config{options: options}
}

func createDefaultLedgerOptions() *LedgerOptions {
	return &LedgerOptions{
		Admin:               defaultAdmin,
		ComplianceAuthority: defaultComplianceAuthority,
		Oracles:             []types.Address{},
		PriceMaxAge:         defaultPriceMaxAge,
	}
}

func applyUserConfig(options *LedgerOptions, uc *UserLedgerConfig) {
	if uc.Admin != nil {
		options.Admin = types.Address(*uc.Admin)
	}
	if uc.ComplianceAuthority != nil {
		options.ComplianceAuthority = types.Address(*uc.ComplianceAuthority)
	}
	if uc.Oracles != nil {
		options.Oracles = make([]types.Address, 0, len(uc.Oracles))
		for _, o := range uc.Oracles {
			options.Oracles = append(options.Oracles, types.Address(o))
		}
	}
	if uc.PriceMaxAge != nil {
		options.PriceMaxAge = *uc.PriceMaxAge
	}
	// 未配置合规机构时由管理员兼任
	if options.ComplianceAuthority == "" {
		options.ComplianceAuthority = options.Admin
	}
}

// GetOptions 获取完整的账本配置选项
func (c *Config) GetOptions() *LedgerOptions {
	return c.options
}

// Validate 校验配置中的身份地址，启动时调用
func (o *LedgerOptions) Validate() error {
	if _, err := validation.ValidateAddress(o.Admin); err != nil {
		return fmt.Errorf("ledger.admin 无效: %w", err)
	}
	if _, err := validation.ValidateAddress(o.ComplianceAuthority); err != nil {
		return fmt.Errorf("ledger.compliance_authority 无效: %w", err)
	}
	for i, oracle := range o.Oracles {
		if _, err := validation.ValidateAddress(oracle); err != nil {
			return fmt.Errorf("ledger.oracles[%d] 无效: %w", i, err)
		}
	}
	if o.PriceMaxAge == 0 {
		return fmt.Errorf("ledger.price_max_age 必须大于 0")
	}
	return nil
}

// IsOracle 判断身份是否为已配置的预言机
func (o *LedgerOptions) IsOracle(addr types.Address) bool {
	for _, oracle := range o.Oracles {
		if oracle == addr {
			return true
		}
	}
	return false
}
