// Package ledger 装配账本引擎及其查询缓存
package ledger

import (
	"fmt"

	"go.uber.org/fx"

	ledgerconfig "github.com/weisyn/rwaledger/internal/config/ledger"
	logmodule "github.com/weisyn/rwaledger/internal/core/infrastructure/log"
	"github.com/weisyn/rwaledger/internal/core/ledger/engine"
	"github.com/weisyn/rwaledger/internal/core/ledger/query"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/storage"
	ledgerInterface "github.com/weisyn/rwaledger/pkg/interfaces/ledger"
)

// ModuleParams 账本模块依赖
type ModuleParams struct {
	fx.In

	Options     *ledgerconfig.LedgerOptions
	BadgerStore storage.BadgerStore
	MemoryStore storage.MemoryStore `optional:"true"`
	EventBus    event.EventBus      `optional:"true"`
	Logger      log.Logger          `optional:"true"`
}

// ModuleOutput 账本模块输出
type ModuleOutput struct {
	fx.Out

	Ledger ledgerInterface.Ledger
	Cache  *query.Cache
}

// Module 返回账本模块
func Module() fx.Option {
	return fx.Module("ledger",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建查询缓存与账本引擎
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := logmodule.NewModuleLogger(params.Logger, "ledger")

	cache, err := query.New(params.MemoryStore, params.EventBus, logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建查询缓存失败: %w", err)
	}
	eng, err := engine.New(params.BadgerStore, params.EventBus, cache, params.Options, logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建账本引擎失败: %w", err)
	}

	logger.Infof("账本引擎已就绪: admin=%s authority=%s oracles=%d price_max_age=%d",
		params.Options.Admin, params.Options.ComplianceAuthority, len(params.Options.Oracles), params.Options.PriceMaxAge)

	return ModuleOutput{Ledger: eng, Cache: cache}, nil
}
