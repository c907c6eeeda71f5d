package http

import (
	"context"

	"go.uber.org/fx"

	apiconfig "github.com/weisyn/rwaledger/internal/config/api"
	logmodule "github.com/weisyn/rwaledger/internal/core/infrastructure/log"
	"github.com/weisyn/rwaledger/internal/core/ledger/query"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rwaledger/pkg/interfaces/ledger"
)

// ModuleParams HTTP 模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Options   *apiconfig.APIOptions
	Ledger    ledger.Ledger
	Cache     *query.Cache `optional:"true"`
	Logger    log.Logger   `optional:"true"`
}

// Module 返回HTTP模块
//
// api.enabled=false 时服务器仍会构造，但不监听端口。
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		fx.Invoke(func(*Server) {}),
	)
}

// ProvideServer 创建服务器并登记启动/关闭钩子
func ProvideServer(params ModuleParams) *Server {
	logger := logmodule.NewModuleLogger(params.Logger, "http")
	server := NewServer(params.Options, params.Ledger, params.Cache, logger)

	if !params.Options.Enabled {
		logger.Info("HTTP API在配置中被禁用")
		return server
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server
}
