package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/rwaledger/internal/app"
	"github.com/weisyn/rwaledger/internal/app/version"
)

var serveNoAPI bool

// serveCmd 启动账本服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动账本服务",
	Long:  "加载配置，打开本地存储并启动 HTTP API，收到 SIGINT/SIGTERM 后优雅退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []app.Option{app.WithConfigFile(globalFlags.ConfigPath)}
		if serveNoAPI {
			opts = append(opts, app.WithoutAPI())
		}

		pterm.Info.Printfln("%s 正在启动，配置文件: %s", version.GetFullVersion(), globalFlags.ConfigPath)
		a, err := app.Start(opts...)
		if err != nil {
			return err
		}
		pterm.Success.Println("账本服务已启动，按 Ctrl+C 停止")

		if err := a.Wait(); err != nil {
			return err
		}
		pterm.Info.Println("账本服务已停止")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoAPI, "no-api", false, "不启动 HTTP API")
}
