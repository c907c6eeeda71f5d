package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/rwaledger/internal/config"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath string // 配置文件路径
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "rwaledger",
	Short: "现实世界资产份额账本",
	Long: `rwaledger - 现实世界资产（RWA）份额账本服务

提供资产登记与固定份额发行、KYC 合规闸门、按份额分红、
基于高度窗口的份额加权治理投票以及预言机价格报价。

常用命令:
  rwaledger init                  # 写出示例配置
  rwaledger serve                 # 启动账本服务与 HTTP API
  rwaledger inspect assets        # 离线查看本地账本数据
  rwaledger version               # 显示版本信息`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", config.DefaultConfigPath, "配置文件路径")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
