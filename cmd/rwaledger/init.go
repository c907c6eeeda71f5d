package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/rwaledger/configs"
)

var initForce bool

// initCmd 写出示例配置
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "在 --config 指定的位置写出示例配置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeExampleConfig(globalFlags.ConfigPath, initForce)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "覆盖已存在的配置文件")
}

func writeExampleConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("配置文件 %s 已存在，使用 --force 覆盖", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	if err := os.WriteFile(path, configs.ExampleConfig, 0o644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	pterm.Success.Printfln("示例配置已写入 %s，请先修改 ledger 段中的身份地址", path)
	return nil
}
