// Package cmd 提供 radon 的命令行入口与子命令编排。
package cmd

import (
	"github.com/spf13/cobra"
)

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	rootCmd := newRootCmd(version)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "radon",
		Short: "Python 源码 raw 度量统计工具",
		Long: "radon 统计 Python 源码的 raw 度量：\n" +
			"loc/lloc/sloc/comments/multi/blank/single_comments，\n" +
			"支持并发扫描、排除规则与 JSON 导出。",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newFieldsCmd())
	rootCmd.AddCommand(newRawCmd())

	return rootCmd
}
