package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashanbrown/radon/internal/config"
	"github.com/ashanbrown/radon/internal/report"
	"github.com/ashanbrown/radon/internal/scanner"
)

// rawOptions 存放 raw 命令的可配置参数。
type rawOptions struct {
	configPath string
	format     string
	output     string
	workers    int
	excludes   []string
}

// newRawCmd 创建 raw 子命令。
// 示例：
//
//	radon raw .
//	radon raw ./project --format json --output result.json
//	radon raw ./project --exclude "vendor/**" --exclude "**/*_pb2.py"
//
// 配置优先级：命令行 flag > .radon.yml > 内置默认值。
func newRawCmd() *cobra.Command {
	var options rawOptions

	rawCmd := &cobra.Command{
		Use:   "raw [path]",
		Short: "扫描目录或文件并输出 raw 度量信息",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(options.configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("format") {
				cfg.Format = options.format
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = options.output
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = options.workers
			}
			if len(options.excludes) > 0 {
				cfg.Exclude = append(cfg.Exclude, options.excludes...)
			}

			format := strings.ToLower(strings.TrimSpace(cfg.Format))
			if format != "table" && format != "json" {
				return errors.New("unsupported format, allowed values: table, json")
			}

			if cfg.Workers <= 0 {
				return errors.New("workers must be greater than 0")
			}

			service := scanner.NewService(cfg.Workers, cfg.Exclude)
			result, err := service.ScanPath(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "table":
				return report.PrintTable(cmd.OutOrStdout(), result)
			case "json":
				if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}

				outputPath := strings.TrimSpace(cfg.Output)
				if outputPath == "" {
					outputPath = "output.json"
				}
				if err := report.WriteJSONFile(outputPath, result); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nJSON exported to %s\n", outputPath)
				return nil
			default:
				return errors.New("unsupported format")
			}
		},
	}

	rawCmd.Flags().StringVar(&options.configPath, "config", "", "配置文件路径，默认查找 .radon.yml")
	rawCmd.Flags().StringVar(&options.format, "format", "table", "输出格式: table 或 json")
	rawCmd.Flags().StringVar(&options.output, "output", "output.json", "json 导出文件路径，默认 output.json")
	rawCmd.Flags().IntVar(&options.workers, "workers", 0, "并发 worker 数量，默认 CPU 核数")
	rawCmd.Flags().StringArrayVar(&options.excludes, "exclude", nil, "排除的 glob 模式，可重复指定")

	return rawCmd
}
