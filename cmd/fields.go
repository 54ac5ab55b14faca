package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// metricField 描述一个度量字段及其含义。
type metricField struct {
	name        string
	description string
}

// 字段顺序与输出表格、JSON 保持一致。
var metricFields = []metricField{
	{"loc", "总行数，派生值 loc = sloc - multi - single_comments"},
	{"lloc", "逻辑行数，一个物理行可能包含多个逻辑行"},
	{"sloc", "非空白物理行数"},
	{"comments", "注释 token 总数"},
	{"multi", "多行 docstring 占用的行数"},
	{"blank", "空白行数"},
	{"single_comments", "单行注释与单行 docstring 的行数"},
}

// newFieldsCmd 创建 fields 子命令。
// 命令用于展示 raw 度量的全部字段与含义。
func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "展示 raw 度量字段及含义",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "FIELD\tDESCRIPTION"); err != nil {
				return err
			}

			for _, item := range metricFields {
				if _, err := fmt.Fprintf(writer, "%s\t%s\n", item.name, item.description); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
