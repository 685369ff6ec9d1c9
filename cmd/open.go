package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "使用系统默认程序打开文件",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Ops.Open(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已打开 %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
