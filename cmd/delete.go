package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <file>",
	Short: "删除单个文件",
	Long:  `删除单个文件，删除前需要确认。使用 --yes 跳过确认。目录不会被删除。`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		path := args[0]
		w := cmd.OutOrStdout()

		if !deleteYes {
			fmt.Fprintf(w, "确定删除 %s ? [y/N] ", path)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(w, dimColor.Sprint("已取消"))
				return nil
			}
		}

		if err := a.Ops.Delete(path); err != nil {
			return err
		}
		fmt.Fprintln(w, successColor.Sprintf("已删除 %s", path))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "跳过确认")
	rootCmd.AddCommand(deleteCmd)
}
