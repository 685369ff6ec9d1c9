package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

var listDirs bool

var listCmd = &cobra.Command{
	Use:   "list <folder>",
	Short: "列出目录中的文件及其分类",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		listing, err := a.Lister.Scan(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(listing.Files) == 0 {
			fmt.Fprintln(w, dimColor.Sprint("目录中没有文件"))
		} else {
			rows := make([][]string, 0, len(listing.Files))
			for i, entry := range listing.Files {
				rows = append(rows, []string{fmt.Sprintf("%d", i+1), entry.Name, entry.Category})
			}
			fmt.Fprintln(w, renderTable([]string{"#", "文件", "分类"}, rows, []columnAlignment{alignRight}))
			fmt.Fprintln(w, sortedCounts(scanner.CountByCategory(listing.Files), a.Table.Names()))
		}

		if listDirs && len(listing.Dirs) > 0 {
			rows := make([][]string, 0, len(listing.Dirs))
			for _, dir := range listing.Dirs {
				rows = append(rows, []string{dir})
			}
			fmt.Fprintln(w, renderTable([]string{"子目录"}, rows, nil))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listDirs, "dirs", false, "同时列出子目录")
	rootCmd.AddCommand(listCmd)
}
