package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/moyu-x/folder-organizer/hasher"
	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <folder|file>",
	Short: "查看文件的大小、类型和哈希",
	Long: `查看文件的大小、修改时间、内容类型和 xxhash 哈希。

参数为目录时检查目录中的所有文件，使用 organize.workers 个并发任务。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		target := args[0]
		var details []hasher.Details
		if scanner.IsDir(a.Fs, target) {
			names, err := a.Lister.ListFiles(target)
			if err != nil {
				return err
			}
			details, err = hasher.InspectAll(a.Fs, a.Table, target, names, a.Config.Organize.Workers)
			if err != nil {
				return err
			}
		} else {
			details = []hasher.Details{hasher.Inspect(a.Fs, a.Table, filepath.Clean(target))}
		}

		w := cmd.OutOrStdout()
		if len(details) == 0 {
			fmt.Fprintln(w, dimColor.Sprint("目录中没有文件"))
			return nil
		}

		rows := make([][]string, 0, len(details))
		failed := 0
		for _, d := range details {
			if d.Err != nil {
				failed++
				rows = append(rows, []string{d.Name, d.Category, "-", "-", "-", failColor.Sprint(d.Err.Error())})
				continue
			}
			rows = append(rows, []string{
				d.Name,
				d.Category,
				humanize.IBytes(uint64(d.Size)),
				humanize.Time(d.ModTime),
				d.MIME,
				d.Hash,
			})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"文件", "分类", "大小", "修改时间", "类型", "哈希"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
		))

		if failed > 0 {
			return fmt.Errorf("%d 个文件检查失败", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
