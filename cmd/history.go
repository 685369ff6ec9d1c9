package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/moyu-x/folder-organizer/database"
)

var (
	historyLimit int
	historyRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看整理历史",
	Long: `查看历史数据库中记录的整理。

只有开启 journal.enabled 时整理才会被记录。使用 --run 查看某次整理中每个文件的移动记录。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		journal, err := a.OpenJournal()
		if err != nil {
			return fmt.Errorf("打开历史数据库失败: %w", err)
		}

		w := cmd.OutOrStdout()
		if historyRun != "" {
			moves, err := journal.Moves(historyRun)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, renderMoves(moves))
			return nil
		}

		runs, err := journal.RecentRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(w, dimColor.Sprint("没有整理记录"))
			return nil
		}
		fmt.Fprintln(w, renderRuns(runs))
		return nil
	},
}

func renderRuns(runs []database.RunRecord) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			r.ID,
			r.Folder,
			r.Status,
			fmt.Sprintf("%d/%d", r.Succeeded, r.Total),
			fmt.Sprintf("%d", r.Failed),
			humanize.Time(r.StartedAt),
			duration,
		})
	}
	return renderTable(
		[]string{"ID", "目录", "状态", "成功", "失败", "开始", "耗时"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func renderMoves(moves []database.MoveRecord) string {
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		result := successColor.Sprint("✓")
		if m.Error != "" {
			result = failColor.Sprint(m.Error)
		}
		rows = append(rows, []string{m.File, m.Category, m.Destination, result})
	}
	return renderTable([]string{"文件", "分类", "目标", "结果"}, rows, nil)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "显示的记录数，0 表示全部")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "查看某次整理的移动记录")
	rootCmd.AddCommand(historyCmd)
}
