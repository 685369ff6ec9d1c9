package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	dimColor     = color.New(color.Faint)
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// formatProgress 单个文件的进度行
func formatProgress(out organizer.Outcome) string {
	prefix := fmt.Sprintf("[%d/%d]", out.Index+1, out.Total)
	if out.Err != nil {
		return fmt.Sprintf("%s %s %s -> %s (%s)", prefix, failColor.Sprint("✗"), out.File, out.Category, organizer.Reason(out.Err))
	}
	return fmt.Sprintf("%s %s %s -> %s", prefix, successColor.Sprint("✓"), out.File, out.Category)
}

// printSummary 整理结束后的汇总
func printSummary(w io.Writer, out organizer.Outcome) {
	stats := out.Stats
	elapsed := stats.EndTime.Sub(stats.StartTime).Round(10 * time.Millisecond)

	switch out.Kind {
	case organizer.OutcomeCancelled:
		fmt.Fprintln(w, warnColor.Sprint("❌ 已取消"))
	case organizer.OutcomeCompleted:
		if stats.Failed > 0 {
			fmt.Fprintln(w, warnColor.Sprint("⚠ 整理完成，部分文件失败"))
		} else {
			fmt.Fprintln(w, successColor.Sprint("✅ 整理完成"))
		}
	}

	fmt.Fprintf(w, "总文件数: %d  成功: %d  失败: %d  未处理: %d  耗时: %s\n",
		stats.Total, stats.Succeeded, stats.Failed, stats.Total-stats.Processed(), elapsed)

	if len(stats.Failures) > 0 {
		fmt.Fprintln(w, renderFailures(stats.Failures))
	}
}

func renderFailures(failures []internal.Failure) string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rows = append(rows, []string{f.File, f.Category, f.Reason, msg})
	}
	return renderTable([]string{"文件", "分类", "原因", "错误"}, rows, nil)
}

// sortedCounts 按分类表顺序输出分类统计
func sortedCounts(counts map[string]int, order []string) string {
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return index[names[i]] < index[names[j]]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, counts[name]))
	}
	return strings.Join(parts, "  ")
}
