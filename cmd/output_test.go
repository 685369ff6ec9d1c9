package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
)

func init() {
	color.NoColor = true
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"文件", "分类"},
		[][]string{{"a.jpg", "Images"}, {"b.txt"}},
		nil,
	)

	assert.Contains(t, out, "a.jpg")
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, "b.txt")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestFormatProgress(t *testing.T) {
	ok := formatProgress(organizer.Outcome{Index: 0, Total: 2, File: "a.jpg", Category: "Images"})
	assert.Equal(t, "[1/2] ✓ a.jpg -> Images", ok)

	failed := formatProgress(organizer.Outcome{
		Index:    1,
		Total:    2,
		File:     "b.txt",
		Category: "Documents",
		Err:      organizer.ErrMoveConflict,
	})
	assert.Equal(t, "[2/2] ✗ b.txt -> Documents (MoveConflict)", failed)
}

func TestPrintSummary(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := internal.RunStats{
		Total:     3,
		Succeeded: 1,
		Failed:    1,
		Failures: []internal.Failure{
			{File: "b.txt", Category: "Documents", Reason: "MoveConflict", Err: errors.New("目标已存在")},
		},
		StartTime: start,
		EndTime:   start.Add(time.Second),
	}

	var buf bytes.Buffer
	printSummary(&buf, organizer.Outcome{Kind: organizer.OutcomeCancelled, Stats: stats})
	out := buf.String()

	assert.Contains(t, out, "已取消")
	assert.Contains(t, out, "未处理: 1")
	assert.Contains(t, out, "MoveConflict")
	assert.Contains(t, out, "目标已存在")

	buf.Reset()
	stats.Failed = 0
	stats.Failures = nil
	stats.Succeeded = 3
	printSummary(&buf, organizer.Outcome{Kind: organizer.OutcomeCompleted, Stats: stats})
	assert.Contains(t, buf.String(), "整理完成")
	assert.NotContains(t, buf.String(), "部分文件失败")
}

func TestSortedCounts(t *testing.T) {
	got := sortedCounts(
		map[string]int{"Others": 1, "Images": 2, "Code": 3},
		[]string{"Images", "Videos", "Code", "Others"},
	)
	assert.Equal(t, "Images: 2  Code: 3  Others: 1", got)
	assert.True(t, strings.HasPrefix(got, "Images"))
}
