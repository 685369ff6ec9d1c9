package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/moyu-x/folder-organizer/pkg/organizer"
	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

const maxFailuresShown = 10

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.title.Render("📂 文件夹整理工具") + "\n")

	b.WriteString(m.theme.label.Render("目录：") + "\n")
	if m.focus == FocusFolder {
		b.WriteString(m.theme.focused.Render(m.folderInput.View()) + "\n")
	} else {
		b.WriteString(m.theme.normal.Render(m.folderInput.View()) + "\n")
	}

	if banner := m.bannerView(); banner != "" {
		b.WriteString(banner + "\n")
	}

	switch m.phase {
	case PhaseRunning:
		b.WriteString(m.runningView() + "\n")
	case PhaseCompleted, PhaseCancelled:
		b.WriteString(m.theme.statsBox.Render(m.summaryView()) + "\n")
	}

	switch m.mode {
	case ModeDetails:
		b.WriteString(m.theme.statsBox.Render(m.detailsView()) + "\n")
	case ModeConfirmDelete:
		b.WriteString(m.filesView() + "\n")
		b.WriteString(m.theme.confirm.Render(fmt.Sprintf("确定删除 %s ? (y/n)", m.pending)) + "\n")
	default:
		b.WriteString(m.filesView() + "\n")
	}

	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

func (m *model) bannerView() string {
	var lines []string
	if m.err != nil {
		lines = append(lines, m.theme.danger.Render("✗ "+m.err.Error()))
	}
	if m.listErr != nil {
		lines = append(lines, m.theme.danger.Render("✗ "+m.listErr.Error()))
	}
	if m.status != "" {
		lines = append(lines, m.theme.hint.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *model) filesView() string {
	if m.folder == "" {
		return m.theme.hint.Render("输入目录后按回车列出文件")
	}

	var b strings.Builder
	title := fmt.Sprintf("文件（%d）  子目录（%d）", len(m.entries), len(m.dirs))
	b.WriteString(m.theme.label.Render(title) + "\n")

	if len(m.entries) == 0 && m.listErr == nil {
		b.WriteString(m.theme.hint.Render("目录中没有文件") + "\n")
	} else {
		box := m.theme.normal
		if m.focus == FocusFiles {
			box = m.theme.focused
		}
		b.WriteString(box.Render(m.files.View()) + "\n")
	}

	if counts := m.categoryCounts(); counts != "" {
		b.WriteString(m.theme.hint.Render(counts))
	}
	return b.String()
}

func (m *model) categoryCounts() string {
	counts := scanner.CountByCategory(m.entries)
	if len(counts) == 0 {
		return ""
	}

	order := make(map[string]int)
	for i, name := range m.app.Table.Names() {
		order[name] = i
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return order[names[i]] < order[names[j]] })

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
	}
	return strings.Join(parts, " · ")
}

func (m *model) runningView() string {
	var b strings.Builder

	total := m.run.Total()
	percent := 0.0
	if total > 0 {
		percent = float64(m.run.Index) / float64(total)
	}

	header := fmt.Sprintf("%s 正在整理 %d/%d", m.spinner.View(), m.run.Index, total)
	if m.run.CancelRequested() {
		header = m.theme.warning.Render("正在取消，当前文件处理完后停止...")
	}
	b.WriteString(m.theme.label.Render(header) + "\n")
	b.WriteString(m.progressBar.ViewAs(percent) + "\n")

	if m.last.File != "" {
		b.WriteString(m.theme.filePath.Render(m.last.File+" → "+m.last.Category) + "\n")
	}

	for _, out := range m.events {
		b.WriteString(m.eventLine(out) + "\n")
	}
	return b.String()
}

func (m *model) eventLine(out organizer.Outcome) string {
	prefix := fmt.Sprintf("[%d/%d] ", out.Index+1, out.Total)
	if out.Err != nil {
		return m.theme.danger.Render(prefix + "✗ " + out.File + " (" + organizer.Reason(out.Err) + ")")
	}
	return m.theme.text.Render(prefix+"✓ "+out.File+" → ") + m.theme.success.Render(out.Category)
}

func (m *model) summaryView() string {
	stats := m.summary.Stats

	var b strings.Builder
	switch {
	case m.phase == PhaseCancelled:
		b.WriteString(m.theme.warning.Render("❌ 已取消整理") + "\n\n")
	case stats.Failed > 0:
		b.WriteString(m.theme.warning.Render(fmt.Sprintf("⚠ 整理完成，%d 个文件失败", stats.Failed)) + "\n\n")
	default:
		b.WriteString(m.theme.success.Render("✅ 整理完成！") + "\n\n")
	}

	b.WriteString(fmt.Sprintf("  总文件数：  %d\n", stats.Total))
	b.WriteString(fmt.Sprintf("  已移动：    %d\n", stats.Succeeded))
	b.WriteString(fmt.Sprintf("  失败：      %d\n", stats.Failed))
	if m.phase == PhaseCancelled {
		b.WriteString(fmt.Sprintf("  未处理：    %d\n", stats.Total-stats.Processed()))
	}
	if !stats.EndTime.IsZero() {
		b.WriteString(fmt.Sprintf("  耗时：      %s\n", stats.EndTime.Sub(stats.StartTime).Round(10 * time.Millisecond)))
	}

	for i, f := range stats.Failures {
		if i == maxFailuresShown {
			b.WriteString(m.theme.hint.Render(fmt.Sprintf("  ... 另有 %d 个失败", len(stats.Failures)-maxFailuresShown)) + "\n")
			break
		}
		b.WriteString(m.theme.danger.Render(fmt.Sprintf("  ✗ %s → %s: %s", f.File, f.Category, f.Reason)) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *model) detailsView() string {
	d := m.details
	if d == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.label.Render("📄 "+d.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("  路径：    %s\n", d.Path))
	b.WriteString(fmt.Sprintf("  分类：    %s\n", d.Category))
	if d.Err != nil {
		b.WriteString(m.theme.danger.Render("  ✗ "+d.Err.Error()) + "\n")
	} else {
		b.WriteString(fmt.Sprintf("  大小：    %s\n", humanize.IBytes(uint64(d.Size))))
		b.WriteString(fmt.Sprintf("  修改时间：%s (%s)\n", d.ModTime.Format("2006-01-02 15:04:05"), humanize.Time(d.ModTime)))
		b.WriteString(fmt.Sprintf("  类型：    %s\n", d.MIME))
		b.WriteString(fmt.Sprintf("  哈希：    %s\n", d.Hash))
	}
	b.WriteString("\n" + m.theme.hint.Render("按 esc 返回"))
	return b.String()
}
