package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	themeDark  = "dark"
	themeLight = "light"
)

type palette struct {
	accent    lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	danger    lipgloss.Color
	warning   lipgloss.Color
	selectFg  lipgloss.Color
	selectBg  lipgloss.Color
	border    lipgloss.Color
}

var palettes = map[string]palette{
	themeDark: {
		accent:    lipgloss.Color("205"),
		secondary: lipgloss.Color("86"),
		text:      lipgloss.Color("255"),
		muted:     lipgloss.Color("241"),
		success:   lipgloss.Color("86"),
		danger:    lipgloss.Color("203"),
		warning:   lipgloss.Color("214"),
		selectFg:  lipgloss.Color("229"),
		selectBg:  lipgloss.Color("57"),
		border:    lipgloss.Color("238"),
	},
	themeLight: {
		accent:    lipgloss.Color("127"),
		secondary: lipgloss.Color("30"),
		text:      lipgloss.Color("235"),
		muted:     lipgloss.Color("245"),
		success:   lipgloss.Color("28"),
		danger:    lipgloss.Color("160"),
		warning:   lipgloss.Color("130"),
		selectFg:  lipgloss.Color("231"),
		selectBg:  lipgloss.Color("63"),
		border:    lipgloss.Color("250"),
	},
}

// theme 一套界面样式，t 键在明暗之间切换
type theme struct {
	name string

	title     lipgloss.Style
	label     lipgloss.Style
	text      lipgloss.Style
	hint      lipgloss.Style
	separator lipgloss.Style
	success   lipgloss.Style
	danger    lipgloss.Style
	warning   lipgloss.Style
	filePath  lipgloss.Style
	prompt    lipgloss.Style
	focused   lipgloss.Style
	normal    lipgloss.Style
	statsBox  lipgloss.Style
	confirm   lipgloss.Style
	table     table.Styles
}

func newTheme(name string) theme {
	p, ok := palettes[name]
	if !ok {
		name = themeDark
		p = palettes[themeDark]
	}

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.border).
		BorderBottom(true).
		Foreground(p.secondary).
		Bold(true)
	tableStyles.Cell = tableStyles.Cell.Foreground(p.text)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(p.selectFg).
		Background(p.selectBg).
		Bold(true)

	return theme{
		name: name,
		title: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			MarginBottom(1),
		label: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		text: lipgloss.NewStyle().
			Foreground(p.text),
		hint: lipgloss.NewStyle().
			Foreground(p.muted).
			Faint(true),
		separator: lipgloss.NewStyle().
			Foreground(p.muted),
		success: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		danger: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		warning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		filePath: lipgloss.NewStyle().
			Foreground(p.secondary).
			Italic(true),
		prompt: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		normal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		statsBox: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		confirm: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(p.danger).
			Bold(true).
			Padding(0, 1),
		table: tableStyles,
	}
}

func (t theme) toggled() theme {
	if t.name == themeDark {
		return newTheme(themeLight)
	}
	return newTheme(themeDark)
}
