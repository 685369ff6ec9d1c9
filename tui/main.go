package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/folder-organizer/app"
	"github.com/moyu-x/folder-organizer/pkg/logger"
)

// Run 启动交互界面，folder 非空时直接列出该目录
func Run(a *app.App, folder string) error {
	logger.Get().Info().Msg("启动 TUI 界面")

	m := newModel(a, folder)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	m.shutdown()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
	} else {
		logger.Get().Info().Msg("TUI 正常退出")
	}

	return err
}
