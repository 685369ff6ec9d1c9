package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/folder-organizer/app"
	"github.com/moyu-x/folder-organizer/hasher"
	"github.com/moyu-x/folder-organizer/internal/runlock"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

type Focus int

const (
	FocusFolder Focus = iota
	FocusFiles
)

type Mode int

const (
	ModeBrowse Mode = iota
	ModeConfirmDelete
	ModeDetails
)

// Phase 整理所处的阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseCompleted
	PhaseCancelled
)

const (
	maxEvents   = 8
	statusDelay = 3 * time.Second
)

type model struct {
	app   *app.App
	keys  keyMap
	help  help.Model
	theme theme
	focus Focus
	mode  Mode

	folderInput textinput.Model
	files       table.Model
	progressBar progress.Model
	spinner     spinner.Model

	folder  string
	entries []scanner.DisplayEntry
	dirs    []string
	listErr error

	phase    Phase
	run      organizer.State
	inFlight bool
	quitting bool
	lock     *runlock.Lock
	last     organizer.Outcome
	summary  organizer.Outcome
	events   []organizer.Outcome

	pending string
	details *hasher.Details

	watcher  *folderWatcher
	status   string
	statusAt time.Time
	err      error

	width  int
	height int
}

func newModel(a *app.App, folder string) *model {
	th := newTheme(a.Config.UI.Theme)

	folderInput := textinput.New()
	folderInput.Placeholder = "请输入要整理的目录（例如：~/Downloads），按回车确认"
	folderInput.Prompt = "> "
	folderInput.CharLimit = 4096
	folderInput.SetValue(folder)
	folderInput.Focus()

	files := table.New(
		table.WithColumns(fileColumns(80)),
		table.WithHeight(12),
		table.WithFocused(false),
	)
	files.KeyMap.HalfPageDown.SetKeys("ctrl+d")
	files.KeyMap.HalfPageUp.SetKeys("ctrl+u")

	progressBar := progress.New(progress.WithDefaultGradient())

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}

	m := &model{
		app:         a,
		keys:        newKeyMap(),
		help:        help.New(),
		focus:       FocusFolder,
		folderInput: folderInput,
		files:       files,
		progressBar: progressBar,
		spinner:     s,
	}
	m.applyTheme(th)
	return m
}

func fileColumns(width int) []table.Column {
	nameWidth := width - 4 - 12 - 6
	if nameWidth < 20 {
		nameWidth = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "文件", Width: nameWidth},
		{Title: "分类", Width: 12},
	}
}

func (m *model) applyTheme(th theme) {
	m.theme = th
	m.files.SetStyles(th.table)
	m.folderInput.PromptStyle = th.prompt
	m.folderInput.TextStyle = th.text
	m.spinner.Style = th.prompt
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.folderInput.Value() != "" {
		cmds = append(cmds, m.selectFolder(m.folderInput.Value()))
	}
	return tea.Batch(cmds...)
}

func (m *model) running() bool {
	return m.phase == PhaseRunning
}

// selected 表格中当前选中的文件
func (m *model) selected() (scanner.DisplayEntry, bool) {
	i := m.files.Cursor()
	if i < 0 || i >= len(m.entries) {
		return scanner.DisplayEntry{}, false
	}
	return m.entries[i], true
}
