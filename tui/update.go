package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/folder-organizer/database"
	"github.com/moyu-x/folder-organizer/hasher"
	"github.com/moyu-x/folder-organizer/internal/runlock"
	"github.com/moyu-x/folder-organizer/pkg/logger"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
)

var errNoFolder = errors.New("请先选择目录")

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case listingMsg:
		m.applyListing(msg)
		return m, nil

	case folderChangedMsg:
		if msg.folder != m.folder {
			return m, nil
		}
		return m, tea.Batch(m.listCmd(), m.watchCmd())

	case stepDueMsg:
		if !m.running() || msg.runID != m.run.RunID {
			return m, nil
		}
		return m, m.step()

	case stepResultMsg:
		return m, m.applyStep(msg)

	case detailsMsg:
		d := msg.details
		m.details = &d
		m.mode = ModeDetails
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.setStatus("已打开 " + msg.name)

	case deletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, tea.Batch(m.setStatus("已删除 "+msg.name), m.listCmd())

	case statusClearMsg:
		if msg.at.Equal(m.statusAt) {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == FocusFolder {
		var cmd tea.Cmd
		m.folderInput, cmd = m.folderInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	case ModeDetails:
		if key.Matches(msg, m.keys.No) || key.Matches(msg, m.keys.Inspect) || key.Matches(msg, m.keys.Select) || msg.String() == "q" {
			m.mode = ModeBrowse
			m.details = nil
		}
		return nil
	}

	if m.focus == FocusFolder {
		switch {
		case key.Matches(msg, m.keys.Focus):
			m.setFocus(FocusFiles)
			return nil
		case key.Matches(msg, m.keys.Select):
			return m.selectFolder(m.folderInput.Value())
		case msg.String() == "esc":
			if m.running() {
				m.cancelRun()
			}
			return nil
		}
		var cmd tea.Cmd
		m.folderInput, cmd = m.folderInput.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(FocusFolder)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Start):
		return m.startRun()
	case key.Matches(msg, m.keys.Cancel):
		m.cancelRun()
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	case key.Matches(msg, m.keys.Delete):
		return m.confirmDelete()
	case key.Matches(msg, m.keys.Inspect):
		return m.inspectSelected()
	case key.Matches(msg, m.keys.Refresh):
		return m.listCmd()
	case key.Matches(msg, m.keys.Theme):
		m.applyTheme(m.theme.toggled())
		logger.Get().Debug().Str("theme", m.theme.name).Msg("切换主题")
	default:
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		name := m.pending
		m.pending = ""
		m.mode = ModeBrowse
		return m.deleteCmd(name)
	case key.Matches(msg, m.keys.No):
		m.pending = ""
		m.mode = ModeBrowse
		return m.setStatus("已取消删除")
	}
	return nil
}

func (m *model) setFocus(f Focus) {
	m.focus = f
	if f == FocusFolder {
		m.folderInput.Focus()
		m.files.Blur()
		return
	}
	m.folderInput.Blur()
	m.files.Focus()
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height

	m.folderInput.Width = msg.Width - 10
	m.progressBar.Width = msg.Width - 10
	m.help.Width = msg.Width
	m.files.SetColumns(fileColumns(msg.Width - 8))

	height := msg.Height - 22
	if height < 5 {
		height = 5
	}
	m.files.SetHeight(height)
}

func (m *model) setStatus(s string) tea.Cmd {
	at := time.Now()
	m.status = s
	m.statusAt = at
	return tea.Tick(statusDelay, func(time.Time) tea.Msg {
		return statusClearMsg{at: at}
	})
}

// selectFolder 切换到新目录，重新列出文件并监听变化
func (m *model) selectFolder(input string) tea.Cmd {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if m.running() {
		return m.setStatus("整理进行中，不能切换目录")
	}

	path, err := database.ExpandPath(input)
	if err == nil {
		path, err = filepath.Abs(path)
	}
	if err != nil {
		m.err = fmt.Errorf("目录无效: %w", err)
		return nil
	}

	if err := m.watcher.Close(); err != nil {
		logger.Get().Warn().Err(err).Msg("关闭目录监听失败")
	}
	m.watcher = nil

	m.folder = path
	m.folderInput.SetValue(path)
	m.phase = PhaseIdle
	m.summary = organizer.Outcome{}
	m.events = nil
	m.err = nil

	if w, err := newFolderWatcher(path); err != nil {
		logger.Get().Warn().Err(err).Str("folder", path).Msg("无法监听目录，需要手动刷新")
	} else {
		m.watcher = w
	}

	logger.Get().Info().Str("folder", path).Msg("选择目录")
	m.setFocus(FocusFiles)
	return tea.Batch(m.listCmd(), m.watchCmd())
}

func (m *model) listCmd() tea.Cmd {
	if m.folder == "" {
		return nil
	}
	folder := m.folder
	lister := m.app.Lister
	return func() tea.Msg {
		listing, err := lister.Scan(folder)
		return listingMsg{folder: folder, listing: listing, err: err}
	}
}

func (m *model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.wait()
}

func (m *model) applyListing(msg listingMsg) {
	if msg.folder != m.folder {
		return
	}

	if msg.err != nil {
		m.listErr = msg.err
		m.entries = nil
		m.dirs = nil
		m.files.SetRows(nil)
		return
	}

	m.listErr = nil
	m.entries = msg.listing.Files
	m.dirs = msg.listing.Dirs

	rows := make([]table.Row, 0, len(m.entries))
	for i, entry := range m.entries {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), entry.Name, entry.Category})
	}
	m.files.SetRows(rows)
	switch n := len(rows); {
	case n == 0:
	case m.files.Cursor() >= n:
		m.files.SetCursor(n - 1)
	case m.files.Cursor() < 0:
		m.files.SetCursor(0)
	}
}

// startRun 获取目录锁并开始整理，第一步立即执行
func (m *model) startRun() tea.Cmd {
	if m.running() {
		return m.setStatus("整理进行中")
	}
	if m.folder == "" {
		m.err = errNoFolder
		return nil
	}

	lock, err := runlock.Acquire(m.app.LockDir, m.folder)
	if err != nil {
		m.err = err
		return nil
	}

	st, err := m.app.Organizer.Start(m.folder)
	if err != nil {
		m.releaseLock(lock)
		if errors.Is(err, organizer.ErrNothingToDo) {
			m.err = nil
			return m.setStatus("目录中没有需要整理的文件")
		}
		m.err = err
		return nil
	}

	m.lock = lock
	m.run = st
	m.phase = PhaseRunning
	m.summary = organizer.Outcome{}
	m.last = organizer.Outcome{Total: st.Total()}
	m.events = nil
	m.err = nil

	return tea.Batch(m.step(), m.spinner.Tick)
}

func (m *model) step() tea.Cmd {
	o := m.app.Organizer
	st := m.run
	m.inFlight = true
	return func() tea.Msg {
		next, out := o.Step(st)
		return stepResultMsg{state: next, outcome: out}
	}
}

func (m *model) applyStep(msg stepResultMsg) tea.Cmd {
	if !m.running() || msg.state.RunID != m.run.RunID {
		return nil
	}
	m.inFlight = false
	m.run = msg.state

	if m.quitting {
		m.shutdown()
		return tea.Quit
	}

	out := msg.outcome
	if out.Terminal() {
		return m.finishRun(out)
	}

	m.last = out
	m.events = append(m.events, out)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}

	runID := m.run.RunID
	return tea.Tick(m.app.Config.Organize.StepDelay, func(time.Time) tea.Msg {
		return stepDueMsg{runID: runID}
	})
}

func (m *model) finishRun(out organizer.Outcome) tea.Cmd {
	m.summary = out
	if out.Kind == organizer.OutcomeCancelled {
		m.phase = PhaseCancelled
	} else {
		m.phase = PhaseCompleted
	}
	m.releaseLock(m.lock)
	m.lock = nil
	return m.listCmd()
}

func (m *model) cancelRun() {
	if !m.running() {
		return
	}
	m.app.Organizer.Cancel(m.run)
}

func (m *model) releaseLock(lock *runlock.Lock) {
	if err := lock.Release(); err != nil {
		logger.Get().Warn().Err(err).Msg("释放目录锁失败")
	}
}

func (m *model) openSelected() tea.Cmd {
	entry, ok := m.selected()
	if !ok {
		return m.setStatus("没有选中的文件")
	}
	ops := m.app.Ops
	path := filepath.Join(m.folder, entry.Name)
	return func() tea.Msg {
		return openedMsg{name: entry.Name, err: ops.Open(path)}
	}
}

func (m *model) confirmDelete() tea.Cmd {
	if m.running() {
		return m.setStatus("整理进行中，不能删除文件")
	}
	entry, ok := m.selected()
	if !ok {
		return m.setStatus("没有选中的文件")
	}
	m.pending = entry.Name
	m.mode = ModeConfirmDelete
	return nil
}

func (m *model) deleteCmd(name string) tea.Cmd {
	if name == "" {
		return nil
	}
	ops := m.app.Ops
	path := filepath.Join(m.folder, name)
	return func() tea.Msg {
		return deletedMsg{name: name, err: ops.Delete(path)}
	}
}

func (m *model) inspectSelected() tea.Cmd {
	entry, ok := m.selected()
	if !ok {
		return m.setStatus("没有选中的文件")
	}
	fs := m.app.Fs
	tbl := m.app.Table
	path := filepath.Join(m.folder, entry.Name)
	return func() tea.Msg {
		return detailsMsg{details: hasher.Inspect(fs, tbl, path)}
	}
}

// quit 退出前取消进行中的整理，并结束记录。
// 正在执行的一步完成后才退出，再次按下则立即退出。
func (m *model) quit() tea.Cmd {
	if m.running() && m.inFlight && !m.quitting {
		m.quitting = true
		m.cancelRun()
		return m.setStatus("正在退出，等待当前文件处理完成...")
	}
	m.shutdown()
	return tea.Quit
}

func (m *model) shutdown() {
	if m.running() {
		m.cancelRun()
		if !m.inFlight {
			var out organizer.Outcome
			m.run, out = m.app.Organizer.Step(m.run)
			m.summary = out
		}
		m.phase = PhaseCancelled
		m.releaseLock(m.lock)
		m.lock = nil
	}

	if err := m.watcher.Close(); err != nil {
		logger.Get().Warn().Err(err).Msg("关闭目录监听失败")
	}
	m.watcher = nil
}
