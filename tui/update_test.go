package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/folder-organizer/app"
	"github.com/moyu-x/folder-organizer/config"
	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/internal/fileops"
	"github.com/moyu-x/folder-organizer/pkg/classifier"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
)

type launch struct {
	name string
	args []string
}

func newTestModel(t *testing.T) (*model, *[]launch) {
	t.Helper()

	fs := afero.NewOsFs()
	table := classifier.DefaultTable()
	org := organizer.New(fs, table)

	cfg := &config.Config{}
	cfg.UI.Theme = themeDark
	cfg.Organize.StepDelay = time.Millisecond

	launched := &[]launch{}
	ops := fileops.New(fs)
	ops.GOOS = "linux"
	ops.Launch = func(name string, args ...string) error {
		*launched = append(*launched, launch{name: name, args: args})
		return nil
	}

	a := &app.App{
		Config:    cfg,
		Fs:        fs,
		Table:     table,
		Organizer: org,
		Lister:    org.Lister(),
		Ops:       ops,
		LockDir:   t.TempDir(),
	}

	m := newModel(a, "")
	t.Cleanup(m.shutdown)
	return m, launched
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
}

func press(m *model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func load(t *testing.T, m *model, folder string) {
	t.Helper()
	m.selectFolder(folder)
	m.Update(m.listCmd()())
}

func runToEnd(t *testing.T, m *model) {
	t.Helper()
	for i := 0; m.running(); i++ {
		require.Less(t, i, 100, "整理没有结束")
		m.Update(m.step()())
	}
}

func rootFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestModel_SelectFolderLists(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.txt", "c.xyz")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	load(t, m, dir)

	assert.Equal(t, FocusFiles, m.focus)
	require.Len(t, m.entries, 3)
	assert.Equal(t, []string{"sub"}, m.dirs)
	assert.Len(t, m.files.Rows(), 3)

	view := m.View()
	assert.Contains(t, view, "a.jpg")
	assert.Contains(t, view, "Images")
	assert.Contains(t, view, "Others")
}

func TestModel_SelectMissingFolder(t *testing.T) {
	m, _ := newTestModel(t)

	load(t, m, filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, m.listErr)
	assert.Empty(t, m.entries)
	assert.Nil(t, m.watcher)
}

func TestModel_OrganizeFlow(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.txt", "c.xyz")
	load(t, m, dir)

	require.NotNil(t, press(m, "s"))
	require.Equal(t, PhaseRunning, m.phase)
	require.NotNil(t, m.lock)
	assert.Equal(t, 3, m.run.Total())

	runToEnd(t, m)

	assert.Equal(t, PhaseCompleted, m.phase)
	assert.Nil(t, m.lock)
	assert.Equal(t, organizer.OutcomeCompleted, m.summary.Kind)
	assert.Equal(t, 3, m.summary.Stats.Succeeded)
	assert.Len(t, m.events, 3)
	assert.FileExists(t, filepath.Join(dir, "Images", "a.jpg"))
	assert.FileExists(t, filepath.Join(dir, "Documents", "b.txt"))
	assert.FileExists(t, filepath.Join(dir, "Others", "c.xyz"))

	m.Update(m.listCmd()())
	assert.Empty(t, m.entries)
	assert.Len(t, m.dirs, 3)
	assert.Contains(t, m.View(), "整理完成")
}

func TestModel_CancelStopsRun(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.jpg", "c.jpg")
	load(t, m, dir)

	press(m, "s")
	m.Update(m.step()())
	assert.Contains(t, m.View(), "正在整理")

	press(m, "c")
	assert.True(t, m.run.CancelRequested())
	assert.Contains(t, m.View(), "正在取消")

	runToEnd(t, m)

	assert.Equal(t, PhaseCancelled, m.phase)
	assert.Equal(t, 1, m.summary.Stats.Succeeded)
	assert.Len(t, rootFiles(t, dir), 2)
	assert.False(t, m.app.Organizer.Active())
	assert.Contains(t, m.View(), "已取消")
}

func TestModel_StartErrors(t *testing.T) {
	m, _ := newTestModel(t)

	m.setFocus(FocusFiles)
	press(m, "s")
	assert.ErrorIs(t, m.err, errNoFolder)

	load(t, m, filepath.Join(t.TempDir(), "missing"))
	press(m, "s")
	assert.ErrorIs(t, m.err, organizer.ErrInvalidFolder)
	assert.Equal(t, PhaseIdle, m.phase)
	assert.Contains(t, m.View(), "✗ "+m.err.Error())
}

func TestModel_EmptyFolderIsNotAnError(t *testing.T) {
	m, _ := newTestModel(t)
	load(t, m, t.TempDir())

	require.NotNil(t, press(m, "s"))

	assert.NoError(t, m.err)
	assert.Equal(t, PhaseIdle, m.phase)
	assert.Equal(t, "目录中没有需要整理的文件", m.status)
	assert.False(t, m.app.Organizer.Active())

	view := m.View()
	assert.Contains(t, view, "目录中没有需要整理的文件")
	assert.NotContains(t, view, "✗")
}

func TestModel_StaleStepIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg")
	load(t, m, dir)
	press(m, "s")

	_, cmd := m.Update(stepDueMsg{runID: "other"})
	assert.Nil(t, cmd)

	_, cmd = m.Update(stepDueMsg{runID: m.run.RunID})
	assert.NotNil(t, cmd)
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	load(t, m, dir)

	press(m, "d")
	require.Equal(t, ModeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "确定删除 a.txt")

	press(m, "n")
	assert.Equal(t, ModeBrowse, m.mode)
	assert.FileExists(t, filepath.Join(dir, "a.txt"))

	press(m, "d")
	cmd := press(m, "y")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
	assert.NoError(t, m.err)
	assert.Contains(t, m.status, "已删除")
}

func TestModel_DeleteBlockedWhileRunning(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt")
	load(t, m, dir)
	press(m, "s")

	press(m, "d")
	assert.Equal(t, ModeBrowse, m.mode)
	assert.Contains(t, m.status, "整理进行中")
}

func TestModel_OpenSelected(t *testing.T) {
	m, launched := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	load(t, m, dir)

	cmd := press(m, "o")
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.Len(t, *launched, 1)
	assert.Equal(t, "xdg-open", (*launched)[0].name)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, (*launched)[0].args)
	assert.NoError(t, m.err)
}

func TestModel_OpenWithoutSelection(t *testing.T) {
	m, launched := newTestModel(t)
	load(t, m, t.TempDir())

	press(m, "o")
	assert.Empty(t, *launched)
	assert.Equal(t, "没有选中的文件", m.status)
}

func TestModel_Inspect(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	load(t, m, dir)

	cmd := press(m, "i")
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.Equal(t, ModeDetails, m.mode)
	require.NotNil(t, m.details)
	assert.NoError(t, m.details.Err)
	assert.Contains(t, m.View(), m.details.Hash)

	press(m, "esc")
	assert.Equal(t, ModeBrowse, m.mode)
	assert.Nil(t, m.details)
}

func TestModel_ToggleTheme(t *testing.T) {
	m, _ := newTestModel(t)
	m.setFocus(FocusFiles)

	press(m, "t")
	assert.Equal(t, themeLight, m.theme.name)
	press(m, "t")
	assert.Equal(t, themeDark, m.theme.name)
}

func TestModel_TypingGoesToInput(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "s")
	press(m, "t")
	assert.Equal(t, "st", m.folderInput.Value())
	assert.Equal(t, PhaseIdle, m.phase)
	assert.Equal(t, themeDark, m.theme.name)

	press(m, "tab")
	assert.Equal(t, FocusFiles, m.focus)
}

func TestModel_EnterSelectsFolder(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.mp3")

	m.folderInput.SetValue("  " + dir + "  ")
	require.NotNil(t, press(m, "enter"))
	assert.Equal(t, dir, m.folder)
}

func TestModel_QuitCancelsRun(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.jpg", "c.jpg")
	load(t, m, dir)

	press(m, "s")
	m.Update(m.step()())

	cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	assert.Equal(t, PhaseCancelled, m.phase)
	assert.Equal(t, organizer.OutcomeCancelled, m.summary.Kind)
	assert.Len(t, rootFiles(t, dir), 2)
	assert.False(t, m.app.Organizer.Active())
	assert.Nil(t, m.lock)
}

type finishRecorder struct {
	finished []internal.RunStatus
}

func (r *finishRecorder) BeginRun(internal.RunStats) error { return nil }
func (r *finishRecorder) RecordMove(internal.MoveRecord) error { return nil }
func (r *finishRecorder) FinishRun(_ internal.RunStats, status internal.RunStatus) error {
	r.finished = append(r.finished, status)
	return nil
}

func TestModel_QuitWaitsForStepInFlight(t *testing.T) {
	m, _ := newTestModel(t)
	rec := &finishRecorder{}
	m.app.Organizer = organizer.New(m.app.Fs, m.app.Table, organizer.WithRecorder(rec))
	m.app.Lister = m.app.Organizer.Lister()

	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.jpg", "c.jpg")
	load(t, m, dir)

	press(m, "s")
	m.Update(m.step()())
	pending := m.step()

	assert.NotNil(t, press(m, "q"))
	assert.True(t, m.quitting)
	assert.Equal(t, PhaseRunning, m.phase)
	assert.NotNil(t, m.lock)

	_, cmd := m.Update(pending())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	assert.Equal(t, PhaseCancelled, m.phase)
	assert.Equal(t, organizer.OutcomeCancelled, m.summary.Kind)
	assert.Equal(t, []internal.RunStatus{internal.StatusCancelled}, rec.finished)
	assert.Len(t, rootFiles(t, dir), 2)
	assert.False(t, m.app.Organizer.Active())
	assert.Nil(t, m.lock)
}

func TestModel_FolderChangeRefreshes(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg")
	load(t, m, dir)

	_, cmd := m.Update(folderChangedMsg{folder: "/elsewhere"})
	assert.Nil(t, cmd)

	writeFiles(t, dir, "b.jpg")
	m.Update(m.listCmd()())
	assert.Len(t, m.entries, 2)
}

func TestFolderWatcher_NotifiesOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := newFolderWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	got := make(chan tea.Msg, 1)
	go func() { got <- w.wait()() }()

	writeFiles(t, dir, "new.txt")

	select {
	case msg := <-got:
		assert.Equal(t, folderChangedMsg{folder: dir}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("没有收到目录变化通知")
	}
}

func TestCategoryCountsFollowTableOrder(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	writeFiles(t, dir, "z.xyz", "a.txt", "b.jpg")
	load(t, m, dir)

	counts := m.categoryCounts()
	assert.True(t, strings.Index(counts, "Images") < strings.Index(counts, "Documents"))
	assert.True(t, strings.Index(counts, "Documents") < strings.Index(counts, "Others"))
}
