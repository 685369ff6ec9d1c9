package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/moyu-x/folder-organizer/pkg/logger"
)

const watchDebounce = 200 * time.Millisecond

// folderWatcher 监听所选目录的直接子项，变化合并后通知界面刷新
type folderWatcher struct {
	folder  string
	watcher *fsnotify.Watcher
}

func newFolderWatcher(folder string) (*folderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(folder); err != nil {
		_ = w.Close()
		return nil, err
	}

	logger.Get().Debug().Str("folder", folder).Msg("开始监听目录")
	return &folderWatcher{folder: folder, watcher: w}, nil
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// wait 阻塞到目录发生变化，并在 watchDebounce 内没有新的变化后返回
func (fw *folderWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return nil
				}
				if !relevant(event) {
					continue
				}
				if !fw.settle() {
					return nil
				}
				return folderChangedMsg{folder: fw.folder}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return nil
				}
				logger.Get().Warn().Err(err).Str("folder", fw.folder).Msg("目录监听出错")
			}
		}
	}
}

// settle 等待事件平息，watcher 关闭时返回 false
func (fw *folderWatcher) settle() bool {
	timer := time.NewTimer(watchDebounce)
	defer timer.Stop()

	for {
		select {
		case _, ok := <-fw.watcher.Events:
			if !ok {
				return false
			}
			timer.Reset(watchDebounce)
		case <-timer.C:
			return true
		}
	}
}

func (fw *folderWatcher) Close() error {
	if fw == nil {
		return nil
	}
	logger.Get().Debug().Str("folder", fw.folder).Msg("停止监听目录")
	return fw.watcher.Close()
}
