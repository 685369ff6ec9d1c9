// Package runlock 防止多个进程同时整理同一个目录。
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/moyu-x/folder-organizer/hasher"
	"github.com/moyu-x/folder-organizer/internal"
)

// ErrLocked 目录正被其他进程整理
var ErrLocked = errors.New("目录正在被其他进程整理")

type Lock struct {
	path string
	lock *flock.Flock
}

// Path 返回目录对应的锁文件路径，锁文件放在临时目录，不会出现在被整理的目录中
func Path(lockDir, folder string) string {
	abs, err := filepath.Abs(folder)
	if err != nil {
		abs = folder
	}
	return filepath.Join(lockDir, fmt.Sprintf("%s-%s.lock", internal.AppName, hasher.HashString(abs)))
}

// Acquire 尝试获取目录锁，lockDir 为空时使用系统临时目录
func Acquire(lockDir, folder string) (*Lock, error) {
	if lockDir == "" {
		lockDir = os.TempDir()
	}

	path := Path(lockDir, folder)
	l := flock.New(path)

	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("获取目录锁失败: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, folder)
	}

	return &Lock{path: path, lock: l}, nil
}

func (l *Lock) Path() string {
	return l.path
}

// Release 释放目录锁并删除锁文件
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("释放目录锁失败: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除锁文件失败: %w", err)
	}
	return nil
}
