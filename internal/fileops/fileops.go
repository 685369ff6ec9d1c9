// Package fileops 打开与删除单个文件，与整理过程互不影响。
package fileops

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/pkg/logger"
)

var (
	ErrOpenFailed   = errors.New("无法打开文件")
	ErrDeleteFailed = errors.New("无法删除文件")
)

// Launcher 启动外部程序，测试时可替换
type Launcher func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenerCommand 返回用系统默认程序打开文件的命令
func OpenerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

type Ops struct {
	Fs     afero.Fs
	Launch Launcher
	GOOS   string
}

func New(fs afero.Fs) *Ops {
	return &Ops{
		Fs:     fs,
		Launch: startCommand,
		GOOS:   runtime.GOOS,
	}
}

// Open 使用系统默认程序打开文件，不等待程序退出
func (o *Ops) Open(path string) error {
	info, err := o.Fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s 是目录", ErrOpenFailed, path)
	}

	name, args := OpenerCommand(o.GOOS, path)
	if err := o.Launch(name, args...); err != nil {
		logger.Get().Error().Err(err).Str("file", path).Str("command", name).Msg("打开文件失败")
		return fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	logger.Get().Info().Str("file", path).Str("command", name).Msg("已打开文件")
	return nil
}

// Delete 删除单个文件，目录不会被删除
func (o *Ops) Delete(path string) error {
	info, err := o.Fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s 是目录", ErrDeleteFailed, path)
	}

	if err := o.Fs.Remove(path); err != nil {
		logger.Get().Error().Err(err).Str("file", path).Msg("删除文件失败")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	logger.Get().Info().Str("file", path).Msg("已删除文件")
	return nil
}
