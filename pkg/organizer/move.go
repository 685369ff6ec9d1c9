package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/pkg/logger"
)

// ensureDir 确保分类目录存在，已存在时不报错
func (o *Organizer) ensureDir(dir string) error {
	if err := o.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建分类目录失败: %w", err)
	}
	return nil
}

// moveFile 将文件从源路径移动到目标路径，目标已存在时返回 ErrMoveConflict
func (o *Organizer) moveFile(src, dst string) error {
	if _, err := o.fs.Stat(src); err != nil {
		return fmt.Errorf("源文件不可用: %w", err)
	}

	exists, err := afero.Exists(o.fs, dst)
	if err != nil {
		return fmt.Errorf("检查目标文件失败: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrMoveConflict, dst)
	}

	err = o.fs.Rename(src, dst)
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("移动文件失败: %w", err)
	}

	// 跨卷移动，复制后删除
	logger.Get().Debug().
		Err(err).
		Str("source", src).
		Str("destination", dst).
		Msg("直接重命名失败，尝试复制后删除")

	return o.copyThenRemove(src, dst)
}

func (o *Organizer) copyThenRemove(src, dst string) error {
	info, err := o.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("读取源文件信息失败: %w", err)
	}

	sourceFile, err := o.fs.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %w", err)
	}
	defer sourceFile.Close()

	// O_EXCL 保证不会覆盖并发出现的同名文件
	destFile, err := o.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrMoveConflict, dst)
		}
		return fmt.Errorf("创建目标文件失败: %w", err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		_ = o.fs.Remove(dst)
		return fmt.Errorf("复制文件内容失败: %w", err)
	}

	if err := destFile.Close(); err != nil {
		_ = o.fs.Remove(dst)
		return fmt.Errorf("关闭目标文件失败: %w", err)
	}

	if err := o.fs.Remove(src); err != nil {
		return fmt.Errorf("删除原文件失败: %w", err)
	}

	return nil
}
