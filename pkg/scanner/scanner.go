package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/pkg/classifier"
	"github.com/moyu-x/folder-organizer/pkg/logger"
)

// ErrNotFound 目录不存在或不是目录
var ErrNotFound = errors.New("目录不存在或不是目录")

// DisplayEntry 列表中的一项：文件名及其分类
type DisplayEntry struct {
	Name     string
	Category string
}

// Listing 目录的直接子项，文件与子目录分开
type Listing struct {
	Folder string
	Files  []DisplayEntry
	Dirs   []string
}

// Lister 读取目录的直接子项，不递归
type Lister struct {
	Fs    afero.Fs
	Table classifier.Table
}

func NewLister(fs afero.Fs, table classifier.Table) *Lister {
	return &Lister{
		Fs:    fs,
		Table: table,
	}
}

// IsDir 检查路径是否为已存在的目录
func IsDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}

// Scan 读取目录并按文件/子目录拆分，文件按分类表解析分类
func (l *Lister) Scan(folder string) (*Listing, error) {
	if !IsDir(l.Fs, folder) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, folder)
	}

	entries, err := afero.ReadDir(l.Fs, folder)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}

	listing := &Listing{Folder: folder}
	for _, info := range entries {
		if info.IsDir() {
			listing.Dirs = append(listing.Dirs, info.Name())
			continue
		}

		if !l.isRegular(folder, info) {
			logger.Get().Debug().Str("name", info.Name()).Msg("跳过非普通文件")
			continue
		}

		listing.Files = append(listing.Files, DisplayEntry{
			Name:     info.Name(),
			Category: classifier.Resolve(info.Name(), l.Table),
		})
	}

	logger.Get().Debug().
		Str("folder", folder).
		Int("files", len(listing.Files)).
		Int("dirs", len(listing.Dirs)).
		Msg("目录扫描完成")

	return listing, nil
}

// isRegular 普通文件，或指向普通文件的符号链接
func (l *Lister) isRegular(folder string, info os.FileInfo) bool {
	if info.Mode().IsRegular() {
		return true
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}

	target, err := l.Fs.Stat(filepath.Join(folder, info.Name()))
	if err != nil {
		return false
	}
	return target.Mode().IsRegular()
}

// List 返回目录中每个文件的展示项
func (l *Lister) List(folder string) ([]DisplayEntry, error) {
	listing, err := l.Scan(folder)
	if err != nil {
		return nil, err
	}
	return listing.Files, nil
}

// ListFiles 仅返回文件名，用于构建快照
func (l *Lister) ListFiles(folder string) ([]string, error) {
	listing, err := l.Scan(folder)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(listing.Files))
	for _, entry := range listing.Files {
		names = append(names, entry.Name)
	}
	return names, nil
}

// CountByCategory 统计每个分类的文件数
func CountByCategory(entries []DisplayEntry) map[string]int {
	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.Category]++
	}
	return counts
}
