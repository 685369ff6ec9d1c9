package hasher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/pkg/classifier"
)

// Details 文件检查结果
type Details struct {
	Index    int
	Path     string
	Name     string
	Category string
	Size     int64
	ModTime  time.Time
	MIME     string
	Hash     string
	Err      error
}

// Inspect 读取单个文件的大小、内容类型和哈希
func Inspect(fs afero.Fs, table classifier.Table, path string) Details {
	d := Details{
		Path:     path,
		Name:     filepath.Base(path),
		Category: classifier.Resolve(filepath.Base(path), table),
	}

	info, err := fs.Stat(path)
	if err != nil {
		d.Err = fmt.Errorf("读取文件信息失败: %w", err)
		return d
	}
	if info.IsDir() {
		d.Err = fmt.Errorf("%s 是目录", path)
		return d
	}
	d.Size = info.Size()
	d.ModTime = info.ModTime()

	mime, err := classifier.MIME(fs, path)
	if err != nil {
		d.Err = err
		return d
	}
	d.MIME = mime

	h, err := CalculateHash(fs, path)
	if err != nil {
		d.Err = err
		return d
	}
	d.Hash = FormatHash(h)

	return d
}
