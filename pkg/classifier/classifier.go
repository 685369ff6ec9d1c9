package classifier

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/spf13/afero"
)

const (
	// Others 未匹配任何分类时使用的保留分类名
	Others = "Others"

	// HeaderSize 内容类型检测所需的文件头部大小（字节）
	HeaderSize = 261
)

// Category 一个分类及其扩展名集合（小写，包含前导点）
type Category struct {
	Name       string
	Extensions []string
}

// Table 有序的分类表，按声明顺序匹配，第一个命中的分类胜出
type Table []Category

// DefaultTable 返回内置的分类表
func DefaultTable() Table {
	return Table{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
		{Name: "Videos", Extensions: []string{".mp4", ".avi", ".mov", ".mkv"}},
		{Name: "Documents", Extensions: []string{".pdf", ".docx", ".txt", ".xlsx", ".pptx"}},
		{Name: "Music", Extensions: []string{".mp3", ".wav", ".aac"}},
		{Name: "Archives", Extensions: []string{".zip", ".rar", ".tar", ".gz"}},
		{Name: "Code", Extensions: []string{".py", ".java", ".cpp", ".js", ".html", ".css"}},
	}
}

// Extension 提取文件扩展名：最后一个点开始的子串，转为小写
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// Resolve 根据文件名解析分类
func Resolve(filename string, table Table) string {
	ext := Extension(filename)
	if ext == "" || ext == "." {
		return Others
	}

	for _, cat := range table {
		for _, e := range cat.Extensions {
			if e == ext {
				return cat.Name
			}
		}
	}

	return Others
}

// Resolve 使用当前分类表解析文件名
func (t Table) Resolve(filename string) string {
	return Resolve(filename, t)
}

// Names 按声明顺序返回分类名，末尾附加 Others
func (t Table) Names() []string {
	names := make([]string, 0, len(t)+1)
	for _, cat := range t {
		names = append(names, cat.Name)
	}
	return append(names, Others)
}

// Normalize 校验并规范化分类表：扩展名转小写并补齐前导点，去除重复
func (t Table) Normalize() (Table, error) {
	if len(t) == 0 {
		return nil, errors.New("分类表为空")
	}

	seen := make(map[string]bool, len(t))
	out := make(Table, 0, len(t))

	for i, cat := range t {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("第 %d 个分类名称为空", i+1)
		}
		if strings.EqualFold(name, Others) {
			return nil, fmt.Errorf("分类名 %q 为保留名称", name)
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return nil, fmt.Errorf("分类名 %q 不能作为目录名", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("分类名 %q 重复", name)
		}
		seen[name] = true

		exts := make([]string, 0, len(cat.Extensions))
		dup := make(map[string]bool, len(cat.Extensions))
		for _, e := range cat.Extensions {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" || e == "." {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			if dup[e] {
				continue
			}
			dup[e] = true
			exts = append(exts, e)
		}

		out = append(out, Category{Name: name, Extensions: exts})
	}

	return out, nil
}

// DetectType 读取文件头部并使用 filetype 检测内容类型
// 仅用于展示，不参与分类
func DetectType(fs afero.Fs, path string) (types.Type, error) {
	file, err := fs.Open(path)
	if err != nil {
		return types.Unknown, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	head := make([]byte, HeaderSize)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return types.Unknown, fmt.Errorf("读取文件头部失败: %w", err)
	}

	// 空文件无法检测
	if n == 0 {
		return types.Unknown, nil
	}

	return filetype.Match(head[:n])
}

// MIME 返回文件的 MIME 类型，无法识别时返回 "unknown"
func MIME(fs afero.Fs, path string) (string, error) {
	kind, err := DetectType(fs, path)
	if err != nil {
		return "", err
	}
	if kind == filetype.Unknown {
		return "unknown", nil
	}
	return kind.MIME.Value, nil
}
