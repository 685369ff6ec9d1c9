package organizer

import (
	"errors"
	"io/fs"
	"os"
)

var (
	// ErrInvalidFolder 目标目录不存在或不是目录
	ErrInvalidFolder = errors.New("目录不存在或不是目录")

	// ErrNothingToDo 目录中没有需要整理的文件
	ErrNothingToDo = errors.New("没有需要整理的文件")

	// ErrInvalidState 已有正在进行的整理，或状态未通过 Start 创建
	ErrInvalidState = errors.New("整理状态无效")

	// ErrMoveConflict 目标位置已存在同名文件
	ErrMoveConflict = errors.New("目标文件已存在")
)

// 单个文件失败原因
const (
	ReasonMoveConflict     = "MoveConflict"
	ReasonPermissionDenied = "PermissionDenied"
	ReasonNotFound         = "NotFound"
	ReasonIOError          = "IOError"
)

// Reason 将单个文件的错误归类为失败原因
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMoveConflict):
		return ReasonMoveConflict
	case errors.Is(err, fs.ErrPermission) || os.IsPermission(err):
		return ReasonPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	default:
		return ReasonIOError
	}
}
