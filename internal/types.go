package internal

import "time"

// 运行状态
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusCancelled RunStatus = "cancelled"
)

// 单个文件处理失败的记录
type Failure struct {
	File     string
	Category string
	Reason   string
	Err      error
}

// 一次整理的统计
type RunStats struct {
	RunID     string
	Folder    string
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
	StartTime time.Time
	EndTime   time.Time
}

// 已处理的文件数（成功 + 失败）
func (s RunStats) Processed() int {
	return s.Succeeded + s.Failed
}

// 单个文件的移动记录
type MoveRecord struct {
	RunID       string
	File        string
	Category    string
	Source      string
	Destination string
	Error       string
}
