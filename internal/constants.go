package internal

import "time"

const (
	// 应用名称，用于配置目录与锁文件
	AppName = "folder-organizer"

	// 历史记录数据库默认路径
	DefaultJournalPath = "~/.folder-organizer/history.db"

	// 每处理一个文件后的默认间隔
	DefaultStepDelay = 500 * time.Millisecond

	// 文件检查的默认并发数
	DefaultWorkers = 4

	// 缓冲区大小
	DefaultBufferSize = 1000
)
