package database

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/pkg/logger"
)

// RunRecord 一次整理的记录
type RunRecord struct {
	ID         string    `gorm:"primaryKey"`
	Folder     string    `gorm:"index;not null"`
	Status     string    `gorm:"not null"`
	Total      int       `gorm:"not null"`
	Succeeded  int       `gorm:"not null"`
	Failed     int       `gorm:"not null"`
	StartedAt  time.Time `gorm:"index;not null"`
	FinishedAt *time.Time
}

func (RunRecord) TableName() string {
	return "runs"
}

// MoveRecord 单个文件的移动记录
type MoveRecord struct {
	ID          int64  `gorm:"primaryKey"`
	RunID       string `gorm:"index;not null"`
	File        string `gorm:"not null"`
	Category    string `gorm:"not null"`
	Source      string `gorm:"not null"`
	Destination string `gorm:"not null"`
	Error       string
	CreatedAt   time.Time `gorm:"not null"`
}

func (MoveRecord) TableName() string {
	return "moves"
}

// Journal 整理历史，写入 SQLite
type Journal struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewJournal(dbPath string) (*Journal, error) {
	expandedPath, err := ExpandPath(dbPath)
	if err != nil {
		logger.Get().Error().Err(err).Msg("扩展数据库路径失败")
		return nil, err
	}

	logger.Get().Debug().Msgf("初始化历史数据库，路径: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("创建数据库目录失败: %s", filepath.Dir(expandedPath))
		return nil, err
	}

	dsn := expandedPath + "?_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Get().Error().Err(err).Msg("打开数据库连接失败")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&RunRecord{}, &MoveRecord{}); err != nil {
		logger.Get().Error().Err(err).Msg("创建数据库表失败")
		return nil, err
	}

	return &Journal{db: db}, nil
}

// ExpandPath 展开路径开头的 ~
func ExpandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func (j *Journal) BeginRun(stats internal.RunStats) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec := &RunRecord{
		ID:        stats.RunID,
		Folder:    stats.Folder,
		Status:    string(internal.StatusRunning),
		Total:     stats.Total,
		StartedAt: stats.StartTime,
	}
	return j.db.Create(rec).Error
}

func (j *Journal) RecordMove(rec internal.MoveRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.db.Create(&MoveRecord{
		RunID:       rec.RunID,
		File:        rec.File,
		Category:    rec.Category,
		Source:      rec.Source,
		Destination: rec.Destination,
		Error:       rec.Error,
		CreatedAt:   time.Now(),
	}).Error
}

func (j *Journal) FinishRun(stats internal.RunStats, status internal.RunStatus) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	finished := stats.EndTime
	res := j.db.Model(&RunRecord{}).Where("id = ?", stats.RunID).Updates(map[string]any{
		"status":      string(status),
		"succeeded":   stats.Succeeded,
		"failed":      stats.Failed,
		"finished_at": &finished,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("整理记录不存在: " + stats.RunID)
	}
	return nil
}

// RecentRuns 按开始时间倒序返回最近的整理
func (j *Journal) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	q := j.db.Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Moves 返回某次整理的所有移动记录
func (j *Journal) Moves(runID string) ([]MoveRecord, error) {
	var moves []MoveRecord
	if err := j.db.Where("run_id = ?", runID).Order("id").Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		logger.Get().Error().Err(err).Msg("获取数据库连接失败")
		return err
	}
	return sqlDB.Close()
}
