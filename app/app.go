package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/config"
	"github.com/moyu-x/folder-organizer/database"
	"github.com/moyu-x/folder-organizer/internal/fileops"
	"github.com/moyu-x/folder-organizer/internal/runlock"
	"github.com/moyu-x/folder-organizer/pkg/classifier"
	"github.com/moyu-x/folder-organizer/pkg/logger"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

type Options struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool // TUI 模式，不向控制台输出日志
}

// App 组装配置、日志和整理器，供命令行与 TUI 共用
type App struct {
	Config    *config.Config
	Fs        afero.Fs
	Table     classifier.Table
	Organizer *organizer.Organizer
	Lister    *scanner.Lister
	Ops       *fileops.Ops
	Journal   *database.Journal

	// 锁文件目录，为空时使用系统临时目录
	LockDir string
}

func New(opts Options) (*App, error) {
	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	logLevel := cfg.Logging.Level
	if opts.Verbose {
		logLevel = "debug"
	}

	if err := logger.Init(logger.Options{
		Level: logLevel,
		File:  cfg.Logging.File,
		Quiet: opts.Quiet,
	}); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	logger.Get().Debug().Msg("加载配置完成")

	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Fs:     afero.NewOsFs(),
		Table:  table,
	}

	var orgOpts []organizer.Option
	if cfg.Journal.Enabled {
		journal, err := database.NewJournal(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("打开历史数据库失败: %w", err)
		}
		a.Journal = journal
		orgOpts = append(orgOpts, organizer.WithRecorder(journal))
		logger.Get().Debug().Msgf("历史数据库: %s", cfg.Journal.Path)
	}

	a.Organizer = organizer.New(a.Fs, table, orgOpts...)
	a.Lister = a.Organizer.Lister()
	a.Ops = fileops.New(a.Fs)

	return a, nil
}

func loadConfig(file string) (*config.Config, error) {
	if file == "" {
		return config.Load()
	}
	return config.LoadFromFile(file)
}

// Organize 获取目录锁后按配置的间隔整理目录，直到完成或 ctx 结束
func (a *App) Organize(ctx context.Context, folder string, onOutcome func(organizer.Outcome)) (organizer.Outcome, error) {
	lock, err := runlock.Acquire(a.LockDir, folder)
	if err != nil {
		return organizer.Outcome{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Get().Warn().Err(err).Msg("释放目录锁失败")
		}
	}()

	st, err := a.Organizer.Start(folder)
	if err != nil {
		return organizer.Outcome{}, err
	}

	_, out := organizer.Drive(ctx, a.Organizer, st, a.Config.Organize.StepDelay, onOutcome)
	return out, nil
}

// OpenJournal 打开历史数据库，未启用记录时同样按配置路径打开
func (a *App) OpenJournal() (*database.Journal, error) {
	if a.Journal != nil {
		return a.Journal, nil
	}
	journal, err := database.NewJournal(a.Config.Journal.Path)
	if err != nil {
		return nil, err
	}
	a.Journal = journal
	return journal, nil
}

func (a *App) Close() error {
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}
