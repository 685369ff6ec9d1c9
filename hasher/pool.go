package hasher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/pkg/classifier"
	"github.com/moyu-x/folder-organizer/pkg/logger"
)

type Task struct {
	Index int
	Path  string
}

// Pool 并发检查文件的工作池
type Pool struct {
	fs      afero.Fs
	table   classifier.Table
	workers int
	tasks   chan Task
	results chan Details
	wg      sync.WaitGroup
	pool    *ants.Pool
	once    sync.Once

	// submit 提交工作线程，为空时使用 ants 池
	submit func(task func()) error
}

func NewPool(fs afero.Fs, table classifier.Table, workers int) *Pool {
	if workers <= 0 {
		workers = internal.DefaultWorkers
	}
	logger.Get().Debug().Msgf("创建文件检查池，工作线程数: %d", workers)
	return &Pool{
		fs:      fs,
		table:   table,
		workers: workers,
		tasks:   make(chan Task, internal.DefaultBufferSize),
		results: make(chan Details, internal.DefaultBufferSize),
	}
}

func (p *Pool) Start() error {
	var err error
	p.pool, err = ants.NewPool(p.workers)
	if err != nil {
		return fmt.Errorf("创建 goroutine 池失败: %w", err)
	}

	submit := p.submit
	if submit == nil {
		submit = p.pool.Submit
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		if err := submit(p.worker); err != nil {
			p.wg.Done()
			// 已启动的工作线程在 tasks 关闭后退出
			p.Close()
			return fmt.Errorf("提交工作线程失败: %w", err)
		}
	}
	return nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		d := Inspect(p.fs, p.table, task.Path)
		d.Index = task.Index
		p.results <- d
	}
}

func (p *Pool) AddTask(task Task) {
	p.tasks <- task
}

func (p *Pool) Results() <-chan Details {
	return p.results
}

// Close 停止接收任务，等待已提交的任务完成后关闭结果通道，可重复调用
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.tasks)
		p.wg.Wait()

		if p.pool != nil {
			p.pool.Release()
		}

		close(p.results)
	})
}

// InspectAll 并发检查目录中的文件，结果顺序与 names 一致
func InspectAll(fs afero.Fs, table classifier.Table, folder string, names []string, workers int) ([]Details, error) {
	pool := NewPool(fs, table, workers)
	if err := pool.Start(); err != nil {
		return nil, err
	}

	go func() {
		for i, name := range names {
			pool.AddTask(Task{Index: i, Path: filepath.Join(folder, name)})
		}
		pool.Close()
	}()

	out := make([]Details, len(names))
	for d := range pool.Results() {
		out[d.Index] = d
	}

	logger.Get().Debug().Int("files", len(names)).Msg("文件检查完成")
	return out, nil
}
