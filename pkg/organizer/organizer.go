// Package organizer 按分类把目录中的文件逐个移动到分类子目录。
//
// 整理过程由调用方驱动：Start 创建状态，随后反复调用 Step，每次最多处理一个文件，
// 直到返回终止结果（完成或取消）。两次 Step 之间的间隔由调用方决定。
package organizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/pkg/classifier"
	"github.com/moyu-x/folder-organizer/pkg/logger"
	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

// Recorder 记录整理过程，例如写入历史数据库
type Recorder interface {
	BeginRun(stats internal.RunStats) error
	RecordMove(rec internal.MoveRecord) error
	FinishRun(stats internal.RunStats, status internal.RunStatus) error
}

type Option func(*Organizer)

// WithRecorder 设置整理记录器
func WithRecorder(r Recorder) Option {
	return func(o *Organizer) {
		o.recorder = r
	}
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(o *Organizer) {
		o.now = now
	}
}

// Organizer 整理器，同一时间只允许一个进行中的整理
type Organizer struct {
	fs       afero.Fs
	table    classifier.Table
	lister   *scanner.Lister
	recorder Recorder
	now      func() time.Time

	mu     sync.Mutex
	active string
}

func New(fs afero.Fs, table classifier.Table, opts ...Option) *Organizer {
	o := &Organizer{
		fs:     fs,
		table:  table,
		lister: scanner.NewLister(fs, table),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Organizer) Lister() *scanner.Lister {
	return o.lister
}

// Active 是否有进行中的整理
func (o *Organizer) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != ""
}

// State 一次整理的状态，Step 接收旧状态并返回新状态
type State struct {
	RunID    string
	Folder   string
	Snapshot []string
	Index    int
	Status   internal.RunStatus
	Stats    internal.RunStats

	// 同一次整理的所有状态副本共享取消标志
	cancel *atomic.Bool
}

// Total 快照中的文件数
func (s State) Total() int {
	return len(s.Snapshot)
}

// Terminal 是否已完成或已取消
func (s State) Terminal() bool {
	return s.Status == internal.StatusCompleted || s.Status == internal.StatusCancelled
}

// CancelRequested 是否已请求取消
func (s State) CancelRequested() bool {
	return s.cancel != nil && s.cancel.Load()
}

type OutcomeKind int

const (
	OutcomeProgress OutcomeKind = iota
	OutcomeCompleted
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeProgress:
		return "progress"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome 一次 Step 的结果
type Outcome struct {
	Kind        OutcomeKind
	Index       int // 本次处理的文件在快照中的下标
	Total       int
	File        string
	Category    string
	Destination string
	Err         error
	Stats       internal.RunStats
}

// Terminal 是否为终止结果
func (o Outcome) Terminal() bool {
	return o.Kind != OutcomeProgress
}

// Failed 单个文件是否处理失败
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeProgress && o.Err != nil
}

// Start 校验目录并拍下文件快照
func (o *Organizer) Start(folder string) (State, error) {
	if !scanner.IsDir(o.fs, folder) {
		return State{}, fmt.Errorf("%w: %s", ErrInvalidFolder, folder)
	}

	files, err := o.lister.ListFiles(folder)
	if err != nil {
		if errors.Is(err, scanner.ErrNotFound) {
			return State{}, fmt.Errorf("%w: %s", ErrInvalidFolder, folder)
		}
		return State{}, fmt.Errorf("读取目录失败: %w", err)
	}

	if len(files) == 0 {
		return State{}, fmt.Errorf("%w: %s", ErrNothingToDo, folder)
	}

	runID := uuid.NewString()

	o.mu.Lock()
	if o.active != "" {
		o.mu.Unlock()
		return State{}, fmt.Errorf("%w: 整理 %s 尚未结束", ErrInvalidState, o.active)
	}
	o.active = runID
	o.mu.Unlock()

	st := State{
		RunID:    runID,
		Folder:   folder,
		Snapshot: files,
		Index:    0,
		Status:   internal.StatusRunning,
		Stats: internal.RunStats{
			RunID:     runID,
			Folder:    folder,
			Total:     len(files),
			StartTime: o.now(),
		},
		cancel: new(atomic.Bool),
	}

	if o.recorder != nil {
		if err := o.recorder.BeginRun(st.Stats); err != nil {
			logger.Get().Warn().Err(err).Str("run", runID).Msg("记录整理开始失败")
		}
	}

	logger.Get().Info().
		Str("run", runID).
		Str("folder", folder).
		Int("files", len(files)).
		Msg("开始整理")

	return st, nil
}

// Cancel 请求取消，下一次 Step 返回取消结果；已终止的整理不受影响
func (o *Organizer) Cancel(st State) {
	if st.cancel == nil || st.Terminal() {
		return
	}
	if st.cancel.Swap(true) {
		return
	}

	o.release(st.RunID)
	logger.Get().Info().Str("run", st.RunID).Int("index", st.Index).Msg("已请求取消整理")
}

func (o *Organizer) release(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == runID {
		o.active = ""
	}
}

// Step 处理快照中的下一个文件
func (o *Organizer) Step(st State) (State, Outcome) {
	if st.cancel == nil {
		return st, Outcome{Kind: OutcomeCancelled, Err: ErrInvalidState}
	}

	switch st.Status {
	case internal.StatusCompleted:
		return st, Outcome{Kind: OutcomeCompleted, Total: st.Total(), Stats: st.Stats}
	case internal.StatusCancelled:
		return st, Outcome{Kind: OutcomeCancelled, Total: st.Total(), Stats: st.Stats}
	}

	if st.cancel.Load() {
		return o.finish(st, internal.StatusCancelled)
	}

	if st.Index >= len(st.Snapshot) {
		return o.finish(st, internal.StatusCompleted)
	}

	index := st.Index
	file := st.Snapshot[index]
	category := o.table.Resolve(file)
	categoryDir := filepath.Join(st.Folder, category)
	src := filepath.Join(st.Folder, file)
	dst := filepath.Join(categoryDir, file)

	err := o.ensureDir(categoryDir)
	if err == nil {
		err = o.moveFile(src, dst)
	}

	st.Index++

	out := Outcome{
		Kind:        OutcomeProgress,
		Index:       index,
		Total:       st.Total(),
		File:        file,
		Category:    category,
		Destination: dst,
		Err:         err,
	}

	if err != nil {
		st.Stats.Failed++
		failures := st.Stats.Failures[:len(st.Stats.Failures):len(st.Stats.Failures)]
		st.Stats.Failures = append(failures, internal.Failure{
			File:     file,
			Category: category,
			Reason:   Reason(err),
			Err:      err,
		})
		logger.Get().Error().
			Err(err).
			Str("file", file).
			Str("category", category).
			Str("reason", Reason(err)).
			Msg("整理文件失败")
	} else {
		st.Stats.Succeeded++
		logger.Get().Debug().
			Str("source", src).
			Str("destination", dst).
			Str("category", category).
			Int("index", index+1).
			Int("total", st.Total()).
			Msg("文件整理完成")
	}

	if o.recorder != nil {
		rec := internal.MoveRecord{
			RunID:       st.RunID,
			File:        file,
			Category:    category,
			Source:      src,
			Destination: dst,
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if rerr := o.recorder.RecordMove(rec); rerr != nil {
			logger.Get().Warn().Err(rerr).Str("file", file).Msg("记录文件移动失败")
		}
	}

	out.Stats = st.Stats
	return st, out
}

func (o *Organizer) finish(st State, status internal.RunStatus) (State, Outcome) {
	st.Status = status
	st.Stats.EndTime = o.now()
	o.release(st.RunID)

	kind := OutcomeCompleted
	if status == internal.StatusCancelled {
		kind = OutcomeCancelled
	}

	logger.Get().Info().
		Str("run", st.RunID).
		Str("status", string(status)).
		Int("total", st.Stats.Total).
		Int("succeeded", st.Stats.Succeeded).
		Int("failed", st.Stats.Failed).
		Dur("duration", st.Stats.EndTime.Sub(st.Stats.StartTime)).
		Msg("整理结束")

	if o.recorder != nil {
		if err := o.recorder.FinishRun(st.Stats, status); err != nil {
			logger.Get().Warn().Err(err).Str("run", st.RunID).Msg("记录整理结束失败")
		}
	}

	return st, Outcome{Kind: kind, Total: st.Total(), Stats: st.Stats}
}
