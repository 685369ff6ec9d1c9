package tui

import (
	"time"

	"github.com/moyu-x/folder-organizer/hasher"
	"github.com/moyu-x/folder-organizer/pkg/organizer"
	"github.com/moyu-x/folder-organizer/pkg/scanner"
)

type listingMsg struct {
	folder  string
	listing *scanner.Listing
	err     error
}

// stepDueMsg 间隔到期，可以执行下一步
type stepDueMsg struct {
	runID string
}

type stepResultMsg struct {
	state   organizer.State
	outcome organizer.Outcome
}

type detailsMsg struct {
	details hasher.Details
}

type deletedMsg struct {
	name string
	err  error
}

type openedMsg struct {
	name string
	err  error
}

// folderChangedMsg 监听到目录变化
type folderChangedMsg struct {
	folder string
}

type statusClearMsg struct {
	at time.Time
}
