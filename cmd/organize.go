package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/moyu-x/folder-organizer/pkg/organizer"
)

var (
	organizeDelay time.Duration
	organizeQuiet bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize <folder>",
	Short: "整理目录（无交互）",
	Long: `按分类把目录中的文件逐个移动到分类子目录。

每移动一个文件后等待 organize.step_delay，按 Ctrl+C 在当前文件处理完后取消，
已经移动的文件保持不变。`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("delay") {
		if organizeDelay < 0 {
			return fmt.Errorf("--delay 不能为负数: %s", organizeDelay)
		}
		a.Config.Organize.StepDelay = organizeDelay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	out, err := a.Organize(ctx, args[0], func(o organizer.Outcome) {
		if o.Kind != organizer.OutcomeProgress || organizeQuiet {
			return
		}
		fmt.Fprintln(w, formatProgress(o))
	})
	if errors.Is(err, organizer.ErrNothingToDo) {
		fmt.Fprintln(w, dimColor.Sprint("目录中没有需要整理的文件"))
		return nil
	}
	if err != nil {
		return err
	}

	printSummary(w, out)
	return nil
}

func init() {
	organizeCmd.Flags().DurationVar(&organizeDelay, "delay", 0, "每个文件之间的间隔，覆盖 organize.step_delay")
	organizeCmd.Flags().BoolVarP(&organizeQuiet, "quiet", "q", false, "只输出汇总")
	rootCmd.AddCommand(organizeCmd)
}
