package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/moyu-x/folder-organizer/app"
	"github.com/moyu-x/folder-organizer/tui"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folder-organizer [folder]",
	Short: "按扩展名把目录中的文件整理到分类子目录",
	Long: `Folder Organizer 扫描选定的目录，按扩展名把文件归入固定的分类
（Images、Videos、Documents、Music、Archives、Code、Others），
并把文件逐个移动到同名的分类子目录中。

不带子命令运行时启动交互界面：
- 选择目录并查看每个文件的分类
- 开始/取消整理，实时显示进度
- 查看、打开或删除单个文件
- 切换明暗主题`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	folder := ""
	if len(args) == 1 {
		folder = args[0]
	}

	return tui.Run(a, folder)
}

func newApp(quiet bool) (*app.App, error) {
	return app.New(app.Options{
		ConfigFile: cfgFile,
		Verbose:    verbose,
		Quiet:      quiet,
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件 (默认 $HOME/.folder-organizer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "显示详细日志")
}
