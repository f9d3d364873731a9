package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/cmd/tui/ui"
	"github.com/VoxDroid/rpkgs/internal/config"
	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/refresh"
	"github.com/VoxDroid/rpkgs/internal/tui/model"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive package browser",
	Long:  "Start an R session and browse its packages: load/unload with space, search with /, install with i",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		bridge := ui.NewBridge()
		defer bridge.Close()
		notes := bridge.Notifier()

		a, err := newApp(cmd, appOptions{console: bridge.Console(), notifier: notes})
		if err != nil {
			return err
		}
		defer a.Close()

		// the alternate screen owns the terminal; logs go to a file
		if dir, err := config.EnsureDataDir(); err == nil {
			if f, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				log.SetOutput(f)
				defer func() {
					log.SetOutput(nil)
					_ = f.Close()
				}()
			}
		}

		offStore := a.store.OnDidChangeTreeData(bridge.StoreChanged)
		defer offStore()
		offFocus := a.host.OnDidFocusConsole(bridge.FocusConsole)
		defer offFocus()
		// registration and the first foreground session each schedule a refresh
		offWatch := refresh.WatchRuntime(a.host, a.host, a.refresher, nil)
		defer offWatch()

		p := ui.NewProgram(model.New(a.store, a.handler))
		bridge.Attach(p)

		ctx := cmdContext(cmd)
		go func() {
			if err := a.start(ctx); err != nil {
				log.Error("start R: %v", err)
				notes.Error("Failed to start R: " + err.Error())
			}
		}()

		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
