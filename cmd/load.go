package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/store"
)

func toggleCmd(use, short string, state store.CheckboxState) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <package>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _ := cmd.Flags().GetString("lib")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.startAndRefresh(ctx); err != nil {
					return err
				}
				rec, err := a.find(args[0], lib)
				if err != nil {
					return err
				}
				return a.store.HandleCheckboxChange(ctx, store.Item{Record: *rec}, state)
			})
		},
	}
	c.Flags().String("lib", "", "Library path when the package is installed more than once")
	return c
}

var (
	loadCmd   = toggleCmd("load", "Attach a package in the R session", store.Checked)
	unloadCmd = toggleCmd("unload", "Detach a package from the R session", store.Unchecked)
)

func init() {
	rootCmd.AddCommand(loadCmd, unloadCmd)
}
