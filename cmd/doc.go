package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/executor"
)

var docCmd = &cobra.Command{
	Use:   "doc <package>",
	Short: "Show the help index of a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.start(ctx); err != nil {
				return err
			}
			return a.handler.PackageHelp(ctx, args[0], executor.Interactive)
		})
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
}
