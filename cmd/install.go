package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/nameutil"
)

var installCmd = &cobra.Command{
	Use:   "install [package...]",
	Short: "Install R packages from the configured repository",
	Long: "Install R packages. Names may be given as arguments or as a comma separated list;\n" +
		"without arguments you are prompted for them. Example:\n  rpkgs install ggplot2,dplyr tidyr",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.startAndRefresh(ctx); err != nil {
				return err
			}
			if len(args) == 0 {
				return a.handler.Install(ctx)
			}
			names, err := nameutil.SplitList(strings.Join(args, ","))
			if err != nil {
				return err
			}
			return a.handler.InstallPackages(ctx, names)
		})
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package>",
	Short: "Remove an installed R package",
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
			return a.handler.Uninstall(ctx, rec)
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update all installed R packages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.startAndRefresh(ctx); err != nil {
				return err
			}
			return a.handler.UpdateAll(ctx)
		})
	},
}

func init() {
	uninstallCmd.Flags().String("lib", "", "Library path when the package is installed more than once")
	uninstallCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	updateCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(installCmd, uninstallCmd, updateCmd)
}
