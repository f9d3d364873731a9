package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/cran"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List user-library packages with a newer version on CRAN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.startAndRefresh(ctx); err != nil {
				return err
			}
			updates, err := cran.NewClient(a.cfg.R.Repos).Outdated(ctx, a.store.GetPackages())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(updates) == 0 {
				fmt.Fprintln(out, "all user packages are up to date")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PACKAGE\tINSTALLED\tAVAILABLE\tLIBRARY")
			for _, u := range updates {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Name, u.Installed, u.Available, u.LibPath)
			}
			return tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(outdatedCmd)
}
