package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/refresh"
	"github.com/VoxDroid/rpkgs/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rpkgs %s (query protocol %d)\n", version.Version, refresh.QueryProtocol)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
