package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/db"
	"github.com/VoxDroid/rpkgs/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent package operations",
	Long:  "Show recent refreshes, installs, removals, updates and load toggles (newest first)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbConn, err := db.OpenConfigured(cfg)
		if err != nil {
			return err
		}
		r := history.NewRepository(dbConn)
		defer func() { _ = r.Close() }()

		entries, err := r.List(limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "no history yet")
			return nil
		}
		last, err := r.LastRefresh()
		if err != nil {
			return err
		}
		if last != nil {
			fmt.Fprintf(out, "last refresh: %s, %d packages (snapshot %s)\n", last.CreatedAt, last.PackageCount, last.Fingerprint)
		}
		for _, e := range entries {
			subject := strings.Join(e.Packages, ",")
			if e.Operation == history.OpRefresh && e.Status == history.StatusOK {
				subject = fmt.Sprintf("%d packages", e.PackageCount)
			}
			line := fmt.Sprintf("#%d\t%s\t%s\t%s", e.ID, e.CreatedAt, e.Operation, e.Status)
			if subject != "" {
				line += "\t" + subject
			}
			if e.Detail != "" {
				line += "\t" + e.Detail
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
