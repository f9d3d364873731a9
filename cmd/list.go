package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/packages"
	"github.com/VoxDroid/rpkgs/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed R packages",
	Long:  "List installed R packages. Example:\n  rpkgs list --filter gg --loaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		loaded, _ := cmd.Flags().GetBool("loaded")
		asJSON, _ := cmd.Flags().GetBool("json")
		return listPackages(cmd, filter, loaded, asJSON)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Fuzzy search installed R packages by name and title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return listPackages(cmd, args[0], false, asJSON)
	},
}

func listPackages(cmd *cobra.Command, filter string, loaded, asJSON bool) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.startAndRefresh(ctx); err != nil {
			return err
		}
		a.store.SetFilter(filter)
		if loaded {
			a.store.ToggleShowOnlyLoaded()
		}
		items := a.store.GetChildren()
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		return writeTable(cmd.OutOrStdout(), a.store, items)
	})
}

func writeJSON(w io.Writer, items []store.Item) error {
	recs := []packages.Record{}
	for _, it := range items {
		if !it.Placeholder {
			recs = append(recs, it.Record)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

func writeTable(w io.Writer, p *store.Provider, items []store.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		ti := p.GetTreeItem(it)
		if it.Placeholder {
			fmt.Fprintln(tw, ti.Label)
			continue
		}
		mark := " "
		if ti.Checkbox != nil && *ti.Checkbox == store.Checked {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", mark, it.Record.Name, it.Record.Version, it.Record.LocationType, it.Record.Title)
	}
	return tw.Flush()
}

func init() {
	listCmd.Flags().String("filter", "", "Fuzzy filter on name and title")
	listCmd.Flags().Bool("loaded", false, "Only show loaded packages")
	listCmd.Flags().Bool("json", false, "Print records as JSON")
	searchCmd.Flags().Bool("json", false, "Print records as JSON")
	rootCmd.AddCommand(listCmd, searchCmd)
}
