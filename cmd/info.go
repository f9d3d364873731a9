package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/cran"
	"github.com/VoxDroid/rpkgs/internal/nameutil"
)

var infoCmd = &cobra.Command{
	Use:   "info <package>...",
	Short: "Show CRAN metadata for packages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			if err := nameutil.ValidateName(name); err != nil {
				return err
			}
		}
		jobs, _ := cmd.Flags().GetInt("jobs")
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := cran.NewClient(cfg.R.Repos)
		descs, err := c.DescribeAll(cmdContext(cmd), args, jobs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, d := range descs {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := writeDescription(out, c, d); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeDescription(w io.Writer, c *cran.Client, d cran.Description) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	row("Package", d.Package)
	row("Version", d.Version)
	row("Title", d.Title)
	row("License", d.License)
	row("Published", d.Published)
	maintainer, email := d.MaintainerParts()
	if email != "" {
		maintainer = fmt.Sprintf("%s <%s>", maintainer, email)
	}
	row("Maintainer", maintainer)
	row("Depends on", strings.Join(d.Dependencies(), ", "))
	row("Homepage", d.Homepage())
	row("CRAN", c.RegistryURL(d.Package))
	row("Manual", c.DocumentationURL(d.Package))
	row("Source", c.DownloadURL(d.Package, d.Version))
	return tw.Flush()
}

func init() {
	infoCmd.Flags().IntP("jobs", "j", cran.DefaultConcurrency, "Parallel CRAN lookups")
	rootCmd.AddCommand(infoCmd)
}
