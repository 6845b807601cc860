package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngenohkevin/storcat-agent/internal/render"
	"github.com/ngenohkevin/storcat-agent/internal/store"
)

func newListCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalogs in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogDir := a.cfg.ResolveCatalogDir(dir)
			catalogs, err := store.New(nil).ListCatalogs(cmd.Context(), catalogDir)
			if err != nil {
				return err
			}
			printCatalogs(cmd.OutOrStdout(), catalogDir, catalogs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "catalog directory (default: CATALOG_DIR)")

	return cmd
}

func printCatalogs(w io.Writer, dir string, catalogs []store.CatalogSummary) {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)

	if len(catalogs) == 0 {
		fmt.Fprintf(w, "No catalogs in %s\n", dir)
		return
	}

	cyan.Fprintf(w, "%d catalogs in %s\n\n", len(catalogs), dir)
	for _, c := range catalogs {
		fmt.Fprintf(w, "  %-24s %-32s %6s  %s", c.Name, c.Title, render.FormatBytes(c.Size), c.Modified.Format("2006-01-02 15:04"))
		if !c.HasHTML {
			gray.Fprint(w, "  (no rendering)")
		}
		fmt.Fprintln(w)
	}
}
