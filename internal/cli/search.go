package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/render"
	"github.com/ngenohkevin/storcat-agent/internal/search"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		dir     string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find entries by name across every catalog in a directory",
		Long: `Match term case-insensitively against the names of all entries in all
catalogs of a directory. Catalogs that cannot be parsed are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := search.NewEngine(a.cfg.SearchWorkers)
			results, err := engine.Search(cmd.Context(), args[0], a.cfg.ResolveCatalogDir(dir))
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			printResults(cmd.OutOrStdout(), args[0], results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "catalog directory (default: CATALOG_DIR)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	return cmd
}

func printResults(w io.Writer, term string, results []search.Result) {
	cyan := color.New(color.FgCyan, color.Bold)
	blue := color.New(color.FgBlue)

	if len(results) == 0 {
		fmt.Fprintf(w, "No entries match %q\n", term)
		return
	}

	cyan.Fprintf(w, "%d matches for %q\n", len(results), term)
	current := ""
	for _, r := range results {
		if r.CatalogFilePath != current {
			current = r.CatalogFilePath
			cyan.Fprintf(w, "\n%s\n", r.Catalog)
		}
		fmt.Fprintf(w, "  %s ", render.FormatBytesForDisplay(r.Size))
		if r.Type == catalog.KindDirectory {
			name := r.FullName
			if !strings.HasSuffix(name, "/") {
				name += "/"
			}
			blue.Fprint(w, name)
		} else {
			fmt.Fprint(w, r.FullName)
		}
		fmt.Fprintln(w)
	}
}
