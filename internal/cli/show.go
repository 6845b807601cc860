package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/render"
	"github.com/ngenohkevin/storcat-agent/internal/store"
)

func newShowCommand(_ *app) *cobra.Command {
	var (
		depth    int
		rendered bool
	)

	cmd := &cobra.Command{
		Use:   "show <catalog.json>",
		Short: "Print a catalog as a tree",
		Long: `Print the tree stored in a catalog document. With --rendered the
sibling HTML rendering is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if rendered {
				htmlPath, err := store.ResolveRenderedPath(args[0])
				if err != nil {
					return err
				}
				content, err := store.ReadRendered(htmlPath)
				if err != nil {
					return err
				}
				fmt.Fprint(out, content)
				return nil
			}

			doc, err := catalog.LoadDocument(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(out, render.Terminal(doc.Root, depth))
			fmt.Fprintf(out, "\n%s used in %d directories, %d files\n",
				render.FormatBytes(doc.Root.Size), catalog.CountDirectories(doc.Root), catalog.CountFiles(doc.Root))
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "L", 0, "maximum directory depth to print (0 for all)")
	cmd.Flags().BoolVar(&rendered, "rendered", false, "print the HTML rendering")

	return cmd
}
