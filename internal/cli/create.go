package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ngenohkevin/storcat-agent/internal/render"
	"github.com/ngenohkevin/storcat-agent/internal/store"
	"github.com/ngenohkevin/storcat-agent/internal/volume"
)

func newCreateCommand(a *app) *cobra.Command {
	var req store.CreateRequest

	cmd := &cobra.Command{
		Use:   "create <directory>",
		Short: "Catalog a directory tree",
		Long: `Walk a directory and write <name>.json and <name>.html describing it.
Hidden entries and symlinks are left out. Subdirectories that cannot be
read are kept as empty directories and reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.DirectoryPath = args[0]
			if req.OutputRoot == "" {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolve directory: %w", err)
				}
				req.OutputRoot = filepath.Base(abs)
			}
			return runCreate(cmd, a, req)
		},
	}

	cmd.Flags().StringVarP(&req.OutputRoot, "name", "n", "", "output base name (default: directory name)")
	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "title of the HTML rendering (default: base name)")
	cmd.Flags().StringVarP(&req.OutputDirectory, "out-dir", "o", "", "where to write the outputs (default: the cataloged directory)")
	cmd.Flags().StringVar(&req.CopyToDirectory, "copy-to", "", "also copy both outputs into this directory")

	return cmd
}

func runCreate(cmd *cobra.Command, a *app, req store.CreateRequest) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	volumes := volume.NewInspector(a.cfg.InfoCacheTTL)
	defer volumes.Close()

	var onProgress func(string)
	if isTerminal(errOut) {
		onProgress = func(name string) {
			fmt.Fprintf(errOut, "\r\033[K%s", name)
		}
	}

	result, err := store.New(volumes).Create(cmd.Context(), req, onProgress)
	if onProgress != nil {
		fmt.Fprint(errOut, "\r\033[K")
	}
	if err != nil {
		return err
	}

	printCreateResult(out, result)
	return nil
}

func printCreateResult(w io.Writer, result *store.CreateResult) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	green.Fprintln(w, "Catalog created")
	fmt.Fprintf(w, "  Document:  %s\n", result.JSONPath)
	fmt.Fprintf(w, "  Rendering: %s\n", result.HTMLPath)
	if result.CopyJSONPath != "" {
		fmt.Fprintf(w, "  Copied to: %s\n", filepath.Dir(result.CopyJSONPath))
	}
	fmt.Fprintf(w, "  Files:     %d\n", result.FileCount)
	fmt.Fprintf(w, "  Size:      %s\n", render.FormatBytes(result.TotalSize))
	if result.Volume != nil {
		gray.Fprintf(w, "  Volume:    %s (%s), %s free of %s\n",
			result.Volume.Mountpoint, result.Volume.Fstype,
			render.FormatBytes(int64(result.Volume.Free)), render.FormatBytes(int64(result.Volume.Total)))
	}

	if len(result.Warnings) > 0 {
		yellow.Fprintf(w, "\n%d entries skipped:\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			yellow.Fprintf(w, "  %s: %s\n", warning.Path, warning.Message)
		}
	}
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
