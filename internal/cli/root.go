// Package cli holds the storcat-agent command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngenohkevin/storcat-agent/config"
	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/server"
)

// app carries state shared by every subcommand once the root has loaded configuration
type app struct {
	cfg     *config.Config
	verbose bool
}

// NewRootCommand creates and returns the root cobra command for storcat-agent
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "storcat-agent",
		Short: "Catalog directory trees and search the catalogs",
		Long: `storcat-agent walks a directory tree and writes a catalog of it as a
JSON document plus an HTML tree rendering. Catalogs saved in a directory
can be listed, viewed and searched by name, from the command line or
over the HTTP API started by "serve".`,
		Version: server.Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level regardless of LOG_LEVEL")

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newCreateCommand(a))
	cmd.AddCommand(newSearchCommand(a))
	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newShowCommand(a))
	cmd.AddCommand(newKeygenCommand(a))
	cmd.AddCommand(newTokenCommand(a))

	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	// Logs go to stderr so command output on stdout stays clean
	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: "stderr",
	}); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	if a.verbose {
		logging.SetLevel("debug")
	}
	return nil
}
