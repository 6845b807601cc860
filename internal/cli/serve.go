package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logging.Sync()

			if a.cfg.OpenAccess {
				logging.L().Warn("no API key configured, run 'storcat-agent keygen --save' to enable authentication",
					zap.String("env_file", a.cfg.EnvFile))
			}

			return server.New(a.cfg).Run()
		},
	}
}
