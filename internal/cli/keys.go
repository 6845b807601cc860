package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngenohkevin/storcat-agent/config"
	"github.com/ngenohkevin/storcat-agent/internal/server"
)

func newKeygenCommand(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := config.GenerateAPIKey()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, key)

			if save {
				if err := a.cfg.SaveAPIKey(key); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "Saved to %s, restart the agent to apply\n", a.cfg.EnvFile)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write the key to the .env file")

	return cmd
}

func newTokenCommand(a *app) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a JWT signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return errors.New("no JWT_SECRET or API_KEY configured")
			}

			auth := server.NewAuthService(a.cfg.APIKey, a.cfg.JWTSecret)
			token, err := auth.GenerateToken(subject, role, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "subject claim identifying the token holder")
	cmd.Flags().StringVar(&role, "role", server.RoleAdmin, "role claim: admin may create catalogs, reader may only read")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
