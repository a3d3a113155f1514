package cli

import (
	"errors"
	"fmt"

	"github.com/phrazzld/traffic-tasker/internal/service/auth"
	"github.com/spf13/cobra"
)

// DefaultTokenSubject names tokens issued without --subject.
const DefaultTokenSubject = "tasker-cli"

func (c *cli) tokenCommand() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Long: `Issue a signed bearer token for the HTTP API. Requires auth.jwt_secret
(TRAFFIC_AUTH_JWT_SECRET) to be configured; the token lives for
auth.token_lifetime_minutes.

Example:
  curl -H "Authorization: Bearer $(tasker token --subject laptop)" \
    http://localhost:8080/api/tasks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Auth.Enabled() {
				return errors.New("auth.jwt_secret is not configured; the API accepts requests without tokens")
			}

			svc, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("creating token service: %w", err)
			}
			token, err := svc.GenerateToken(cmd.Context(), subject)
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", DefaultTokenSubject, "subject recorded in the token")
	return cmd
}
