package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/board-report/internal/auth"
	"github.com/spec-kit/board-report/internal/config"
)

// TokenCmd returns the token command.
func TokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a trigger token for the hosted run endpoint",
		Long: `Mint a bearer token a scheduler can use against POST /api/v1/reports/run.
Requires AUTH_TRIGGER_SECRET to match the hosted service.

The token goes to stdout so it can be piped; metadata goes to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			tokenTTL := cfg.Auth.TriggerTokenTTL()
			if ttl > 0 {
				tokenTTL = ttl
			}
			manager := auth.NewTokenManager(cfg.Auth.TriggerSecret, tokenTTL)

			token, expiresAt, err := manager.GenerateToken(subject)
			if err != nil {
				return err
			}

			fmt.Println(token)
			fmt.Fprintln(os.Stderr, color.New(color.FgHiBlack).Sprintf("expires %s", expiresAt.Format(time.RFC3339)))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "scheduler", "Token subject recorded on runs")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to AUTH_TRIGGER_TOKEN_TTL_MINUTES)")

	return cmd
}
