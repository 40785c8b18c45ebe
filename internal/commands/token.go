package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/middleware"
)

func newTokenCommand(rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue bearer tokens for the HTTP API",
	}

	var subject string
	var canPost, system bool
	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token with the configured JWT secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.JWTExpiryDuration
			}
			token, err := middleware.IssueToken(cfg.JWTSecret, cfg.JWTIssuer, subject, canPost, system, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "user id the token identifies (required)")
	_ = issue.MarkFlagRequired("subject")
	issue.Flags().BoolVar(&canPost, "can-post", false, "grant the capability to post and reverse entries")
	issue.Flags().BoolVar(&system, "system", false, "mark the caller as a trusted system process")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRY_DURATION)")

	cmd.AddCommand(issue)
	return cmd
}
