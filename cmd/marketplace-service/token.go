package main

import (
	"fmt"
	"time"

	"marketplace-engine/internal/adapters/identity"
	"marketplace-engine/internal/domain/shared"

	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var (
		principal shared.Principal
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			provider := identity.NewJWTProvider(identity.JWTProviderParams{
				Secret: cfg.Auth.JWTSecret,
				Issuer: cfg.Auth.JWTIssuer,
			})
			token, err := provider.Issue(principal, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&principal.Subject, "subject", "", "identity provider subject (required)")
	cmd.Flags().StringVar(&principal.DisplayName, "name", "", "display name claim")
	cmd.Flags().StringVar(&principal.Email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
