package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	UserID    string
	CompanyID string
	Admin     bool
	Secret    string
	ExpiresIn string
}

func newTokenCmd() *cobra.Command {
	var opts tokenOptions

	cmd := &cobra.Command{
		Use:   "token --user <id> [--company <id>] [--admin]",
		Short: "Mint an access token for calling the API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Secret == "" {
				opts.Secret = os.Getenv("JWT_SECRET_KEY")
			}

			svc, err := jwt.NewJWTService(opts.Secret, opts.ExpiresIn)
			if err != nil {
				return err
			}

			claims := jwt.Claims{UserID: opts.UserID, IsAdmin: opts.Admin}
			if opts.CompanyID != "" {
				claims.CompanyID = &opts.CompanyID
			}

			token, expiresAt, err := svc.GenerateAccessToken(claims)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.UserID, "user", "u", "", "User ID put in the token (required)")
	cmd.Flags().StringVarP(&opts.CompanyID, "company", "c", "", "Restrict the token to this company")
	cmd.Flags().BoolVar(&opts.Admin, "admin", false, "Grant admin privilege")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "Signing secret (defaults to JWT_SECRET_KEY)")
	cmd.Flags().StringVar(&opts.ExpiresIn, "expires-in", "1h", "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
