package cli

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

func newRefreshCommand() *cobra.Command {
	var (
		providerName string
		refreshToken string
		scopes       []string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run the Refresh Token grant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refreshToken == "" {
				return fmt.Errorf("refresh: --refresh-token is required")
			}

			p, err := loadProvider(providerName)
			if err != nil {
				return err
			}

			client, err := p.Client()
			if err != nil {
				return fmt.Errorf("building client: %w", err)
			}

			if len(scopes) == 0 {
				scopes = p.Scopes
			}

			ctx := logger.WithRequestID(cmd.Context(), uuid.NewString())
			resp, err := client.Refresh(ctx, http.DefaultClient, refreshToken, scopes...)
			if err != nil {
				return err
			}
			return printTokenResponse(resp)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "named provider preset from config (required)")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "the refresh token to exchange (required)")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "OAuth scopes to request (repeatable, or comma-separated; narrows the original grant)")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("refresh-token")

	return cmd
}
