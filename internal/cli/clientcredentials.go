package cli

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

func newClientCredentialsCommand() *cobra.Command {
	var (
		providerName string
		clientSecret string
		charset      string
		scopes       []string
	)

	cmd := &cobra.Command{
		Use:   "client-credentials",
		Short: "Run the Client Credentials grant",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProvider(providerName)
			if err != nil {
				return err
			}

			client, err := p.Client()
			if err != nil {
				return fmt.Errorf("building client: %w", err)
			}

			if clientSecret == "" {
				clientSecret = p.ClientSecret
			}
			if charset == "" {
				charset = p.Charset
			}
			grant, err := client.ClientCredentialsGrant(charset, clientSecret)
			if err != nil {
				return fmt.Errorf("building client credentials grant: %w", err)
			}

			if len(scopes) == 0 {
				scopes = p.Scopes
			}

			ctx := logger.WithRequestID(cmd.Context(), uuid.NewString())
			resp, err := grant.Authorize(ctx, http.DefaultClient, scopes...)
			if err != nil {
				return err
			}
			return printTokenResponse(resp)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "named provider preset from config (required)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "client secret (overrides the provider preset)")
	cmd.Flags().StringVar(&charset, "charset", "", "charset for the Basic auth header: UTF-8 or ISO-8859-1 (defaults to the provider preset, then UTF-8)")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "OAuth scopes to request (repeatable, or comma-separated)")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}
