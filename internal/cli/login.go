package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/AINative-studio/oauth2native/internal/logger"
	"github.com/AINative-studio/oauth2native/internal/oauth"
)

func newLoginCommand() *cobra.Command {
	var (
		providerName  string
		authzOverride string
		scopes        []string
		urlOnly       bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the Authorization Code grant with PKCE",
		Long: `login starts a loopback listener, opens your system browser at the
provider's authorization endpoint, and exchanges the resulting
authorization code for a token once the browser redirects back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, providerName, authzOverride, scopes, urlOnly)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "named provider preset from config (required)")
	cmd.Flags().StringVar(&authzOverride, "authorization-endpoint", "", "override the provider preset's authorization endpoint")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "OAuth scopes to request (repeatable, or comma-separated)")
	cmd.Flags().BoolVar(&urlOnly, "url-only", false, "print the authorization URL instead of opening a browser")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func runLogin(cmd *cobra.Command, providerName, authzOverride string, scopes []string, urlOnly bool) error {
	p, err := loadProvider(providerName)
	if err != nil {
		return err
	}

	client, err := p.Client()
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	authzEndpoint := p.AuthorizationEndpoint
	if authzOverride != "" {
		authzEndpoint = authzOverride
	}
	if authzEndpoint == "" {
		return fmt.Errorf("login: no authorization endpoint configured for provider %q", providerName)
	}

	grant, err := client.AuthorizationCodeGrant(authzEndpoint)
	if err != nil {
		return fmt.Errorf("building authorization code grant: %w", err)
	}
	if p.RedirectPath != "" {
		if err := grant.SetRedirectPath(p.RedirectPath); err != nil {
			return fmt.Errorf("setting redirect path: %w", err)
		}
	}
	if len(p.RedirectPorts) > 0 {
		grant.SetRedirectPorts(p.RedirectPorts...)
	}
	if len(scopes) == 0 {
		scopes = p.Scopes
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = logger.WithRequestID(ctx, uuid.NewString())

	launch := func(_ context.Context, authorizationURI string) error {
		if urlOnly {
			fmt.Fprintf(cmd.OutOrStdout(), "Open this URL in your browser:\n\n\t%s\n\n", authorizationURI)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opening your browser to:\n\n\t%s\n\n", authorizationURI)
		return browser.OpenURL(authorizationURI)
	}

	program := tea.NewProgram(newWaitSpinner("Waiting for the browser redirect..."))
	type outcome struct {
		resp *oauth.TokenResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := grant.Authorize(ctx, http.DefaultClient, launch, scopes...)
		program.Send(spinnerDoneMsg{})
		done <- outcome{resp, err}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running spinner: %w", err)
	}
	out := <-done
	if out.err != nil {
		return out.err
	}
	return printTokenResponse(out.resp)
}
