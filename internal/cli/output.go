package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/AINative-studio/oauth2native/internal/oauth"
)

// printTokenResponse renders a token endpoint response as a two-row table:
// status code, then the raw body. The core never parses the body, so
// neither does the CLI - it is shown verbatim for the operator to inspect.
func printTokenResponse(resp *oauth.TokenResponse) error {
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Field", "Value"})
	if err := table.Append([]string{"Status", fmt.Sprintf("%d", resp.StatusCode)}); err != nil {
		return err
	}
	if err := table.Append([]string{"Body", string(resp.Body)}); err != nil {
		return err
	}
	return table.Render()
}
