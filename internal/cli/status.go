package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored access token is valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runStatus(ctx context.Context, out io.Writer) error {
	serverURL := getServerURL()
	token := getToken()

	fmt.Fprintf(out, "Server:  %s\n", serverURL)

	if token == "" {
		fmt.Fprintln(out, "Token:   not configured")
		fmt.Fprintln(out, "\nRun 'ark login' to authenticate.")
		return nil
	}

	prefix := token
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	fmt.Fprintf(out, "Token:   %s…\n", prefix)

	user, err := client.New(serverURL, token).Me(ctx)
	var se *client.StatusError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Status:  ✓ connected as %s\n", user.Email)
	case errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized:
		fmt.Fprintln(out, "Status:  ✗ invalid or expired token")
		fmt.Fprintln(out, "\nRun 'ark login' to re-authenticate.")
	case errors.As(err, &se):
		fmt.Fprintf(out, "Status:  ✗ unexpected response (%d)\n", se.StatusCode)
	default:
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
	}

	return nil
}
