package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/client"
)

func newLoginCmd() *cobra.Command {
	var server, email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store an access token",
		Long:  "Signs in with your email and password and saves the access token for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), server, email)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:8080)")
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")

	return cmd
}

// runLogin prompts for anything not given on the command line. The password
// is read as a line from in.
func runLogin(ctx context.Context, in io.Reader, out io.Writer, serverFlag, email string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	reader := bufio.NewReader(in)
	if email == "" {
		v, err := prompt(reader, out, "Email: ")
		if err != nil {
			return err
		}
		email = v
	}
	password, err := prompt(reader, out, "Password: ")
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	sess, err := client.New(serverURL, "").Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}

	// Keep a server URL saved by an earlier login unless --server overrides it.
	p, err := loadProfile()
	if err != nil {
		p = Profile{}
	}
	p.Token = sess.AccessToken
	p.ExpiresAt = sess.ExpiresAt
	if sess.User != nil {
		p.Email = sess.User.Email
	}
	if serverFlag != "" {
		p.ServerURL = serverFlag
	}
	if err := saveProfile(p); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	_, err = fmt.Fprintf(out, "✓ Logged in as %s.\n", p.Email)
	return err
}

func prompt(r *bufio.Reader, out io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(out, label); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
