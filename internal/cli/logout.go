package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved ark session",
		Long: `Drops the bearer token and account saved by 'ark login'. The server URL is
kept so the next login goes to the same place. ARK_TOKEN is not affected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.OutOrStdout())
		},
	}
}

// runLogout only edits the local profile. The token stays valid on the
// server until it expires.
func runLogout(out io.Writer) error {
	p, err := loadProfile()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if p.Token == "" {
		_, err := fmt.Fprintln(out, "Not logged in.")
		return err
	}

	who := p.Email
	p.Token, p.Email, p.ExpiresAt = "", "", time.Time{}
	if err := saveProfile(p); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if who == "" {
		_, err = fmt.Fprintln(out, "✓ Logged out.")
	} else {
		_, err = fmt.Fprintf(out, "✓ Logged out %s.\n", who)
	}
	return err
}
