package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/application"
)

func newApplicationsCmd() *cobra.Command {
	var sent, received bool

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Show received and sent applications",
		Long:  "Lists applications for properties you own and applications you have submitted. Requires 'ark login'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sent && received {
				return fmt.Errorf("--sent and --received are mutually exclusive")
			}
			return runApplications(cmd.Context(), os.Stdout, !sent, !received)
		},
	}

	cmd.Flags().BoolVar(&sent, "sent", false, "only show applications you submitted")
	cmd.Flags().BoolVar(&received, "received", false, "only show applications for your properties")

	return cmd
}

func runApplications(ctx context.Context, out io.Writer, showReceived, showSent bool) error {
	ov, err := newAPIClient().Applications(ctx)
	if err != nil {
		return err
	}

	if !showReceived {
		ov.Received = nil
	}
	if !showSent {
		ov.Sent = nil
	}

	if isJSON() {
		return printJSON(ov)
	}

	if showReceived {
		if err := printApplicationTable(out, "Received applications", ov.Received); err != nil {
			return err
		}
	}
	if showReceived && showSent {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	if showSent {
		if err := printApplicationTable(out, "Sent applications", ov.Sent); err != nil {
			return err
		}
	}
	return nil
}

// newReviewCmd builds the approve and reject commands.
func newReviewCmd(use string, status application.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <application-id>",
		Short: fmt.Sprintf("Mark an application as %s", status),
		Long:  "Only the owner of the application's property can review it. Requires 'ark login'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), os.Stdout, args[0], status)
		},
	}
}

func runReview(ctx context.Context, out io.Writer, id string, status application.Status) error {
	app, err := newAPIClient().SetStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(app)
	}
	_, err = fmt.Fprintf(out, "✓ Application %s for %s is now %s.\n", app.ID, app.Title(), app.Status)
	return err
}
