// Package cli defines the cobra command tree for ark.
package cli

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/application"
	"github.com/arkproperty/ark/internal/client"
	"github.com/arkproperty/ark/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ark",
		Short:         "Ark Property Solutions",
		Long:          "Run the Ark Property Solutions website and manage property applications from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: $ARK_DB or ~/.ark/ark.db)")

	root.AddCommand(
		newServeCmd(),
		newSeedCmd(),
		newGeocodeCmd(),
		newListCmd(),
		newApplicationsCmd(),
		newReviewCmd("approve", application.StatusApproved),
		newReviewCmd("reject", application.StatusRejected),
		newMessagesCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// dbPath resolves the local database path: --db, then configured, then the default.
func dbPath(configured string) (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	if configured != "" {
		return configured, nil
	}
	return db.DefaultPath()
}

// openDB opens the local SQLite database used by serve, seed and messages.
func openDB() (*sqlx.DB, error) {
	path, err := dbPath(os.Getenv("ARK_DB"))
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the ark API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getToken())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sqlx.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
