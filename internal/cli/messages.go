package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arkproperty/ark/internal/contact"
)

func newMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages",
		Short: "Show contact form messages from the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			msgs, err := contact.NewRepository(database).List(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(msgs)
			}
			return printMessages(os.Stdout, msgs)
		},
	}
}
