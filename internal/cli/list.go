package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all properties",
		Long:  "List every property on the site, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := newAPIClient().ListProperties(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(props)
			}
			return printPropertyTable(os.Stdout, props)
		},
	}
}
