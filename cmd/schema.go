package cmd

import (
	"github.com/spf13/cobra"

	"mrcfield/internal/transport/httpapi"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the draft sync request body",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeJSON(cmd.OutOrStdout(), httpapi.DraftSyncSchema())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
