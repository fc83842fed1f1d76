// Package cli implements geomagctl, an operator tool that runs the metadata
// normalizers over payload files captured from the metadata service.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the geomagctl command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geomagctl",
		Short: "Inspect and convert INTERMAGNET metadata payloads",
		Long: `geomagctl runs the dashboard's normalization over captured metadata
payloads, so upstream data problems can be examined offline.

Payloads are the raw JSON bodies of the observatories ("intermagnet") and
definitive catalogue resources. Use "-" to read from stdin.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
