package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var observatories, definitives string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report entries the normalizer skipped",
		Long: `Validate normalizes a payload and prints what was kept and dropped.

It exits non-zero when any entry could not be normalized. Entries without
membership periods, duplicates and missing locations are counted but are not
failures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := load(cmd, observatories, definitives)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := l.Report
			fmt.Fprintf(out, "entries:               %d\n", r.Entries)
			fmt.Fprintf(out, "kept:                  %d\n", r.Kept)
			fmt.Fprintf(out, "dropped no membership: %d\n", r.DroppedNoMembership)
			fmt.Fprintf(out, "dropped duplicate:     %d\n", r.DroppedDuplicate)
			fmt.Fprintf(out, "missing location:      %d\n", r.MissingLocation)
			if definitives != "" {
				fmt.Fprintf(out, "definitive rows:       %d\n", len(l.Definitives))
			}
			for _, issue := range r.Issues {
				fmt.Fprintf(out, "invalid: %s\n", issue)
			}

			if len(r.Issues) > 0 {
				return fmt.Errorf("%d invalid entries", len(r.Issues))
			}
			return nil
		},
	}

	addInputFlags(cmd, &observatories, &definitives)

	return cmd
}
