package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
)

// document is the normalize output.
type document struct {
	Observatories []domain.ObservatoryRecord `json:"observatories" yaml:"observatories"`
	Institutes    []domain.InstituteRecord   `json:"institutes" yaml:"institutes"`
	Contacts      domain.ContactDirectory    `json:"contacts" yaml:"contacts"`
	Definitives   []domain.DefinitiveRow     `json:"definitives,omitempty" yaml:"definitives,omitempty"`
	Report        reportSummary              `json:"report" yaml:"report"`
}

type reportSummary struct {
	Entries             int      `json:"entries" yaml:"entries"`
	Kept                int      `json:"kept" yaml:"kept"`
	DroppedNoMembership int      `json:"dropped_no_membership" yaml:"dropped_no_membership"`
	DroppedDuplicate    int      `json:"dropped_duplicate" yaml:"dropped_duplicate"`
	MissingLocation     int      `json:"missing_location" yaml:"missing_location"`
	Issues              []string `json:"issues,omitempty" yaml:"issues,omitempty"`
}

func summarize(r domain.NormalizeReport) reportSummary {
	s := reportSummary{
		Entries:             r.Entries,
		Kept:                r.Kept,
		DroppedNoMembership: r.DroppedNoMembership,
		DroppedDuplicate:    r.DroppedDuplicate,
		MissingLocation:     r.MissingLocation,
	}
	for _, issue := range r.Issues {
		s.Issues = append(s.Issues, issue.Error())
	}
	return s
}

func newNormalizeCmd() *cobra.Command {
	var observatories, definitives, format string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the normalized records of a payload",
		Example: `  geomagctl normalize --observatories intermagnet.json
  curl -s "$METADATA_BASE_URL/intermagnet/?format=json" | geomagctl normalize --observatories - --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (supported: json, yaml)", format)
			}
			l, err := load(cmd, observatories, definitives)
			if err != nil {
				return err
			}
			doc := document{
				Observatories: l.Observatories,
				Institutes:    domain.NormalizeInstitutes(l.Raw),
				Contacts:      domain.NormalizeContacts(l.Raw),
				Definitives:   l.Definitives,
				Report:        summarize(l.Report),
			}
			return writeDocument(cmd.OutOrStdout(), format, doc)
		},
	}

	addInputFlags(cmd, &observatories, &definitives)
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")

	return cmd
}

func writeDocument(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
