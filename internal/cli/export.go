package cli

import (
	"fmt"
	"slices"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
)

// ObservatoryRow is the Parquet layout of an observatory record. Unknown
// coordinates are stored as nulls.
type ObservatoryRow struct {
	IAGA             string   `parquet:"iaga"`
	Name             string   `parquet:"name"`
	Country          string   `parquet:"country"`
	CountryName      string   `parquet:"country_name"`
	Status           string   `parquet:"status"`
	GIN              string   `parquet:"gin"`
	Latitude         *float64 `parquet:"latitude,optional"`
	Longitude        *float64 `parquet:"longitude,optional"`
	Elevation        *float64 `parquet:"elevation,optional"`
	Region           string   `parquet:"region"`
	PublicationDelay string   `parquet:"publication_delay"`
	Orientation      string   `parquet:"orientation"`
	Institutes       []string `parquet:"institutes,list"`
	DefinitiveYears  []string `parquet:"definitive_years,list"`
}

// DefinitiveExportRow is the Parquet layout of a definitive catalogue row.
type DefinitiveExportRow struct {
	Year      string `parquet:"year"`
	IAGA      string `parquet:"iaga"`
	Republish string `parquet:"republish"`
}

func newExportCmd() *cobra.Command {
	var observatories, definitives, output, definitivesOutput string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write normalized records to Parquet",
		Example: `  geomagctl export --observatories intermagnet.json --output observatories.parquet
  geomagctl export --observatories intermagnet.json --definitives definitive.json \
    --output observatories.parquet --definitives-output definitives.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if definitivesOutput != "" && definitives == "" {
				return fmt.Errorf("--definitives-output requires --definitives")
			}
			l, err := load(cmd, observatories, definitives)
			if err != nil {
				return err
			}

			rows := observatoryRows(l.Observatories, domain.ObservatoriesByYear(l.Definitives))
			if err := writeParquet(output, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d observatories to %s\n", len(rows), output)

			if definitivesOutput != "" {
				defRows := make([]DefinitiveExportRow, 0, len(l.Definitives))
				for _, r := range l.Definitives {
					defRows = append(defRows, DefinitiveExportRow(r))
				}
				if err := writeParquet(definitivesOutput, defRows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d definitive rows to %s\n", len(defRows), definitivesOutput)
			}
			return nil
		},
	}

	addInputFlags(cmd, &observatories, &definitives)
	cmd.Flags().StringVar(&output, "output", "observatories.parquet", "Observatories Parquet file")
	cmd.Flags().StringVar(&definitivesOutput, "definitives-output", "", "Definitive catalogue Parquet file")

	return cmd
}

func observatoryRows(records []domain.ObservatoryRecord, byYear map[string][]string) []ObservatoryRow {
	years := make(map[string][]string)
	for year, codes := range byYear {
		for _, code := range codes {
			years[code] = append(years[code], year)
		}
	}

	rows := make([]ObservatoryRow, 0, len(records))
	for _, r := range records {
		dy := years[r.IAGA]
		slices.Sort(dy)
		rows = append(rows, ObservatoryRow{
			IAGA:             r.IAGA,
			Name:             r.Name,
			Country:          r.Country,
			CountryName:      domain.CountryName(r.Country),
			Status:           string(r.Status),
			GIN:              r.GIN,
			Latitude:         optionalFloat(r.Latitude),
			Longitude:        optionalFloat(r.Longitude),
			Elevation:        optionalFloat(r.Elevation),
			Region:           r.Region,
			PublicationDelay: r.PublicationDelay,
			Orientation:      r.Orientation,
			Institutes:       r.Institutes,
			DefinitiveYears:  dy,
		})
	}
	return rows
}

func optionalFloat(c domain.Coordinate) *float64 {
	if !c.Valid() {
		return nil
	}
	f := float64(c)
	return &f
}

func writeParquet[T any](path string, rows []T) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
