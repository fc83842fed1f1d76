package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
)

// openInput opens a payload file, or the command's stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	return f, nil
}

func decodeFile[T any](cmd *cobra.Command, path string) (T, error) {
	var v T
	r, err := openInput(cmd, path)
	if err != nil {
		return v, err
	}
	defer r.Close()

	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return v, nil
}

// loaded is the normalized content of the payload files.
type loaded struct {
	Raw           []domain.RawObservatory
	Observatories []domain.ObservatoryRecord
	Report        domain.NormalizeReport
	Definitives   []domain.DefinitiveRow
}

func load(cmd *cobra.Command, observatoriesPath, definitivesPath string) (*loaded, error) {
	payload, err := decodeFile[domain.ObservatoriesPayload](cmd, observatoriesPath)
	if err != nil {
		return nil, err
	}
	records, report := domain.NormalizeObservatories(payload.Data)
	l := &loaded{Raw: payload.Data, Observatories: records, Report: report}

	if definitivesPath != "" {
		defs, err := decodeFile[domain.DefinitivePayload](cmd, definitivesPath)
		if err != nil {
			return nil, err
		}
		l.Definitives = domain.FlattenDefinitives(domain.NormalizeDefinitives(defs))
	}
	return l, nil
}

func addInputFlags(cmd *cobra.Command, observatories, definitives *string) {
	cmd.Flags().StringVar(observatories, "observatories", "", "Path to the observatories payload (required, - for stdin)")
	cmd.Flags().StringVar(definitives, "definitives", "", "Path to the definitive catalogue payload")
	_ = cmd.MarkFlagRequired("observatories")
}
