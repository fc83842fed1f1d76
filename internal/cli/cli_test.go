package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	observatoriesFixture = "../domain/testdata/intermagnet.json"
	definitivesFixture   = "../domain/testdata/definitive.json"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalize_JSON(t *testing.T) {
	out, err := run(t, "", "normalize", "--observatories", observatoriesFixture, "--definitives", definitivesFixture)
	require.NoError(t, err)

	var doc struct {
		Observatories []map[string]any `json:"observatories"`
		Institutes    []map[string]any `json:"institutes"`
		Contacts      map[string]any   `json:"contacts"`
		Definitives   []map[string]any `json:"definitives"`
		Report        reportSummary    `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Observatories, 4)
	assert.Len(t, doc.Institutes, 2)
	assert.Contains(t, doc.Contacts, "Lindqvist_Anna")
	assert.Len(t, doc.Definitives, 4)
	assert.Equal(t, 6, doc.Report.Entries)
	assert.Equal(t, 2, doc.Report.DroppedNoMembership)
}

func TestNormalize_YAMLFromStdin(t *testing.T) {
	payload := `[{"observatory_iaga_code": "NOL", "intermagnet": [{}]}]`

	out, err := run(t, payload, "normalize", "--observatories", "-", "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	obs := doc["observatories"].([]any)
	require.Len(t, obs, 1)
	rec := obs[0].(map[string]any)
	assert.Equal(t, "NOL", rec["iaga"])
	assert.Nil(t, rec["latitude"], "unknown coordinates encode as null")
	assert.Contains(t, out, "missing_location: 1")
}

func TestNormalize_UnsupportedFormat(t *testing.T) {
	_, err := run(t, "", "normalize", "--observatories", observatoriesFixture, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}

func TestNormalize_RequiresObservatories(t *testing.T) {
	_, err := run(t, "", "normalize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "observatories")
}

func TestValidate_Clean(t *testing.T) {
	out, err := run(t, "", "validate", "--observatories", observatoriesFixture, "--definitives", definitivesFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "kept:                  4")
	assert.Contains(t, out, "definitive rows:       4")
	assert.NotContains(t, out, "invalid:")
}

func TestValidate_ReportsInvalidEntries(t *testing.T) {
	payload := `{"data": [{"attributes": {"name": "anon"}, "intermagnet": [{}]}, {"observatory_iaga_code": "OK1", "intermagnet": [{}]}]}`

	out, err := run(t, payload, "validate", "--observatories", "-")
	require.Error(t, err)
	assert.Equal(t, "1 invalid entries", err.Error())
	assert.Contains(t, out, "invalid: observatories entry 0: observatory_iaga_code is missing")
}

func TestValidate_MalformedPayload(t *testing.T) {
	_, err := run(t, "{not json", "validate", "--observatories", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode -")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	obsPath := filepath.Join(dir, "observatories.parquet")
	defPath := filepath.Join(dir, "definitives.parquet")

	out, err := run(t, "", "export",
		"--observatories", observatoriesFixture,
		"--definitives", definitivesFixture,
		"--output", obsPath,
		"--definitives-output", defPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 4 observatories")
	assert.Contains(t, out, "wrote 4 definitive rows")

	rows, err := parquet.ReadFile[ObservatoryRow](obsPath)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byCode := make(map[string]ObservatoryRow, len(rows))
	for _, r := range rows {
		byCode[r.IAGA] = r
	}
	abk := byCode["ABK"]
	assert.Equal(t, "Sweden", abk.CountryName)
	require.NotNil(t, abk.Latitude)
	assert.InDelta(t, 68.358, *abk.Latitude, 1e-9)
	assert.Equal(t, []string{"2019", "2020"}, abk.DefinitiveYears)
	assert.Nil(t, byCode["NOL"].Latitude)

	defs, err := parquet.ReadFile[DefinitiveExportRow](defPath)
	require.NoError(t, err)
	require.Len(t, defs, 4)
	assert.Equal(t, DefinitiveExportRow{Year: "2020", IAGA: "ABK"}, defs[0])
}

func TestExport_DefinitivesOutputNeedsInput(t *testing.T) {
	_, err := run(t, "", "export", "--observatories", observatoriesFixture, "--definitives-output", filepath.Join(t.TempDir(), "d.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--definitives-output requires --definitives")
}
