package domain

import (
	"encoding/json"
	"math"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadObservatories(t *testing.T) []RawObservatory {
	t.Helper()
	data, err := os.ReadFile("testdata/intermagnet.json")
	require.NoError(t, err)
	var payload ObservatoriesPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload.Data
}

// coordinateOpts compares coordinates as floats so unknown (NaN) values are equal.
var coordinateOpts = cmp.Options{
	cmp.Transformer("float", func(c Coordinate) float64 { return float64(c) }),
	cmpopts.EquateNaNs(),
}

func decodeEntry(t *testing.T, raw string) RawObservatory {
	t.Helper()
	var e RawObservatory
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	return e
}

func TestNormalizeObservatories_Fixture(t *testing.T) {
	records, report := NormalizeObservatories(loadObservatories(t))

	require.Len(t, records, 4)
	assert.Equal(t, 6, report.Entries)
	assert.Equal(t, 4, report.Kept)
	assert.Equal(t, 2, report.DroppedNoMembership)
	assert.Equal(t, 1, report.MissingLocation)
	assert.Equal(t, 2, report.Dropped())

	want := ObservatoryRecord{
		ID:               "ABK",
		IAGA:             "ABK",
		Name:             "Abisko",
		Latitude:         68.358,
		Longitude:        18.823,
		Elevation:        380,
		LatitudeRegion:   "NH",
		Region:           "Europe",
		Country:          "se",
		Status:           StatusIMO,
		GIN:              "EDI",
		Communication:    "email",
		PublicationDelay: "72",
		Orientation:      "HDZF|XYZF",
		Institutes:       []string{"SGU"},
		Contacts:         []string{"Lindqvist_Anna"},
		Instruments:      []string{"FGE fluxgate", "DI-flux"},
	}
	if diff := cmp.Diff(want, records[0], coordinateOpts); diff != "" {
		t.Errorf("ABK record mismatch (-want +got):\n%s", diff)
	}

	// Input order is preserved.
	var codes []string
	for _, r := range records {
		codes = append(codes, r.IAGA)
	}
	assert.Equal(t, []string{"ABK", "BOU", "NOL", "TUC"}, codes)
}

func TestNormalizeObservatories_OpenMembershipWins(t *testing.T) {
	e := decodeEntry(t, `{
		"observatory_iaga_code": "TST",
		"intermagnet": [{"member_to": "2020"}, {"member_to": null}],
		"locations": [{"latitude": 45, "longitude": 200}]
	}`)

	records, _ := NormalizeObservatories([]RawObservatory{e})

	require.Len(t, records, 1)
	assert.Equal(t, StatusIMO, records[0].Status)
	assert.InDelta(t, -160.0, float64(records[0].Longitude), 1e-9)
	assert.InDelta(t, 45.0, float64(records[0].Latitude), 1e-9)
}

func TestNormalizeObservatories_OpenMembershipSuppliesGIN(t *testing.T) {
	records, _ := NormalizeObservatories(loadObservatories(t))

	bou := records[1]
	require.Equal(t, "BOU", bou.IAGA)
	assert.Equal(t, "GOL", bou.GIN, "GIN must come from the open period, not the first one")
	assert.Equal(t, "24", bou.PublicationDelay)
}

func TestNormalizeObservatories_LastMembershipWhenAllClosed(t *testing.T) {
	e := decodeEntry(t, `{
		"observatory_iaga_code": "CLS",
		"intermagnet": [{"member_to": "2001", "intermagnet_gin_code": "A"}, {"member_to": "2010", "intermagnet_gin_code": "B"}]
	}`)

	records, _ := NormalizeObservatories([]RawObservatory{e})

	require.Len(t, records, 1)
	assert.Equal(t, StatusClosed, records[0].Status)
	assert.Equal(t, "B", records[0].GIN)
}

func TestNormalizeObservatories_AbsentMemberToIsOpen(t *testing.T) {
	e := decodeEntry(t, `{"observatory_iaga_code": "OPN", "intermagnet": [{"intermagnet_gin_code": "EDI"}]}`)

	records, _ := NormalizeObservatories([]RawObservatory{e})

	require.Len(t, records, 1)
	assert.Equal(t, StatusIMO, records[0].Status)
}

func TestNormalizeObservatories_EmptyMembershipDropped(t *testing.T) {
	entries := []RawObservatory{
		decodeEntry(t, `{"observatory_iaga_code": "AAA", "intermagnet": []}`),
		decodeEntry(t, `{"observatory_iaga_code": "BBB"}`),
		decodeEntry(t, `{"observatory_iaga_code": "CCC", "intermagnet": null}`),
	}

	records, report := NormalizeObservatories(entries)

	assert.Empty(t, records)
	assert.Equal(t, 3, report.DroppedNoMembership)
	assert.Empty(t, report.Issues, "dropping non-members is not an error")
}

func TestNormalizeObservatories_MissingLocationKeepsRecord(t *testing.T) {
	e := decodeEntry(t, `{"observatory_iaga_code": "NOL", "intermagnet": [{"member_to": null}], "locations": []}`)

	records, report := NormalizeObservatories([]RawObservatory{e})

	require.Len(t, records, 1)
	assert.True(t, math.IsNaN(float64(records[0].Latitude)))
	assert.True(t, math.IsNaN(float64(records[0].Longitude)))
	assert.True(t, math.IsNaN(float64(records[0].Elevation)))
	assert.Empty(t, records[0].LatitudeRegion)
	assert.False(t, records[0].HasLocation())
	assert.Equal(t, 1, report.MissingLocation)
}

func TestNormalizeObservatories_DuplicateIAGAKeepsFirst(t *testing.T) {
	entries := []RawObservatory{
		decodeEntry(t, `{"observatory_iaga_code": "DUP", "attributes": {"name": "first"}, "intermagnet": [{}]}`),
		decodeEntry(t, `{"observatory_iaga_code": "DUP", "attributes": {"name": "second"}, "intermagnet": [{}]}`),
	}

	records, report := NormalizeObservatories(entries)

	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Name)
	assert.Equal(t, 1, report.DroppedDuplicate)
}

func TestNormalizeObservatories_MissingIAGAReported(t *testing.T) {
	e := decodeEntry(t, `{"attributes": {"name": "anon"}, "intermagnet": [{}]}`)

	records, report := NormalizeObservatories([]RawObservatory{e})

	assert.Empty(t, records)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "observatory_iaga_code", report.Issues[0].Field)
	assert.Contains(t, report.Issues[0].Error(), "observatories entry 0")
}

func TestNormalizeObservatories_MalformedEntryDropsOnlyThatRow(t *testing.T) {
	body := `{"data": [
		{"observatory_iaga_code": "AAA", "intermagnet": [{"member_to": null}]},
		{"observatory_iaga_code": "BBB", "intermagnet": "oops"},
		{"observatory_iaga_code": "CCC", "intermagnet": [{"member_to": 2020}]},
		{"observatory_iaga_code": "DDD", "intermagnet": [{}],
		 "instruments": [{"instrument_name": "FGE", "orientation": 1}],
		 "persons": [{"given_name": "Ana", "email": false}]}
	]}`
	var payload ObservatoriesPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Len(t, payload.Data, 4)
	require.Error(t, payload.Data[1].DecodeErr)
	assert.Equal(t, "BBB", payload.Data[1].IAGACode)

	records, report := NormalizeObservatories(payload.Data)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.IAGA)
	}
	assert.Equal(t, []string{"AAA", "CCC", "DDD"}, ids)
	assert.Equal(t, StatusIMO, records[0].Status)
	assert.Equal(t, StatusClosed, records[1].Status)
	assert.Equal(t, "1", records[2].Orientation)

	assert.Equal(t, 4, report.Entries)
	assert.Equal(t, 1, report.Dropped())
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 1, report.Issues[0].Index)
	assert.Equal(t, "intermagnet", report.Issues[0].Field)
	assert.Contains(t, report.Issues[0].Error(), "observatories entry 1")
}

func TestRawMembership_OpenOnFalsyEnd(t *testing.T) {
	tests := []struct {
		raw  string
		open bool
	}{
		{`{}`, true},
		{`{"member_to": null}`, true},
		{`{"member_to": ""}`, true},
		{`{"member_to": false}`, true},
		{`{"member_to": 0}`, true},
		{`{"member_to": 2020}`, false},
		{`{"member_to": "2020-12-31"}`, false},
		{`{"member_to": true}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var m RawMembership
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.open, m.Open())
		})
	}
}

func TestNormalizeObservatories_LongitudeAlwaysInRange(t *testing.T) {
	records, _ := NormalizeObservatories(loadObservatories(t))

	for _, r := range records {
		if !r.Longitude.Valid() {
			continue
		}
		assert.GreaterOrEqual(t, float64(r.Longitude), -180.0, r.IAGA)
		assert.LessOrEqual(t, float64(r.Longitude), 180.0, r.IAGA)
	}
}

func TestNormalizeObservatories_NaNRecordsCompare(t *testing.T) {
	e := decodeEntry(t, `{"observatory_iaga_code": "NAN", "intermagnet": [{}]}`)
	records, _ := NormalizeObservatories([]RawObservatory{e})

	want := ObservatoryRecord{
		ID:          "NAN",
		IAGA:        "NAN",
		Latitude:    Coordinate(math.NaN()),
		Longitude:   Coordinate(math.NaN()),
		Elevation:   Coordinate(math.NaN()),
		Status:      StatusIMO,
		Institutes:  []string{},
		Contacts:    []string{},
		Instruments: []string{},
	}
	if diff := cmp.Diff(want, records[0], coordinateOpts); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{18.8, 18.8},
		{180, 180},
		{-180, -180},
		{200, -160},
		{254.763, -105.237},
		{359.5, -0.5},
		{360, 0},
		{-200, 160},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeLongitude(tt.in), 1e-9, "in=%v", tt.in)
	}
	assert.True(t, math.IsNaN(NormalizeLongitude(math.NaN())))
}

func TestExtractCountryCode(t *testing.T) {
	assert.Equal(t, "se", ExtractCountryCode("Sweden (SE)"))
	assert.Equal(t, "us", ExtractCountryCode("United States (US) mainland"))
	assert.Empty(t, ExtractCountryCode("Nowhere"))
	assert.Empty(t, ExtractCountryCode(""))
}

func TestContactID(t *testing.T) {
	assert.Equal(t, "VanDerBerg_Jill", ContactID("Van Der Berg", "Jill"))
	assert.Equal(t, "Lindqvist_AnnaMaria", ContactID("Lindqvist", "Anna Maria"))
}

func TestSelectMembership(t *testing.T) {
	_, ok := SelectMembership(nil)
	assert.False(t, ok)

	periods := []RawMembership{
		{MemberTo: Some[Text]("2001"), GINCode: "A"},
		{MemberTo: Nullable[Text]{Presence: Null}, GINCode: "B"},
		{MemberTo: Some[Text]("2010"), GINCode: "C"},
	}
	m, ok := SelectMembership(periods)
	require.True(t, ok)
	assert.Equal(t, "B", m.GINCode)
}
