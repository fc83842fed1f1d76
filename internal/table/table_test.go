package table

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type station struct {
	Code   string
	Name   string
	Lat    float64
	Status string
}

func stationTable() *Table[station] {
	return New(
		Column[station]{ID: "code", Header: "IAGA", Value: func(s station) any { return s.Code }, Filter: FilterText, Sortable: true},
		Column[station]{ID: "name", Header: "Name", Value: func(s station) any { return s.Name }, Filter: FilterText, Sortable: true},
		Column[station]{ID: "lat", Header: "Latitude", Value: func(s station) any { return s.Lat }, Sortable: true},
		Column[station]{ID: "status", Header: "Status", Value: func(s station) any { return s.Status }, Filter: FilterExact},
	).WithDefaultSort(Sort{Column: "code"})
}

func sampleStations() []station {
	return []station{
		{Code: "TUC", Name: "Tucson", Lat: 32.174, Status: "imo"},
		{Code: "ABK", Name: "Abisko", Lat: 68.358, Status: "imo"},
		{Code: "NOL", Name: "No Location", Lat: math.NaN(), Status: "closed"},
		{Code: "BOU", Name: "Boulder", Lat: 40.137, Status: "imo"},
		{Code: "abc", Name: "lower", Lat: -12, Status: "imos"},
	}
}

func codes(rows []station) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Code)
	}
	return out
}

func TestApply_DefaultSortIsLocaleAware(t *testing.T) {
	page := stationTable().Apply(sampleStations(), Query{})

	assert.Equal(t, []string{"abc", "ABK", "BOU", "NOL", "TUC"}, codes(page.Rows))
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.PageCount)
	assert.Equal(t, 10, page.Query.PageSize)
}

func TestApply_TextFilterIsCaseInsensitiveSubstring(t *testing.T) {
	page := stationTable().Apply(sampleStations(), Query{Filters: map[string]string{"name": "OU"}})

	assert.Equal(t, []string{"BOU"}, codes(page.Rows))
}

func TestApply_ExactFilter(t *testing.T) {
	page := stationTable().Apply(sampleStations(), Query{Filters: map[string]string{"status": "imo"}})

	assert.Equal(t, []string{"ABK", "BOU", "TUC"}, codes(page.Rows))
}

func TestApply_EmptyFilterIsIdentity(t *testing.T) {
	rows := sampleStations()
	page := stationTable().Apply(rows, Query{Filters: map[string]string{"name": ""}})

	assert.Len(t, page.Rows, len(rows))
}

func TestApply_FilterOnUnfilterableColumnIgnored(t *testing.T) {
	page := stationTable().Apply(sampleStations(), Query{Filters: map[string]string{"lat": "40", "nope": "x"}})

	assert.Len(t, page.Rows, 5)
}

func TestApply_NumericSortPutsNaNLast(t *testing.T) {
	tbl := stationTable()

	asc := tbl.Apply(sampleStations(), Query{Sort: Sort{Column: "lat"}})
	assert.Equal(t, []string{"abc", "TUC", "BOU", "ABK", "NOL"}, codes(asc.Rows))

	desc := tbl.Apply(sampleStations(), Query{Sort: Sort{Column: "lat", Desc: true}})
	assert.Equal(t, []string{"ABK", "BOU", "TUC", "abc", "NOL"}, codes(desc.Rows))
}

func TestApply_UnsortableColumnFallsBackToDefault(t *testing.T) {
	page := stationTable().Apply(sampleStations(), Query{Sort: Sort{Column: "status", Desc: true}})

	assert.Equal(t, Sort{Column: "code"}, page.Query.Sort)
	assert.Equal(t, "abc", page.Rows[0].Code)
}

func TestApply_SortIsStable(t *testing.T) {
	rows := []station{
		{Code: "A", Status: "imo"},
		{Code: "B", Status: "imo"},
		{Code: "C", Status: "imo"},
	}
	tbl := New(Column[station]{ID: "status", Value: func(s station) any { return s.Status }, Sortable: true})

	page := tbl.Apply(rows, Query{Sort: Sort{Column: "status"}})

	assert.Equal(t, []string{"A", "B", "C"}, codes(page.Rows))
}

func TestApply_SortIsStableDescending(t *testing.T) {
	rows := []station{
		{Code: "A", Status: "imo"},
		{Code: "B", Status: "closed"},
		{Code: "C", Status: "imo"},
		{Code: "D", Status: "closed"},
	}
	tbl := New(Column[station]{ID: "status", Value: func(s station) any { return s.Status }, Sortable: true})

	desc := tbl.Apply(rows, Query{Sort: Sort{Column: "status", Desc: true}})
	assert.Equal(t, []string{"A", "C", "B", "D"}, codes(desc.Rows))

	asc := tbl.Apply(rows, Query{Sort: Sort{Column: "status"}})
	assert.Equal(t, []string{"B", "D", "A", "C"}, codes(asc.Rows))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	rows := sampleStations()
	stationTable().Apply(rows, Query{Sort: Sort{Column: "code", Desc: true}})

	assert.Equal(t, "TUC", rows[0].Code)
}

func manyStations(n int) []station {
	rows := make([]station, n)
	for i := range rows {
		rows[i] = station{Code: string(rune('A'+i/26)) + string(rune('A'+i%26)), Lat: float64(i)}
	}
	return rows
}

func TestApply_Pagination(t *testing.T) {
	tbl := stationTable()
	rows := manyStations(45)

	first := tbl.Apply(rows, Query{PageSize: 20})
	assert.Equal(t, 3, first.PageCount)
	assert.Len(t, first.Rows, 20)
	assert.False(t, first.CanPrev())
	assert.True(t, first.CanNext())

	last := tbl.Apply(rows, Query{PageSize: 20, PageIndex: 2})
	assert.Len(t, last.Rows, 5)
	assert.Equal(t, 3, last.PageNumber())
	assert.True(t, last.CanPrev())
	assert.False(t, last.CanNext())
}

func TestApply_PageIndexPastEndResets(t *testing.T) {
	tbl := stationTable()
	rows := manyStations(45)

	page := tbl.Apply(rows, Query{PageSize: 10, PageIndex: 4})
	require.Equal(t, 4, page.Query.PageIndex)

	// Filtering shrinks the result set below the current page.
	page = tbl.Apply(rows, Query{PageSize: 10, PageIndex: 4, Filters: map[string]string{"code": "A"}})
	assert.Equal(t, 0, page.Query.PageIndex)
	assert.NotEmpty(t, page.Rows)
}

func TestApply_InvalidPageSizeFallsBack(t *testing.T) {
	tbl := stationTable().WithPageSize(20)

	for _, size := range []int{0, -1, 7, 100} {
		page := tbl.Apply(manyStations(30), Query{PageSize: size})
		assert.Equal(t, 20, page.Query.PageSize, "size=%d", size)
		assert.Len(t, page.Rows, 20)
	}
}

func TestApply_EmptyRowsHaveOnePage(t *testing.T) {
	page := stationTable().Apply(nil, Query{})

	assert.Empty(t, page.Rows)
	assert.Equal(t, 1, page.PageCount)
	assert.False(t, page.CanNext())
}

func TestWithPageSize_IgnoresInvalid(t *testing.T) {
	tbl := stationTable().WithPageSize(33)
	page := tbl.Apply(nil, Query{})
	assert.Equal(t, DefaultPageSize, page.Query.PageSize)
}

func TestOptions(t *testing.T) {
	opts := stationTable().Options(sampleStations(), "status")
	assert.Equal(t, []string{"closed", "imo", "imos"}, opts)

	assert.Nil(t, stationTable().Options(sampleStations(), "missing"))
}

func TestOptions_CollationOrder(t *testing.T) {
	rows := []station{{Status: "b"}, {Status: "Z"}, {Status: "a"}, {Status: "C"}, {Status: "b"}}

	assert.Equal(t, []string{"a", "b", "C", "Z"}, stationTable().Options(rows, "status"))
}

func TestFind(t *testing.T) {
	rows := sampleStations()

	got, ok := Find(rows, func(s station) string { return s.Code }, "BOU")
	require.True(t, ok)
	assert.Equal(t, "Boulder", got.Name)

	_, ok = Find(rows, func(s station) string { return s.Code }, "ZZZ")
	assert.False(t, ok)
}

func TestCellString(t *testing.T) {
	assert.Empty(t, CellString(nil))
	assert.Empty(t, CellString(math.NaN()))
	assert.Equal(t, "45.5", CellString(45.5))
	assert.Equal(t, "3", CellString(3))
	assert.Equal(t, "a, b", CellString([]string{"a", "b"}))
}

func TestValidPageSize(t *testing.T) {
	assert.True(t, ValidPageSize(10))
	assert.True(t, ValidPageSize(20))
	assert.True(t, ValidPageSize(50))
	assert.False(t, ValidPageSize(25))
}

func TestParseQuery(t *testing.T) {
	values, err := url.ParseQuery("f.name=boul&f.status=imo&f.=x&sort=lat&order=DESC&page=3&size=20")
	require.NoError(t, err)

	q := ParseQuery(values)

	assert.Equal(t, map[string]string{"name": "boul", "status": "imo"}, q.Filters)
	assert.Equal(t, Sort{Column: "lat", Desc: true}, q.Sort)
	assert.Equal(t, 2, q.PageIndex)
	assert.Equal(t, 20, q.PageSize)
}

func TestParseQuery_FilterValueKeptVerbatim(t *testing.T) {
	q := ParseQuery(url.Values{"f.name": {" Lake"}, "f.code": {"   "}})

	assert.Equal(t, map[string]string{"name": " Lake"}, q.Filters)

	page := stationTable().Apply([]station{{Code: "A", Name: "Blake"}, {Code: "B", Name: "Great Lake"}}, q)
	assert.Equal(t, []string{"B"}, codes(page.Rows))
}

func TestParseQuery_MalformedNumbers(t *testing.T) {
	q := ParseQuery(url.Values{"page": {"zero"}, "size": {"big"}})

	assert.Equal(t, 0, q.PageIndex)
	assert.Equal(t, 0, q.PageSize)
	assert.NotNil(t, q.Filters)
}

func TestQuery_ValuesRoundTrip(t *testing.T) {
	q := Query{
		Filters:   map[string]string{"name": "abi"},
		Sort:      Sort{Column: "code", Desc: true},
		PageIndex: 1,
		PageSize:  50,
	}

	assert.Equal(t, q, ParseQuery(q.Values()))
}

func TestQuery_WithSortToggle(t *testing.T) {
	q := Query{Sort: Sort{Column: "code"}, PageIndex: 3}

	flipped := q.WithSortToggle("code")
	assert.Equal(t, Sort{Column: "code", Desc: true}, flipped.Sort)
	assert.Equal(t, 0, flipped.PageIndex)

	other := flipped.WithSortToggle("name")
	assert.Equal(t, Sort{Column: "name"}, other.Sort)

	assert.Equal(t, 3, q.PageIndex, "original query is unchanged")
}
