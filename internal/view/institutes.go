package view

import (
	"slices"
	"strings"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

// InstituteRow is an institute joined with the active observatories it runs.
type InstituteRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Abbr        string   `json:"abbr"`
	Country     string   `json:"country,omitempty"`
	CountryName string   `json:"country_name,omitempty"`
	IMOs        []string `json:"imos"`
	URL         string   `json:"url,omitempty"`
}

// InstituteRows joins institutes to the IAGA codes of the imo observatories
// listing them. Rows are ordered by id.
func InstituteRows(institutes []domain.InstituteRecord, observatories []domain.ObservatoryRecord) []InstituteRow {
	imos := make(map[string][]string)
	for _, o := range observatories {
		if o.Status != domain.StatusIMO {
			continue
		}
		for _, id := range o.Institutes {
			imos[id] = append(imos[id], o.IAGA)
		}
	}

	rows := make([]InstituteRow, 0, len(institutes))
	for _, inst := range institutes {
		codes := imos[inst.ID]
		if codes == nil {
			codes = []string{}
		}
		slices.Sort(codes)
		rows = append(rows, InstituteRow{
			ID:          inst.ID,
			Name:        inst.Name(),
			Abbr:        inst.Abbr(),
			Country:     inst.Country,
			CountryName: domain.CountryName(inst.Country),
			IMOs:        codes,
			URL:         inst.URL(),
		})
	}
	slices.SortStableFunc(rows, func(a, b InstituteRow) int {
		return strings.Compare(a.ID, b.ID)
	})
	return rows
}

// InstituteTable lists institutes, name ascending by default.
func InstituteTable(pageSize int) *table.Table[InstituteRow] {
	return table.New(
		table.Column[InstituteRow]{ID: "name", Header: "Name", Value: func(r InstituteRow) any { return r.Name }, Filter: table.FilterText, Sortable: true},
		table.Column[InstituteRow]{ID: "abbr", Header: "Abbr", Value: func(r InstituteRow) any { return r.Abbr }, Filter: table.FilterText, Sortable: true},
		table.Column[InstituteRow]{ID: "country", Header: "Country", Value: func(r InstituteRow) any { return r.CountryName }, Filter: table.FilterText, Sortable: true},
		table.Column[InstituteRow]{ID: "imos", Header: "IMOs", Value: func(r InstituteRow) any { return r.IMOs }, Filter: table.FilterText},
		table.Column[InstituteRow]{ID: "link", Header: "Link", Value: func(r InstituteRow) any { return r.URL }},
	).WithDefaultSort(table.Sort{Column: "name"}).WithPageSize(pageSize)
}

// InstituteLinks are the link cells of the institutes table.
func InstituteLinks() map[string]Linker[InstituteRow] {
	return map[string]Linker[InstituteRow]{
		"link": func(r InstituteRow) string { return r.URL },
	}
}
