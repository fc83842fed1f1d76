package view

import (
	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

// DefinitiveTable lists the definitive catalogue. Rows arrive newest year
// first, and the stable sort keeps IAGA order within a year.
func DefinitiveTable(pageSize int) *table.Table[domain.DefinitiveRow] {
	type row = domain.DefinitiveRow
	return table.New(
		table.Column[row]{ID: "year", Header: "Year", Value: func(r row) any { return r.Year }, Filter: table.FilterExact, Sortable: true},
		table.Column[row]{ID: "republish", Header: "Republish", Value: func(r row) any { return r.Republish }, Filter: table.FilterText, Sortable: true},
		table.Column[row]{ID: "iaga", Header: "IAGA code", Value: func(r row) any { return r.IAGA }, Filter: table.FilterText, Sortable: true},
		table.Column[row]{ID: "details", Header: "Details", Value: func(row) any { return "Details" }},
	).WithDefaultSort(table.Sort{Column: "year", Desc: true}).WithPageSize(pageSize)
}

// DefinitiveLinks are the link cells of the definitives table.
func DefinitiveLinks() map[string]Linker[domain.DefinitiveRow] {
	return map[string]Linker[domain.DefinitiveRow]{
		"details": func(r domain.DefinitiveRow) string { return DetailPath(r.IAGA) },
	}
}
