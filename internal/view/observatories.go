package view

import (
	"fmt"
	"math"
	"net/url"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

// ObservatoryTable lists observatories, IAGA code ascending by default.
func ObservatoryTable(pageSize int) *table.Table[domain.ObservatoryRecord] {
	type rec = domain.ObservatoryRecord
	return table.New(
		table.Column[rec]{ID: "iaga", Header: "IAGA code", Value: func(r rec) any { return r.IAGA }, Filter: table.FilterText, Sortable: true},
		table.Column[rec]{ID: "name", Header: "Name", Value: func(r rec) any { return r.Name }, Filter: table.FilterText, Sortable: true},
		table.Column[rec]{ID: "country", Header: "Country", Value: func(r rec) any { return domain.CountryName(r.Country) }, Filter: table.FilterText, Sortable: true},
		table.Column[rec]{ID: "latitude", Header: "Latitude", Value: func(r rec) any { return float64(r.Latitude) }, Sortable: true},
		table.Column[rec]{ID: "longitude", Header: "Longitude", Value: func(r rec) any { return float64(r.Longitude) }, Sortable: true},
		table.Column[rec]{ID: "status", Header: "Status", Value: func(r rec) any { return string(r.Status) }, Filter: table.FilterExact, Sortable: true},
		table.Column[rec]{ID: "gin", Header: "GIN", Value: func(r rec) any { return r.GIN }, Filter: table.FilterExact, Sortable: true},
		table.Column[rec]{ID: "details", Header: "Details", Value: func(rec) any { return "Details" }},
	).WithDefaultSort(table.Sort{Column: "iaga"}).WithPageSize(pageSize)
}

// ObservatoryLinks are the link cells of the observatories table.
func ObservatoryLinks() map[string]Linker[domain.ObservatoryRecord] {
	return map[string]Linker[domain.ObservatoryRecord]{
		"details": func(r domain.ObservatoryRecord) string { return DetailPath(r.IAGA) },
	}
}

// DetailPath is the page of one observatory.
func DetailPath(iaga string) string {
	return "/observatories/" + url.PathEscape(iaga)
}

// FormatCoordinates renders a position as "45.0000N, 160.0000W", or "" when
// either coordinate is unknown.
func FormatCoordinates(lat, lon domain.Coordinate) string {
	if !lat.Valid() || !lon.Valid() {
		return ""
	}
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f%s, %.4f%s", math.Abs(float64(lat)), ns, math.Abs(float64(lon)), ew)
}
