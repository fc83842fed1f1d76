package view

import (
	"slices"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

// ContactView is a contact as shown on a detail page.
type ContactView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Emails       []string `json:"emails"`
	Tel          string   `json:"tel,omitempty"`
	Tel2         string   `json:"tel2,omitempty"`
	Fax          string   `json:"fax,omitempty"`
	AddressLines []string `json:"address_lines"`
}

// Detail is one observatory with its institutes and contacts resolved.
type Detail struct {
	Observatory     domain.ObservatoryRecord `json:"observatory"`
	CountryName     string                   `json:"country_name,omitempty"`
	Coordinates     string                   `json:"coordinates,omitempty"`
	Institutes      []domain.InstituteRecord `json:"institutes"`
	Contacts        []ContactView            `json:"contacts"`
	DefinitiveYears []string                 `json:"definitive_years"`
}

// DetailSource is the data a detail page draws from.
type DetailSource struct {
	Observatories []domain.ObservatoryRecord
	Institutes    []domain.InstituteRecord
	Contacts      domain.ContactDirectory
	Definitives   []domain.DefinitiveRow
}

// BuildDetail looks up an observatory by IAGA code. Institute and contact ids
// that do not resolve are left out.
func BuildDetail(src DetailSource, iaga string) (Detail, bool) {
	obs, ok := table.Find(src.Observatories, func(r domain.ObservatoryRecord) string { return r.IAGA }, iaga)
	if !ok {
		return Detail{}, false
	}

	d := Detail{
		Observatory:     obs,
		CountryName:     domain.CountryName(obs.Country),
		Coordinates:     FormatCoordinates(obs.Latitude, obs.Longitude),
		Institutes:      []domain.InstituteRecord{},
		Contacts:        []ContactView{},
		DefinitiveYears: []string{},
	}

	for _, id := range obs.Institutes {
		inst, ok := table.Find(src.Institutes, func(r domain.InstituteRecord) string { return r.ID }, id)
		if ok {
			d.Institutes = append(d.Institutes, inst)
		}
	}

	for _, id := range obs.Contacts {
		c, ok := src.Contacts[id]
		if !ok {
			continue
		}
		cv := ContactView{
			ID:     id,
			Name:   c.Name,
			Emails: c.Emails,
			Tel:    c.Tel,
			Tel2:   c.Tel2,
			Fax:    c.Fax,
		}
		if addr, ok := c.PreferredAddress(); ok {
			cv.AddressLines = addr.Lines()
		}
		d.Contacts = append(d.Contacts, cv)
	}

	for _, r := range src.Definitives {
		if r.IAGA == iaga && !slices.Contains(d.DefinitiveYears, r.Year) {
			d.DefinitiveYears = append(d.DefinitiveYears, r.Year)
		}
	}
	return d, true
}
