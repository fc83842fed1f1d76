package domain

import (
	"encoding/json"
	"math"
)

// Status is the INTERMAGNET membership status of an observatory.
type Status string

const (
	StatusIMO    Status = "imo"
	StatusClosed Status = "closed"
)

// Coordinate is a latitude, longitude or elevation that may be unknown (NaN).
// Unknown values encode as JSON null.
type Coordinate float64

// Valid reports whether the coordinate is a finite number.
func (c Coordinate) Valid() bool {
	f := float64(c)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return jsonNull, nil
	}
	return json.Marshal(float64(c))
}

// MarshalYAML encodes unknown values as null.
func (c Coordinate) MarshalYAML() (any, error) {
	if !c.Valid() {
		return nil, nil
	}
	return float64(c), nil
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = Coordinate(n.Float())
	return nil
}

// ObservatoryRecord is the flat, display-ready form of an observatory.
type ObservatoryRecord struct {
	ID               string     `json:"id" yaml:"id"`
	IAGA             string     `json:"iaga" yaml:"iaga"`
	Name             string     `json:"name" yaml:"name"`
	Latitude         Coordinate `json:"latitude" yaml:"latitude"`
	Longitude        Coordinate `json:"longitude" yaml:"longitude"`
	Elevation        Coordinate `json:"elevation" yaml:"elevation"`
	LatitudeRegion   string     `json:"latitude_region,omitempty" yaml:"latitude_region,omitempty"` // "NH" or "SH"
	Region           string     `json:"region,omitempty" yaml:"region,omitempty"`
	Country          string     `json:"country,omitempty" yaml:"country,omitempty"` // lower-case ISO code
	Status           Status     `json:"status" yaml:"status"`
	GIN              string     `json:"gin,omitempty" yaml:"gin,omitempty"`
	Communication    string     `json:"communication,omitempty" yaml:"communication,omitempty"`
	PublicationDelay string     `json:"publication_delay,omitempty" yaml:"publication_delay,omitempty"`
	Orientation      string     `json:"orientation,omitempty" yaml:"orientation,omitempty"` // pipe-joined, e.g. "HDZF|XYZF"
	Institutes       []string   `json:"institutes" yaml:"institutes"`
	Contacts         []string   `json:"contacts" yaml:"contacts"`
	Instruments      []string   `json:"instruments" yaml:"instruments"`
}

// HasLocation reports whether both horizontal coordinates are known.
func (o ObservatoryRecord) HasLocation() bool {
	return o.Latitude.Valid() && o.Longitude.Valid()
}

type InstituteName struct {
	Name string `json:"name" yaml:"name"`
	Abbr string `json:"abbr" yaml:"abbr"`
}

type Link struct {
	Link string `json:"link" yaml:"link"`
}

// InstituteRecord is an institute operating one or more observatories.
type InstituteRecord struct {
	ID      string          `json:"id" yaml:"id"`
	Names   []InstituteName `json:"names" yaml:"names"`
	Country string          `json:"country,omitempty" yaml:"country,omitempty"`
	Links   []Link          `json:"links" yaml:"links"`
}

// Name returns the primary institute name.
func (i InstituteRecord) Name() string {
	if len(i.Names) == 0 {
		return ""
	}
	return i.Names[0].Name
}

// Abbr returns the primary institute abbreviation.
func (i InstituteRecord) Abbr() string {
	if len(i.Names) == 0 {
		return ""
	}
	return i.Names[0].Abbr
}

// URL returns the first institute link, if any.
func (i InstituteRecord) URL() string {
	if len(i.Links) == 0 {
		return ""
	}
	return i.Links[0].Link
}

// Address holds the non-empty postal fields of a contact.
type Address struct {
	Address1 string `json:"address1,omitempty" yaml:"address1,omitempty"`
	Address2 string `json:"address2,omitempty" yaml:"address2,omitempty"`
	Address3 string `json:"address3,omitempty" yaml:"address3,omitempty"`
	Address4 string `json:"address4,omitempty" yaml:"address4,omitempty"`
	Address5 string `json:"address5,omitempty" yaml:"address5,omitempty"`
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	State    string `json:"state,omitempty" yaml:"state,omitempty"`
	Lang     string `json:"lang,omitempty" yaml:"lang,omitempty"`
	Postcode string `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
}

// Lines returns the printable address lines in postal order. Lang is not a
// line.
func (a Address) Lines() []string {
	fields := []string{a.Address1, a.Address2, a.Address3, a.Address4, a.Address5, a.City, a.State, a.Postcode, a.Country}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			lines = append(lines, f)
		}
	}
	return lines
}

// ContactRecord is a person responsible for an observatory.
type ContactRecord struct {
	Name      string    `json:"name" yaml:"name"`
	Addresses []Address `json:"addresses" yaml:"addresses"`
	Emails    []string  `json:"emails" yaml:"emails"`
	Tel       string    `json:"tel,omitempty" yaml:"tel,omitempty"`
	Tel2      string    `json:"tel2,omitempty" yaml:"tel2,omitempty"`
	Fax       string    `json:"fax,omitempty" yaml:"fax,omitempty"`
}

// ContactDirectory maps contact ids ("family_given") to contacts.
type ContactDirectory map[string]ContactRecord

type DefinitiveObservatory struct {
	IAGA      string `json:"iaga" yaml:"iaga"`
	Republish string `json:"republish" yaml:"republish"`
}

// DefinitiveCatalogueEntry lists the observatories with definitive data for
// one year.
type DefinitiveCatalogueEntry struct {
	Year          string                  `json:"year" yaml:"year"`
	Observatories []DefinitiveObservatory `json:"observatories" yaml:"observatories"`
}

// DefinitiveRow is one (year, observatory) pair of the catalogue.
type DefinitiveRow struct {
	Year      string `json:"year" yaml:"year"`
	IAGA      string `json:"iaga" yaml:"iaga"`
	Republish string `json:"republish" yaml:"republish"`
}
