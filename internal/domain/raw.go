package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ObservatoriesPayload is the body of the observatories resource. The service
// wraps entries in {"data": [...]}; a bare array is accepted as well.
//
// Entries are decoded one at a time. An entry that does not fit RawObservatory
// stays in Data at its position with DecodeErr set, so one malformed row never
// fails the whole resource.
type ObservatoriesPayload struct {
	Data []RawObservatory `json:"data"`
}

func (p *ObservatoriesPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var entries []json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
	} else {
		var env struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return err
		}
		entries = env.Data
	}

	p.Data = nil
	if entries == nil {
		return nil
	}
	p.Data = make([]RawObservatory, len(entries))
	for i, raw := range entries {
		var e RawObservatory
		if err := json.Unmarshal(raw, &e); err != nil {
			p.Data[i] = RawObservatory{IAGACode: e.IAGACode, DecodeErr: err}
			continue
		}
		p.Data[i] = e
	}
	return nil
}

// RawObservatory is one entry of the observatories resource. Every nested
// collection is optional and decodes to nil when missing.
type RawObservatory struct {
	IAGACode    string          `json:"observatory_iaga_code"`
	Attributes  RawAttributes   `json:"attributes"`
	Address     []RawAddress    `json:"address"`
	Instruments []RawInstrument `json:"instruments"`
	Persons     []RawPerson     `json:"persons"`
	Intermagnet []RawMembership `json:"intermagnet"`
	Institutes  []RawInstitute  `json:"institutes"`
	Locations   []RawLocation   `json:"locations"`

	// DecodeErr is set when the entry could not be decoded; every other
	// field except IAGACode is then zero.
	DecodeErr error `json:"-"`
}

// decodeIssue describes why an entry failed to decode.
func (e *RawObservatory) decodeIssue(index int) *DataShapeError {
	field := "entry"
	var typeErr *json.UnmarshalTypeError
	if errors.As(e.DecodeErr, &typeErr) && typeErr.Field != "" {
		field = typeErr.Field
	}
	return &DataShapeError{
		Resource: ResourceObservatories,
		Index:    index,
		Field:    field,
		Reason:   "could not be decoded: " + e.DecodeErr.Error(),
	}
}

type RawAttributes struct {
	Name string `json:"name"`
}

type RawAddress struct {
	Country string `json:"country"`
}

type RawInstrument struct {
	InstrumentName Text `json:"instrument_name"`
	Orientation    Text `json:"orientation"`
}

// RawPerson is a contact attached to an observatory.
type RawPerson struct {
	Title      string         `json:"title"`
	GivenName  string         `json:"given_name"`
	FamilyName string         `json:"family_name"`
	Email      Text           `json:"email"`
	Email2     Text           `json:"email2"`
	Phone      Nullable[Text] `json:"phone"`
	Phone2     Nullable[Text] `json:"phone2"`
	Fax        Nullable[Text] `json:"fax"`
	Address1   string         `json:"address1"`
	Address2   string         `json:"address2"`
	Address3   string         `json:"address3"`
	Address4   string         `json:"address4"`
	Address5   string         `json:"address5"`
	City       string         `json:"city"`
	State      string         `json:"state"`
	Lang       string         `json:"lang"`
	Postcode   string         `json:"postcode"`
	Country    string         `json:"country"`
}

// RawMembership is one INTERMAGNET membership period.
type RawMembership struct {
	MemberTo         Nullable[Text] `json:"member_to"`
	GINCode          string         `json:"intermagnet_gin_code"`
	GINComms         string         `json:"gin_comms"`
	PublicationDelay Number         `json:"publication_delay"`
}

// Open reports whether the period has no end date. Any falsy end value
// (missing, null, empty, false or 0) leaves the period open.
func (m RawMembership) Open() bool {
	if !m.MemberTo.IsSet() {
		return true
	}
	switch m.MemberTo.Value {
	case "", "false", "0":
		return true
	}
	return false
}

type RawInstitute struct {
	Name         string `json:"institute_name"`
	Abbreviation string `json:"abbreviation"`
	URL          string `json:"institute_url"`
	Country      string `json:"country"`
}

type RawLocation struct {
	Latitude  Number `json:"latitude"`
	Longitude Number `json:"longitude"`
	Elevation Number `json:"elevation"`
	Region    string `json:"region"`
}

// DefinitivePayload is the body of the definitive catalogue resource.
type DefinitivePayload struct {
	Catalogue []RawDefinitiveYear `json:"intermagnet_catalogue"`
}

type RawDefinitiveYear struct {
	ID            Text                       `json:"id"`
	Observatories []RawDefinitiveObservatory `json:"observatories"`
}

type RawDefinitiveObservatory struct {
	IAGACode  string         `json:"iaga_code"`
	Republish Nullable[Text] `json:"republish"`
}
