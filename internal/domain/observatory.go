package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// countryCodeRe matches the ISO code in parentheses of an address country,
	// e.g. "Canada (CA)" -> "CA".
	countryCodeRe = regexp.MustCompile(`\((\w+)\)`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// NormalizeReport summarizes what a normalization pass kept and skipped.
type NormalizeReport struct {
	Entries             int
	Kept                int
	DroppedNoMembership int
	DroppedDuplicate    int
	MissingLocation     int
	Issues              []*DataShapeError
}

// Dropped returns the number of entries that produced no record.
func (r NormalizeReport) Dropped() int {
	return r.Entries - r.Kept
}

// SelectMembership picks the membership period that determines an
// observatory's status: the first open period, otherwise the last one.
// It reports false when there is no period at all.
func SelectMembership(periods []RawMembership) (RawMembership, bool) {
	if len(periods) == 0 {
		return RawMembership{}, false
	}
	for _, p := range periods {
		if p.Open() {
			return p, true
		}
	}
	return periods[len(periods)-1], true
}

// NormalizeObservatories maps raw observatory entries to flat records in input
// order. Entries that failed to decode are reported and skipped. Entries
// without membership periods are skipped silently, entries without a location
// keep NaN coordinates, and repeated IAGA codes keep the first occurrence.
func NormalizeObservatories(entries []RawObservatory) ([]ObservatoryRecord, NormalizeReport) {
	report := NormalizeReport{Entries: len(entries)}
	out := make([]ObservatoryRecord, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for i := range entries {
		e := &entries[i]
		if e.DecodeErr != nil {
			report.Issues = append(report.Issues, e.decodeIssue(i))
			continue
		}

		membership, ok := SelectMembership(e.Intermagnet)
		if !ok {
			report.DroppedNoMembership++
			continue
		}

		iaga := strings.TrimSpace(e.IAGACode)
		if iaga == "" {
			report.Issues = append(report.Issues, &DataShapeError{
				Resource: ResourceObservatories,
				Index:    i,
				Field:    "observatory_iaga_code",
				Reason:   "is missing",
			})
			continue
		}
		if _, dup := seen[iaga]; dup {
			report.DroppedDuplicate++
			continue
		}
		seen[iaga] = struct{}{}

		if len(e.Locations) == 0 {
			report.MissingLocation++
		}
		out = append(out, normalizeObservatory(iaga, e, membership))
	}

	report.Kept = len(out)
	return out, report
}

func normalizeObservatory(iaga string, e *RawObservatory, membership RawMembership) ObservatoryRecord {
	var loc RawLocation
	if len(e.Locations) > 0 {
		loc = e.Locations[0]
	}
	lat := loc.Latitude.Float()
	lon := NormalizeLongitude(loc.Longitude.Float())

	status := StatusClosed
	if membership.Open() {
		status = StatusIMO
	}

	var country string
	if len(e.Address) > 0 {
		country = ExtractCountryCode(e.Address[0].Country)
	}

	return ObservatoryRecord{
		ID:               iaga,
		IAGA:             iaga,
		Name:             e.Attributes.Name,
		Latitude:         Coordinate(lat),
		Longitude:        Coordinate(lon),
		Elevation:        Coordinate(loc.Elevation.Float()),
		LatitudeRegion:   latitudeRegion(lat),
		Region:           loc.Region,
		Country:          country,
		Status:           status,
		GIN:              membership.GINCode,
		Communication:    membership.GINComms,
		PublicationDelay: formatDelay(membership.PublicationDelay),
		Orientation:      joinOrientations(e.Instruments),
		Institutes:       instituteIDs(e.Institutes),
		Contacts:         contactIDs(e.Persons),
		Instruments:      instrumentNames(e.Instruments),
	}
}

// NormalizeLongitude maps a longitude into [-180, 180]. Values already in
// range are returned unchanged; NaN stays NaN.
func NormalizeLongitude(lon float64) float64 {
	if math.IsNaN(lon) || (lon >= -180 && lon <= 180) {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// ExtractCountryCode returns the lower-cased code in parentheses of an
// address country string, or "" when there is none.
func ExtractCountryCode(s string) string {
	m := countryCodeRe.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

// ContactID builds the key joining observatories to contacts.
func ContactID(familyName, givenName string) string {
	return whitespaceRe.ReplaceAllString(familyName+"_"+givenName, "")
}

func latitudeRegion(lat float64) string {
	switch {
	case math.IsNaN(lat):
		return ""
	case lat >= 0:
		return "NH"
	default:
		return "SH"
	}
}

func formatDelay(n Number) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func joinOrientations(instruments []RawInstrument) string {
	seen := make(map[string]struct{}, len(instruments))
	parts := make([]string, 0, len(instruments))
	for _, inst := range instruments {
		o := string(inst.Orientation)
		if o == "" {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		parts = append(parts, o)
	}
	return strings.Join(parts, "|")
}

func instrumentNames(instruments []RawInstrument) []string {
	names := make([]string, 0, len(instruments))
	for _, inst := range instruments {
		if name := strings.TrimSpace(string(inst.InstrumentName)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func instituteIDs(institutes []RawInstitute) []string {
	ids := make([]string, 0, len(institutes))
	for _, inst := range institutes {
		if inst.Abbreviation != "" {
			ids = append(ids, inst.Abbreviation)
		}
	}
	return ids
}

func contactIDs(persons []RawPerson) []string {
	ids := make([]string, 0, len(persons))
	for _, p := range persons {
		ids = append(ids, ContactID(p.FamilyName, p.GivenName))
	}
	return ids
}
