package domain

// NormalizeInstitutes collects the institutes of currently open observatories.
// Institutes are deduplicated by name and by abbreviation; the first
// occurrence wins. The country comes from the observatory address, falling
// back to the institute's own country.
func NormalizeInstitutes(entries []RawObservatory) []InstituteRecord {
	out := make([]InstituteRecord, 0)
	seenNames := make(map[string]struct{})
	seenIDs := make(map[string]struct{})

	for i := range entries {
		e := &entries[i]
		membership, ok := SelectMembership(e.Intermagnet)
		if !ok || !membership.Open() || len(e.Institutes) == 0 {
			continue
		}

		rawCountry := e.Institutes[0].Country
		if len(e.Address) > 0 && e.Address[0].Country != "" {
			rawCountry = e.Address[0].Country
		}
		country := ExtractCountryCode(rawCountry)

		for _, inst := range e.Institutes {
			if _, dup := seenNames[inst.Name]; dup {
				continue
			}
			if _, dup := seenIDs[inst.Abbreviation]; dup && inst.Abbreviation != "" {
				continue
			}
			seenNames[inst.Name] = struct{}{}
			seenIDs[inst.Abbreviation] = struct{}{}

			links := []Link{}
			if inst.URL != "" {
				links = []Link{{Link: inst.URL}}
			}
			out = append(out, InstituteRecord{
				ID:      inst.Abbreviation,
				Names:   []InstituteName{{Name: inst.Name, Abbr: inst.Abbreviation}},
				Country: country,
				Links:   links,
			})
		}
	}
	return out
}
