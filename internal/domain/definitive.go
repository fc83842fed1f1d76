package domain

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// NormalizeDefinitives converts the raw catalogue into entries, keeping the
// payload order. Observatories without an IAGA code are skipped.
func NormalizeDefinitives(payload DefinitivePayload) []DefinitiveCatalogueEntry {
	out := make([]DefinitiveCatalogueEntry, 0, len(payload.Catalogue))
	for _, year := range payload.Catalogue {
		entry := DefinitiveCatalogueEntry{
			Year:          strings.TrimSpace(year.ID.String()),
			Observatories: make([]DefinitiveObservatory, 0, len(year.Observatories)),
		}
		for _, obs := range year.Observatories {
			if obs.IAGACode == "" {
				continue
			}
			entry.Observatories = append(entry.Observatories, DefinitiveObservatory{
				IAGA:      obs.IAGACode,
				Republish: obs.Republish.Value.String(),
			})
		}
		out = append(out, entry)
	}
	return out
}

// FlattenDefinitives produces one row per (year, observatory), newest year
// first and IAGA codes ascending within a year.
func FlattenDefinitives(entries []DefinitiveCatalogueEntry) []DefinitiveRow {
	var rows []DefinitiveRow
	for _, e := range entries {
		for _, obs := range e.Observatories {
			rows = append(rows, DefinitiveRow{Year: e.Year, IAGA: obs.IAGA, Republish: obs.Republish})
		}
	}
	slices.SortStableFunc(rows, func(a, b DefinitiveRow) int {
		if c := compareYears(b.Year, a.Year); c != 0 {
			return c
		}
		return strings.Compare(a.IAGA, b.IAGA)
	})
	return rows
}

// ObservatoriesByYear groups the IAGA codes of definitive rows by year.
func ObservatoriesByYear(rows []DefinitiveRow) map[string][]string {
	years := make(map[string][]string)
	for _, r := range rows {
		years[r.Year] = append(years[r.Year], r.IAGA)
	}
	return years
}

func compareYears(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(a, b)
}
