package view

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
)

// MapFeatures builds a GeoJSON point per located observatory. When year is
// set, only observatories in that year's definitive catalogue are included.
// Observatories without coordinates are omitted.
func MapFeatures(observatories []domain.ObservatoryRecord, byYear map[string][]string, year string) *geojson.FeatureCollection {
	var allowed map[string]struct{}
	if year != "" {
		allowed = make(map[string]struct{})
		for _, iaga := range byYear[year] {
			allowed[iaga] = struct{}{}
		}
	}

	fc := geojson.NewFeatureCollection()
	for _, o := range observatories {
		if !o.HasLocation() {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[o.IAGA]; !ok {
				continue
			}
		}
		f := geojson.NewFeature(orb.Point{float64(o.Longitude), float64(o.Latitude)})
		f.ID = o.IAGA
		f.Properties["iaga"] = o.IAGA
		f.Properties["name"] = o.Name
		f.Properties["status"] = string(o.Status)
		f.Properties["country"] = domain.CountryName(o.Country)
		f.Properties["url"] = DetailPath(o.IAGA)
		fc.Append(f)
	}
	return fc
}
