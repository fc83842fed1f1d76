// Package domain models INTERMAGNET observatory metadata.
//
// # Data Source
//
// Metadata is published by the INTERMAGNET metadata service as two JSON
// collections: the observatories resource ("intermagnet") and the definitive
// data catalogue ("definitive"). Institutes and contacts are not fetched
// separately; they are derived from the institutes and persons nested inside
// each observatory entry.
//
// # Payload Conventions
//
// Membership:
//
//	Each entry lists its INTERMAGNET membership periods under "intermagnet".
//	A period whose "member_to" is null (or absent) is open. The open period is
//	preferred; when every period is closed the last listed one is used.
//	Entries without any period are not INTERMAGNET observatories and are
//	skipped.
//
// Coordinates:
//
//	"latitude", "longitude" and "elevation" arrive as numbers or numeric
//	strings on the first entry of "locations". Longitudes may use the
//	[0, 360) convention and are shifted into [-180, 180]. A missing location
//	leaves the coordinates NaN; the entry is still kept.
//
// Country:
//
//	Addresses carry a display string such as "Canada (CA)". The ISO code in
//	parentheses is extracted and lower-cased, e.g. "ca". See [CountryName]
//	for the display names.
//
// Contacts:
//
//	Persons are keyed "family_given" with whitespace removed, e.g.
//	"Van Der Berg", "Anna" → "VanDerBerg_Anna". Observatories reference
//	contacts by that key. The first occurrence of a key wins.
//
// Definitive catalogue:
//
//	{"intermagnet_catalogue": [{"id": 2020, "observatories": [{"iaga_code":
//	"ABK", "republish": ...}]}]}. "republish" may be missing, a string or a
//	boolean and is kept as text.
package domain
