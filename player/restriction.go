package player

import (
	canto "github.com/adaleix/go-canto"
	"github.com/adaleix/go-canto/metadata"
)

// IsRestricted reports whether any of the given rules blocks playback in
// country. Country must be a canonical two-letter code, lists are compared
// byte for byte with no case folding.
func IsRestricted(restrictions []*metadata.Restriction, country string) bool {
	for _, res := range restrictions {
		if restrictedBy(res, country) {
			return true
		}
	}
	return false
}

// restrictedBy evaluates a single rule. An allowed list that is present but
// empty blocks every country. A hit in a non-empty allowed list wins without
// consulting the forbidden list; a miss falls through to it.
func restrictedBy(res *metadata.Restriction, country string) bool {
	if res.CountriesAllowed != nil {
		if len(*res.CountriesAllowed) == 0 {
			return true
		}
		if countryInList(*res.CountriesAllowed, country) {
			return false
		}
	}

	return res.CountriesForbidden != nil && countryInList(*res.CountriesForbidden, country)
}

// countryInList walks the undelimited list two bytes at a time. A trailing
// odd byte never matches.
func countryInList(list, country string) bool {
	if len(country) != 2 {
		return false
	}

	for i := 0; i+2 <= len(list); i += 2 {
		if list[i:i+2] == country {
			return true
		}
	}
	return false
}

// TrackIsRestricted reports whether the track itself is blocked in country.
func TrackIsRestricted(track *metadata.Track, country string) bool {
	return IsRestricted(track.Restrictions, country)
}

// FindAllowedAlternative returns the id of the first listed alternative of
// track that is not restricted in country. It reports false when no
// alternative qualifies, or when the qualifying one carries no gid.
func FindAllowedAlternative(track *metadata.Track, country string) (canto.ItemId, bool) {
	for _, alt := range track.Alternatives {
		if IsRestricted(alt.Restrictions, country) {
			continue
		}
		return canto.ItemIdFromRaw(alt.Gid, canto.ItemIdTypeTrack)
	}
	return canto.ItemId{}, false
}
