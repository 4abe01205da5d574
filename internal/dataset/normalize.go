// Package dataset turns raw object-store locations into dataset identifiers.
package dataset

import "strings"

// Partition markers cut from a location. Everything from the first marker on
// belongs to a partition, not to the logical dataset.
const (
	stampDateMarker = "stamp_date="
	dateYMDMarker   = "date_ymd="
)

const schemeSeparator = "://"

// Normalize strips partition segments and the scheme prefix from
// rawLocation and returns the resulting object-store identifier.
// platformInstance and env are passed through unchanged.
func Normalize(rawLocation, platformInstance string, env EnvironmentTag) (Identifier, error) {
	loc := beforeMarker(rawLocation, stampDateMarker)
	loc = beforeMarker(loc, dateYMDMarker)

	i := strings.Index(loc, schemeSeparator)
	if i < 0 {
		return Identifier{}, &MalformedLocationError{Location: rawLocation}
	}
	path := loc[i+len(schemeSeparator):]
	// A second separator ends the path; the name never carries a scheme.
	path = beforeMarker(path, schemeSeparator)

	name := joinSegments(path)
	if name == "" {
		return Identifier{}, &MalformedLocationError{Location: rawLocation}
	}

	return FromCanonical(name, platformInstance, env), nil
}

// FromCanonical builds an identifier from an already resolved name, one
// without scheme prefix or partition markers. The name is used verbatim.
func FromCanonical(name, platformInstance string, env EnvironmentTag) Identifier {
	return Identifier{
		platform:         PlatformObjectStore,
		platformInstance: platformInstance,
		name:             name,
		environment:      env,
	}
}

func beforeMarker(s, marker string) string {
	before, _, _ := strings.Cut(s, marker)
	return before
}

// joinSegments re-joins the non-empty "/" segments of path.
func joinSegments(path string) string {
	segments := strings.Split(path, "/")
	kept := segments[:0]
	for _, seg := range segments {
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}
