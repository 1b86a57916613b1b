package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// caser performs Unicode-aware case folding so "Café", "café", and "CAFÉ"
// normalize identically — plain strings.ToLower mishandles non-ASCII
// casing rules the way the teacher's driveid package avoids via
// golang.org/x/text for cross-platform path comparison.
var caser = cases.Fold()

// Normalize produces the case-folded, trimmed, whitespace-collapsed form
// used for normalized_title/normalized_name columns and de-dup lookups
// (spec §3). Two titles that normalize identically are candidates for the
// conflict resolver's fuzzy-duplicate match.
func Normalize(s string) string {
	folded := caser.String(strings.TrimSpace(s))

	return strings.Join(strings.Fields(folded), " ")
}
