// Package genre maps user-supplied genre names, slugs and aliases onto the
// labels of a fitted vocabulary.
package genre

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases a genre label, folds accents and joins the remaining
// ASCII letters and digits with single hyphens:
//
//	"Science Fiction" -> "science-fiction"
//	"Children's"      -> "children-s"
//	"Sci-Fi/Fantasy"  -> "sci-fi-fantasy"
func Slugify(label string) string {
	var b strings.Builder
	b.Grow(len(label))

	pendingHyphen := false
	for _, r := range norm.NFKD.String(label) {
		if unicode.Is(unicode.Mn, r) {
			continue // combining accent left over from decomposition
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
