package genre

import (
	"strings"
)

// Entry is a vocabulary label with its slug.
type Entry struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Index resolves user input to vocabulary labels.
type Index struct {
	entries []Entry
	labels  map[string]struct{}
	bySlug  map[string]string
}

// NewIndex builds an index over labels, kept in the given order. When two
// labels share a slug the first one owns it; both remain reachable by exact
// label.
func NewIndex(labels []string) *Index {
	x := &Index{
		entries: make([]Entry, 0, len(labels)),
		labels:  make(map[string]struct{}, len(labels)),
		bySlug:  make(map[string]string, len(labels)),
	}
	for _, l := range labels {
		slug := Slugify(l)
		x.entries = append(x.entries, Entry{Label: l, Slug: slug})
		x.labels[l] = struct{}{}
		if _, taken := x.bySlug[slug]; !taken && slug != "" {
			x.bySlug[slug] = l
		}
	}
	return x
}

// Entries returns every label with its slug.
func (x *Index) Entries() []Entry {
	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Resolve maps input to a label. It tries, in order: the exact label, the
// slug of the input, then a known alias of that slug.
func (x *Index) Resolve(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if _, ok := x.labels[input]; ok {
		return input, true
	}

	slug := Slugify(input)
	if label, ok := x.bySlug[slug]; ok {
		return label, true
	}
	if target, ok := Aliases[slug]; ok {
		if label, ok := x.bySlug[target]; ok {
			return label, true
		}
	}
	return "", false
}

// ResolveAll resolves each input. Labels come back deduplicated in first-seen
// order; inputs that match nothing are returned as unknown.
func (x *Index) ResolveAll(inputs []string) (labels []string, unknown []string) {
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		label, ok := x.Resolve(in)
		if !ok {
			unknown = append(unknown, in)
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels, unknown
}
