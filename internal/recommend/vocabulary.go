// Package recommend implements the genre-based recommendation core: a fitted
// genre vocabulary, the binary book-by-genre feature matrix built from it, the
// two scoring modes and the deduplicating ranker.
package recommend

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/listenupapp/bookrec/internal/errors"
)

// Vocabulary is the ordered set of genre labels a feature space was fitted on.
// Column i of every encoded row is the i-th label in ascending lexical order.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// Fit builds a vocabulary from the union of all genre lists. The result
// depends only on the set of labels seen, never on input order.
func Fit(genreLists [][]string) *Vocabulary {
	seen := make(map[string]struct{})
	for _, list := range genreLists {
		for _, g := range list {
			seen[g] = struct{}{}
		}
	}

	labels := make([]string, 0, len(seen))
	for g := range seen {
		labels = append(labels, g)
	}
	return newVocabulary(labels)
}

// NewVocabulary adopts a previously fitted label set, for example one
// persisted alongside the catalog. Labels are deduplicated and sorted.
func NewVocabulary(labels []string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, errors.Load("genre vocabulary is empty")
	}
	labels = slices.Clone(labels)
	slices.Sort(labels)
	return newVocabulary(slices.Compact(labels)), nil
}

func newVocabulary(labels []string) *Vocabulary {
	slices.Sort(labels)
	v := &Vocabulary{
		labels: labels,
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		v.index[l] = i
	}
	return v
}

// Len returns the number of columns.
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// Labels returns the labels in column order.
func (v *Vocabulary) Labels() []string {
	return slices.Clone(v.labels)
}

// Label returns the label of column i.
func (v *Vocabulary) Label(i int) (string, bool) {
	if i < 0 || i >= len(v.labels) {
		return "", false
	}
	return v.labels[i], true
}

// Index returns the column of label.
func (v *Vocabulary) Index(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

// Columns maps labels to columns. Unknown labels are returned separately so
// front ends can reject them.
func (v *Vocabulary) Columns(labels []string) (cols []int, unknown []string) {
	for _, l := range labels {
		if i, ok := v.index[l]; ok {
			cols = append(cols, i)
		} else {
			unknown = append(unknown, l)
		}
	}
	return cols, unknown
}

// Encode returns the binary encoding of a genre list: one bit per column
// whose label appears. Duplicates collapse and labels outside the
// vocabulary are ignored.
func (v *Vocabulary) Encode(genres []string) *bitset.BitSet {
	row := bitset.New(uint(len(v.labels)))
	for _, g := range genres {
		if i, ok := v.index[g]; ok {
			row.Set(uint(i))
		}
	}
	return row
}
