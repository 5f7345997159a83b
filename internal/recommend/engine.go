package recommend

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/listenupapp/bookrec/internal/errors"
)

// SeedScores scores every row against row idx: the number of genre labels
// the two rows share. Scores are not normalised by genre-list length, so
// books with more genres score higher.
func (m *Matrix) SeedScores(idx int) ([]int, error) {
	if idx < 0 || idx >= len(m.rows) {
		return nil, errors.InvalidQueryf("seed row %d out of range [0, %d)", idx, len(m.rows))
	}

	seed := m.rows[idx]
	scores := make([]int, len(m.rows))
	for i, row := range m.rows {
		scores[i] = int(row.IntersectionCardinality(seed))
	}
	return scores, nil
}

// GenreScores scores every row by how many of the selected columns it has
// set. Columns form a set: order and repetition do not change the result.
// An empty selection is rejected rather than scored as all zeros.
func (m *Matrix) GenreScores(cols []int) ([]int, error) {
	if len(cols) == 0 {
		return nil, errors.InvalidQuery("at least one genre must be selected")
	}

	mask := bitset.New(uint(m.cols))
	for _, c := range cols {
		if c < 0 || c >= m.cols {
			return nil, errors.InvalidQueryf("genre column %d out of range [0, %d)", c, m.cols)
		}
		mask.Set(uint(c))
	}

	scores := make([]int, len(m.rows))
	for i, row := range m.rows {
		scores[i] = int(row.IntersectionCardinality(mask))
	}
	return scores, nil
}
