package recommend

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/listenupapp/bookrec/internal/domain"
	"github.com/listenupapp/bookrec/internal/errors"
)

// Matrix is the N×M binary feature matrix. Rows are bit-packed and each row
// remembers the BookID it was encoded from. Read-only after BuildMatrix.
type Matrix struct {
	rows []*bitset.BitSet
	ids  []domain.BookID
	cols int
}

// BuildMatrix encodes every book in row order.
func BuildMatrix(books []domain.Book, vocab *Vocabulary) (*Matrix, error) {
	if len(books) == 0 {
		return nil, errors.Load("cannot build feature matrix: catalog is empty")
	}
	if vocab == nil || vocab.Len() == 0 {
		return nil, errors.Load("cannot build feature matrix: vocabulary is empty")
	}

	m := &Matrix{
		rows: make([]*bitset.BitSet, len(books)),
		ids:  make([]domain.BookID, len(books)),
		cols: vocab.Len(),
	}
	for i := range books {
		m.rows[i] = vocab.Encode(books[i].Genres)
		m.ids[i] = books[i].ID
	}
	return m, nil
}

// Rows returns N.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns M.
func (m *Matrix) Cols() int { return m.cols }

// ID returns the BookID row i was built from.
func (m *Matrix) ID(i int) domain.BookID { return m.ids[i] }

// GenreCount returns the number of set columns in row i.
func (m *Matrix) GenreCount(i int) int {
	return int(m.rows[i].Count())
}

// Row returns row i as a dense 0/1 vector.
func (m *Matrix) Row(i int) []uint8 {
	out := make([]uint8, m.cols)
	for c, ok := m.rows[i].NextSet(0); ok && int(c) < m.cols; c, ok = m.rows[i].NextSet(c + 1) {
		out[c] = 1
	}
	return out
}
