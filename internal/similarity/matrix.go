package similarity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix holds pairwise cosine similarities: row i is the i-th vector of the
// first set, column j the j-th vector of the second.
type Matrix struct {
	dense *mat.Dense
}

// NewMatrix computes the similarity of every vector in a against every
// vector in b.
func NewMatrix(a, b [][]float32) (*Matrix, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}
	dimA, err := dimension(a)
	if err != nil {
		return nil, err
	}
	dimB, err := dimension(b)
	if err != nil {
		return nil, err
	}
	if dimA != dimB {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, dimA, dimB)
	}

	left := normalizedRows(a, dimA)
	right := normalizedRows(b, dimB)

	var product mat.Dense
	product.Mul(left, right.T())

	r, c := product.Dims()
	for i := 0; i < r; i++ {
		row := product.RawRowView(i)
		for j := 0; j < c; j++ {
			row[j] = clamp(row[j])
		}
	}
	return &Matrix{dense: &product}, nil
}

// Dims returns the row and column counts.
func (m *Matrix) Dims() (rows, cols int) {
	return m.dense.Dims()
}

// At returns the similarity of row i and column j.
func (m *Matrix) At(i, j int) float64 {
	return m.dense.At(i, j)
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	return append([]float64(nil), m.dense.RawRowView(i)...)
}

// RowMax returns the column with the highest similarity in row i. Ties go to
// the lowest column.
func (m *Matrix) RowMax(i int) (int, float64) {
	row := m.dense.RawRowView(i)
	best := 0
	for j := 1; j < len(row); j++ {
		if row[j] > row[best] {
			best = j
		}
	}
	return best, row[best]
}

// normalizedRows scales every vector to unit length so that a plain
// product yields cosines. Zero vectors stay zero.
func normalizedRows(vectors [][]float32, dim int) *mat.Dense {
	data := make([]float64, 0, len(vectors)*dim)
	for _, v := range vectors {
		row := widen(v)
		if n := floats.Norm(row, 2); n > 0 {
			floats.Scale(1/n, row)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(vectors), dim, data)
}
