// Package genematrix provides labeled numeric matrices for gene expression
// tables and gene-by-gene networks, together with the reductions the
// consensus-inference pipeline needs: per-gene standardization, element-wise
// median across replicate matrices, and symmetrization.
package genematrix

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/fhaive/dream"
)

// Matrix is a dense numeric matrix with row and column labels. Expression
// tables are genes (rows) by samples (columns); network matrices are square
// gene-by-gene with identical row and column labels.
type Matrix struct {
	RowNames []string
	ColNames []string
	Data     *mat.Dense

	rowIndex map[string]int
}

// New returns a zero-valued Matrix with the given labels.
func New(rowNames, colNames []string) *Matrix {
	return &Matrix{
		RowNames: append([]string{}, rowNames...),
		ColNames: append([]string{}, colNames...),
		Data:     mat.NewDense(len(rowNames), len(colNames), nil),
	}
}

// NewSquare returns a zero-valued gene-by-gene Matrix.
func NewSquare(genes []string) *Matrix {
	return New(genes, genes)
}

// Dims returns the row and column counts.
func (m *Matrix) Dims() (r, c int) {
	return m.Data.Dims()
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.Data.At(i, j)
}

// Set assigns the value at (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.Data.Set(i, j, v)
}

// IsSquare reports whether the matrix is square with matching row and column
// labels.
func (m *Matrix) IsSquare() bool {
	r, c := m.Data.Dims()
	if r != c {
		return false
	}
	for i := range m.RowNames {
		if m.RowNames[i] != m.ColNames[i] {
			return false
		}
	}
	return true
}

// RowIndex returns the position of the named row, or -1 if absent.
func (m *Matrix) RowIndex(name string) int {
	if m.rowIndex == nil {
		m.rowIndex = make(map[string]int, len(m.RowNames))
		for i, n := range m.RowNames {
			m.rowIndex[n] = i
		}
	}
	if i, ok := m.rowIndex[name]; ok {
		return i
	}
	return -1
}

// Transpose returns a new Matrix with rows and columns exchanged.
func (m *Matrix) Transpose() *Matrix {
	r, c := m.Data.Dims()
	out := New(m.ColNames, m.RowNames)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Data.Set(j, i, m.Data.At(i, j))
		}
	}
	return out
}

// StandardizeRows scales every row in place to zero mean and unit variance.
// Rows with zero variance are centered only, so constant genes do not turn
// into NaN columns downstream.
func (m *Matrix) StandardizeRows() {
	r, c := m.Data.Dims()
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m.Data)
		mu := stat.Mean(row, nil)
		sd := stat.StdDev(row, nil)
		for j := 0; j < c; j++ {
			v := row[j] - mu
			if sd > 0 {
				v /= sd
			}
			m.Data.Set(i, j, v)
		}
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := New(m.RowNames, m.ColNames)
	out.Data.Copy(m.Data)
	return out
}

// SymmetrizeMax replaces the matrix in place with the element-wise maximum of
// itself and its transpose. Square matrices only.
func (m *Matrix) SymmetrizeMax() error {
	r, c := m.Data.Dims()
	if r != c {
		return dream.Mismatchf("cannot symmetrize a %dx%d matrix", r, c)
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			v := math.Max(m.Data.At(i, j), m.Data.At(j, i))
			m.Data.Set(i, j, v)
			m.Data.Set(j, i, v)
		}
	}
	return nil
}

// Median reduces a set of equally-shaped, equally-labeled matrices to a
// single matrix holding the element-wise median. A single input is returned
// unchanged. The reduction is independent of input order.
func Median(ms []*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return nil, dream.Configf("median reduction requires at least one matrix")
	}
	if len(ms) == 1 {
		return ms[0], nil
	}

	first := ms[0]
	r, c := first.Data.Dims()
	for _, m := range ms[1:] {
		mr, mc := m.Data.Dims()
		if mr != r || mc != c {
			return nil, dream.Mismatchf("median reduction over mixed shapes: %dx%d vs %dx%d", r, c, mr, mc)
		}
		for i := range first.RowNames {
			if m.RowNames[i] != first.RowNames[i] {
				return nil, dream.Mismatchf("median reduction over mixed row labels at row %d: %q vs %q", i, first.RowNames[i], m.RowNames[i])
			}
		}
	}

	out := New(first.RowNames, first.ColNames)
	cell := make([]float64, len(ms))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			for k, m := range ms {
				cell[k] = m.Data.At(i, j)
			}
			med, err := stats.Median(cell)
			if err != nil {
				return nil, err
			}
			out.Data.Set(i, j, med)
		}
	}
	return out, nil
}
