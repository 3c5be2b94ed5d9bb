package quantum

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// minParallelRows is the row count below which work stays on the calling goroutine.
const minParallelRows = 64

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	rows, cols int
	data       []Complex
}

// NewMatrix returns a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{rows: rows, cols: cols, data: make([]Complex, rows*cols)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// matrixFromRows builds a matrix from literal rows. All rows must share a length.
func matrixFromRows(rows [][]Complex) Matrix {
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		copy(m.data[i*m.cols:(i+1)*m.cols], row)
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// At returns the entry at row i, column j.
func (m Matrix) At(i, j int) Complex {
	return m.data[i*m.cols+j]
}

// Set writes the entry at row i, column j.
func (m Matrix) Set(i, j int, c Complex) {
	m.data[i*m.cols+j] = c
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	data := make([]Complex, len(m.data))
	copy(data, m.data)
	return Matrix{rows: m.rows, cols: m.cols, data: data}
}

// Kron returns the Kronecker product a⊗b, an (a.rows·b.rows)×(a.cols·b.cols) matrix
// whose entry (i, j) is a[i/b.rows][j/b.cols] · b[i%b.rows][j%b.cols].
func Kron(a, b Matrix) Matrix {
	return kron(a, b, 1)
}

func kron(a, b Matrix, workers int) Matrix {
	out := NewMatrix(a.rows*b.rows, a.cols*b.cols)
	forEachRowBlock(out.rows, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			aRow, bRow := i/b.rows, i%b.rows
			for j := range out.cols {
				out.data[i*out.cols+j] = Mul(a.At(aRow, j/b.cols), b.At(bRow, j%b.cols))
			}
		}
	})
	return out
}

// MulVec returns m·v. It fails when the dimensions disagree.
func (m Matrix) MulVec(v []Complex) ([]Complex, error) {
	if m.cols != len(v) {
		return nil, fmt.Errorf("matrix has %d columns, vector has %d entries", m.cols, len(v))
	}
	return m.mulVec(v, 1), nil
}

func (m Matrix) mulVec(v []Complex, workers int) []Complex {
	out := make([]Complex, m.rows)
	forEachRowBlock(m.rows, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum Complex
			row := m.data[i*m.cols : (i+1)*m.cols]
			for j, c := range row {
				sum = Add(sum, Mul(c, v[j]))
			}
			out[i] = sum
		}
	})
	return out
}

// forEachRowBlock splits [0, rows) into blocks of minParallelRows and runs them
// with at most workers goroutines at a time. Each row is owned by exactly one
// block, so the output does not depend on workers.
func forEachRowBlock(rows, workers int, fn func(lo, hi int)) {
	if workers <= 1 || rows < minParallelRows {
		fn(0, rows)
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < rows; lo += minParallelRows {
		hi := min(lo+minParallelRows, rows)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	// Blocks never fail; Wait only joins them.
	g.Wait()
}
