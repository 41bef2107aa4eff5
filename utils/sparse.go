package utils

import (
	"fmt"
	"math"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// IV is a diagonal coefficient
type IV struct {
	I   int
	Val float64
}

// IJV is an off diagonal (row, column, value) coefficient
type IJV struct {
	I, J int
	Val  float64
}

func (a IJV) less(b IJV) bool { return a.I < b.I || (a.I == b.I && a.J < b.J) }

/*
CSR is a square compressed sparse row matrix. The row layout is kept alongside the sparse.CSR so the
values can be rewritten each time step while the structure stays fixed.
*/
type CSR struct {
	N      int
	RowPtr []int // row i spans Cols[RowPtr[i]:RowPtr[i+1]]
	Cols   []int
	Vals   []float64
	M      *sparse.CSR
}

func NewCSR(N int, rowPtr, cols []int, vals []float64) (R *CSR) {
	R = &CSR{
		N:      N,
		RowPtr: rowPtr,
		Cols:   cols,
		Vals:   vals,
		M:      sparse.NewCSR(N, N, rowPtr, cols, vals),
	}
	return
}

/*
BuildCSR assembles a system from diagonal and off diagonal coefficients in two phases:
all coefficients are collected as triples and sorted, then the sorted run is compacted,
summing duplicate (row, column) entries and dropping sums with magnitude at or below ZEROTOL.
*/
func BuildCSR(N int, diag []IV, coefs []IJV) (R *CSR, err error) {
	if len(diag)+len(coefs) == 0 {
		err = ErrEmptySystem
		return
	}
	all := make([]IJV, 0, len(coefs)+len(diag))
	all = append(all, coefs...)
	for _, d := range diag {
		all = append(all, IJV{d.I, d.I, d.Val})
	}
	for _, c := range all {
		if c.I < 0 || c.I >= N || c.J < 0 || c.J >= N {
			err = fmt.Errorf("%w: coefficient (%d,%d) outside a %dx%d system", ErrDimension, c.I, c.J, N, N)
			return
		}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].less(all[b]) })

	var (
		rowPtr = make([]int, N+1)
		cols   = make([]int, 0, len(all))
		vals   = make([]float64, 0, len(all))
	)
	flush := func(i, j int, acc float64) {
		if math.Abs(acc) > ZEROTOL {
			cols = append(cols, j)
			vals = append(vals, acc)
			rowPtr[i+1]++
		}
	}
	curI, curJ, acc := all[0].I, all[0].J, all[0].Val
	for _, c := range all[1:] {
		if c.I != curI || c.J != curJ {
			flush(curI, curJ, acc)
			curI, curJ, acc = c.I, c.J, c.Val
		} else {
			acc += c.Val
		}
	}
	flush(curI, curJ, acc)
	for i := 0; i < N; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	R = NewCSR(N, rowPtr, cols, vals)
	return
}

func (m *CSR) Dims() (r, c int) { return m.N, m.N }

func (m *CSR) At(i, j int) float64 { return m.M.At(i, j) }

func (m *CSR) NNZ() int { return len(m.Vals) }

// Row returns views of the column indices and values of row i
func (m *CSR) Row(i int) (cols []int, vals []float64) {
	k0, k1 := m.RowPtr[i], m.RowPtr[i+1]
	return m.Cols[k0:k1], m.Vals[k0:k1]
}

// WithValues returns a matrix sharing this structure with a new set of values
func (m *CSR) WithValues(vals []float64) (R *CSR) {
	if len(vals) != len(m.Vals) {
		panic(fmt.Errorf("%w: have %d values for %d stored entries", ErrDimension, len(vals), len(m.Vals)))
	}
	return NewCSR(m.N, m.RowPtr, m.Cols, vals)
}

// Diagonal returns the diagonal, zero where a row stores no diagonal entry
func (m *CSR) Diagonal() (d []float64) {
	d = make([]float64, m.N)
	for i := 0; i < m.N; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			if j == i {
				d[i] = vals[k]
			}
		}
	}
	return
}

// MulVec computes dst = A*x
func (m *CSR) MulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	m.M.MulVecTo(dst, false, x)
}

func (m *CSR) ToDense() (D *mat.Dense) {
	D = mat.NewDense(m.N, m.N, nil)
	for i := 0; i < m.N; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			D.Set(i, j, vals[k])
		}
	}
	return
}
