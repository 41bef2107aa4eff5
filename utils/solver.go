package utils

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearSolver solves A x = b. Implementations are deterministic and return no partial solution on failure.
type LinearSolver interface {
	Solve(A *CSR, b []float64) (x []float64, err error)
}

/*
GMRES is restarted GMRES(m) with Jacobi (row diagonal) left preconditioning.
The Arnoldi basis is orthogonalized with modified Gram-Schmidt and the Hessenberg
least squares problem is reduced with Givens rotations as the basis grows.
*/
type GMRES struct {
	Tol     float64 // relative residual of the preconditioned system
	Restart int
	MaxIter int // total Arnoldi steps over all restarts
}

func NewGMRES() *GMRES {
	return &GMRES{
		Tol:     1.e-10,
		Restart: 50,
		MaxIter: 2000,
	}
}

func (g *GMRES) Solve(A *CSR, b []float64) (x []float64, err error) {
	var (
		n      = A.N
		m      = g.Restart
		invD   = A.Diagonal()
		totalK int
	)
	if len(b) != n {
		err = fmt.Errorf("%w: rhs has length %d, system is %dx%d", ErrDimension, len(b), n, n)
		return
	}
	if m <= 0 || m > n {
		m = n
	}
	for i, d := range invD {
		if math.Abs(d) < ZEROTOL {
			err = fmt.Errorf("%w: zero diagonal in row %d", ErrSingular, i)
			return
		}
		invD[i] = 1. / d
	}
	// Preconditioned operator: w = D^-1 A v
	apply := func(w, v []float64) {
		A.MulVec(w, v)
		floats.Mul(w, invD)
	}
	pb := make([]float64, n)
	floats.MulTo(pb, invD, b)
	x = make([]float64, n)
	bnorm := floats.Norm(pb, 2)
	if bnorm == 0 {
		return
	}

	var (
		V  = make([][]float64, m+1)
		H  = make([][]float64, m+1)
		cs = make([]float64, m)
		sn = make([]float64, m)
		gv = make([]float64, m+1)
		r  = make([]float64, n)
		w  = make([]float64, n)
	)
	for i := range V {
		V[i] = make([]float64, n)
		H[i] = make([]float64, m)
	}
	for {
		apply(r, x)
		floats.SubTo(r, pb, r)
		beta := floats.Norm(r, 2)
		if beta/bnorm <= g.Tol {
			return
		}
		if totalK >= g.MaxIter {
			err = fmt.Errorf("%w: residual %g after %d iterations", ErrNoConvergence, beta/bnorm, totalK)
			return nil, err
		}
		floats.ScaleTo(V[0], 1./beta, r)
		for i := range gv {
			gv[i] = 0
		}
		gv[0] = beta
		k := 0
		for j := 0; j < m && totalK < g.MaxIter; j++ {
			apply(w, V[j])
			for i := 0; i <= j; i++ {
				H[i][j] = floats.Dot(w, V[i])
				floats.AddScaled(w, -H[i][j], V[i])
			}
			H[j+1][j] = floats.Norm(w, 2)
			breakdown := H[j+1][j] <= ZEROTOL*bnorm
			if !breakdown {
				floats.ScaleTo(V[j+1], 1./H[j+1][j], w)
			}
			for i := 0; i < j; i++ {
				hij := cs[i]*H[i][j] + sn[i]*H[i+1][j]
				H[i+1][j] = -sn[i]*H[i][j] + cs[i]*H[i+1][j]
				H[i][j] = hij
			}
			denom := math.Hypot(H[j][j], H[j+1][j])
			if denom == 0 {
				err = fmt.Errorf("%w: Krylov breakdown at step %d", ErrSingular, totalK)
				return nil, err
			}
			cs[j], sn[j] = H[j][j]/denom, H[j+1][j]/denom
			H[j][j] = denom
			H[j+1][j] = 0
			gv[j+1] = -sn[j] * gv[j]
			gv[j] = cs[j] * gv[j]
			k = j + 1
			totalK++
			if breakdown || math.Abs(gv[j+1])/bnorm <= g.Tol {
				break
			}
		}
		// Back substitution on the k x k upper triangle
		y := make([]float64, k)
		for i := k - 1; i >= 0; i-- {
			s := gv[i]
			for l := i + 1; l < k; l++ {
				s -= H[i][l] * y[l]
			}
			y[i] = s / H[i][i]
		}
		for i := 0; i < k; i++ {
			floats.AddScaled(x, y[i], V[i])
		}
		if !IsFinite(x) {
			err = fmt.Errorf("%w: non finite iterate", ErrNoConvergence)
			return nil, err
		}
	}
}

// DenseLU solves through a dense LU factorization, intended for small systems and for checking GMRES
type DenseLU struct{}

func (DenseLU) Solve(A *CSR, b []float64) (x []float64, err error) {
	if len(b) != A.N {
		err = fmt.Errorf("%w: rhs has length %d, system is %dx%d", ErrDimension, len(b), A.N, A.N)
		return
	}
	var (
		lu  mat.LU
		xv  = mat.NewVecDense(A.N, nil)
		rhs = mat.NewVecDense(A.N, append([]float64(nil), b...))
	)
	lu.Factorize(A.ToDense())
	if err = lu.SolveVecTo(xv, false, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		err = nil
	}
	x = xv.RawVector().Data
	if !IsFinite(x) {
		return nil, fmt.Errorf("%w: non finite solution", ErrSingular)
	}
	return
}
