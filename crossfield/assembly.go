package crossfield

import (
	"fmt"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/utils"
)

// System is the assembled stiffness, lumped mass and right hand side on 2*NumEdges unknowns
type System struct {
	K         *utils.CSR
	Mass      []float64
	RHS       []float64
	Dirichlet []bool
}

type edgeCoefficients struct {
	iv   []utils.IV
	ijv  []utils.IJV
	mass float64
	err  error
}

/*
AssembleSystem computes the stiffness rows of all free edges concurrently, one bucket of edges per
goroutine, then merges them in edge order so the result does not depend on the parallel degree.
Dirichlet edges get an identity row and the right hand side DirichletValue.
*/
func AssembleSystem(M *mesh.TriMesh, adj *Adjacency, dirichlet []bool, parallelDegree int) (sys *System, err error) {
	var (
		nE    = adj.NumEdges()
		local = make([]edgeCoefficients, nE)
		pm    = utils.NewPartitionMap(utils.ParallelDegree(parallelDegree, nE), nE)
		diag  = make([]utils.IV, 0, 2*nE)
		coefs = make([]utils.IJV, 0, 16*nE)
	)
	if nE == 0 {
		err = ErrNoInteriorEdges
		return
	}
	pm.Run(func(np, kMin, kMax int) {
		for e := kMin; e < kMax; e++ {
			if dirichlet[e] {
				continue
			}
			ec := &local[e]
			if ec.iv, ec.ijv, ec.err = StiffnessCoefficients(M, e, adj); ec.err != nil {
				continue
			}
			t1, _ := OccurrenceTriangle(adj.EdgeToOld[e][0])
			t2, _ := OccurrenceTriangle(adj.EdgeToOld[e][1])
			ec.mass = 1. / 3 * (M.TriangleArea(t1) + M.TriangleArea(t2))
			if ec.mass < EPS {
				ec.err = fmt.Errorf("%w: lumped mass %g", ErrDegenerate, ec.mass)
			}
		}
	})

	sys = &System{
		Mass:      utils.ConstArray(2*nE, 1.), // diagonal for Crouzeix-Raviart
		RHS:       make([]float64, 2*nE),
		Dirichlet: dirichlet,
	}
	for e := 0; e < nE; e++ {
		if dirichlet[e] {
			diag = append(diag, utils.IV{I: 2 * e, Val: 1.}, utils.IV{I: 2*e + 1, Val: 1.})
			sys.RHS[2*e], sys.RHS[2*e+1] = DirichletValue[0], DirichletValue[1]
			continue
		}
		ec := local[e]
		if ec.err != nil {
			err = fmt.Errorf("failed to compute stiffness matrix coefficients for e = %d: %w", e, ec.err)
			return nil, err
		}
		diag = append(diag, ec.iv...)
		coefs = append(coefs, ec.ijv...)
		sys.Mass[2*e], sys.Mass[2*e+1] = ec.mass, ec.mass
	}
	if sys.K, err = utils.BuildCSR(2*nE, diag, coefs); err != nil {
		err = fmt.Errorf("failed to prepare system: %w", err)
		return nil, err
	}
	return
}

/*
StepMatrix is the implicit Euler matrix for time step dt: free rows hold δ_ij + dt/mass_i * K_ij,
Dirichlet rows reduce to the identity so the pinned values are carried through the solve.
*/
func (sys *System) StepMatrix(dt float64) (A *utils.CSR) {
	var (
		K    = sys.K
		vals = make([]float64, K.NNZ())
	)
	for i := 0; i < K.N; i++ {
		k0, k1 := K.RowPtr[i], K.RowPtr[i+1]
		for k := k0; k < k1; k++ {
			j := K.Cols[k]
			switch {
			case sys.Dirichlet[i/2]:
				if j == i {
					vals[k] = 1.
				}
			case j == i: // diagonal term
				vals[k] = 1. + dt/sys.Mass[i]*K.Vals[k]
			default:
				vals[k] = dt / sys.Mass[i] * K.Vals[k]
			}
		}
	}
	return K.WithValues(vals)
}
