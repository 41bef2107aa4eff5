package crossfield

import (
	"context"
	"fmt"
	"math"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/types"
	"github.com/notargets/gocross/utils"
)

type Result struct {
	Mesh       *mesh.TriMesh
	Adjacency  *Adjacency
	Dirichlet  []bool
	X          []float64 // (cos 4θ, sin 4θ) per unique edge
	EdgeAngles map[types.EdgePair]float64
	Views      []*View
	Iterations int
}

// Compute imports the mesh from src and computes its cross field, see ComputeMesh
func Compute(ctx context.Context, src mesh.Source, opts ...Option) (res *Result, err error) {
	var (
		M   *mesh.TriMesh
		cfg = defaultConfig()
	)
	for _, opt := range opts {
		opt(cfg)
	}
	if M, err = mesh.Import(src); err != nil {
		cfg.logger.Error("failed to get mesh from the mesh source", "err", err)
		return
	}
	return ComputeMesh(ctx, M, opts...)
}

/*
ComputeMesh computes a cross field with successive heat diffusion and projection.

Edges without two incident triangles and edges on mesh lines are fixed at θ = 0. Each iteration
solves one implicit Euler step of the heat equation on the doubled angle unknowns, with a time step
decreasing geometrically from the squared longest edge to the squared shortest edge, then projects
the free unknowns back onto the unit circle. Any failure aborts the computation.
*/
func ComputeMesh(ctx context.Context, M *mesh.TriMesh, opts ...Option) (res *Result, err error) {
	var (
		cfg = defaultConfig()
		adj *Adjacency
		sys *System
	)
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger.With("component", "crossfield")
	fail := func(msg string, e error) (*Result, error) {
		log.Error(msg, "err", e)
		return nil, e
	}
	if cfg.iterations < 1 {
		return fail("bad iteration count",
			fmt.Errorf("%w: iterations = %d, must be positive", ErrBadParameter, cfg.iterations))
	}
	log.Info("compute cross field with successive heat diffusion and projection ...")

	if adj, err = ComputeAdjacencies(M.Triangles); err != nil {
		return fail("failed to compute mesh adjacencies", err)
	}
	M.TriangleNeighbors, M.NonManifoldNeighbors = adj.TriangleNeighbors, adj.NonManifoldNeighbors
	log.Info("input", "points", len(M.Points), "lines", len(M.Lines), "triangles", len(M.Triangles),
		"internal_edges", adj.NumEdges())
	if adj.NumEdges() == 0 {
		return fail("no internal edges", ErrNoInteriorEdges)
	}

	dirichlet, nbc := MarkDirichlet(M, adj, log)
	log.Info("boundary conditions", "fixed_crosses", nbc)

	log.Info("compute stiffness matrix coefficients (Crouzeix-Raviart) ...")
	if sys, err = AssembleSystem(M, adj, dirichlet, cfg.parallelDegree); err != nil {
		return fail("failed to assemble system", err)
	}

	emin, emax, eavg := EdgeLengthStats(M, adj)
	log.Info("edge size", "min", emin, "avg", eavg, "max", emax)
	if emin < EPS {
		return fail("degenerate edge", fmt.Errorf("%w: shortest edge has length %g", ErrDegenerate, emin))
	}

	var (
		dtInitial = emax * emax
		dtFinal   = emin * emin
		nbIter    = cfg.iterations
		x         = append([]float64(nil), sys.RHS...)
	)
	log.Info("heat diffusion and projection loop", "iterations", nbIter, "unknowns", len(x))
	for iter := 0; iter < nbIter; iter++ {
		if err = ctx.Err(); err != nil {
			return fail("cross field computation canceled", err)
		}
		dt := TimeStep(dtInitial, dtFinal, iter, nbIter)
		A := sys.StepMatrix(dt)
		log.Info("solving linear system", "iter", iter+1, "of", nbIter, "dt", dt)
		var xNew []float64
		if xNew, err = cfg.solver.Solve(A, x); err != nil {
			return fail("failed to solve linear system", fmt.Errorf("%w: iteration %d: %v", ErrSolver, iter+1, err))
		}
		if !utils.IsFinite(xNew) {
			return fail("failed to solve linear system",
				fmt.Errorf("%w: iteration %d: non finite solution", ErrSolver, iter+1))
		}
		for e, fixed := range dirichlet {
			if fixed { // pinned exactly, whatever the solver tolerance
				xNew[2*e], xNew[2*e+1] = DirichletValue[0], DirichletValue[1]
			}
		}
		x = xNew
		Renormalize(x, dirichlet)
	}

	res = &Result{
		Mesh:       M,
		Adjacency:  adj,
		Dirichlet:  dirichlet,
		X:          x,
		EdgeAngles: EdgeAngles(adj, x),
		Iterations: nbIter,
	}
	if cfg.buildViews {
		log.Info("create visualization view with crosses")
		var cross, rep *View
		if cross, rep, err = BuildCrossViews(cfg.viewName, M, adj, x); err != nil {
			return fail("failed to create views", err)
		}
		res.Views = []*View{cross, rep}
	}
	if cfg.angleMap != nil {
		log.Info("fill the map edge_to_angle")
		for k, v := range res.EdgeAngles {
			cfg.angleMap[k] = v
		}
	}
	log.Info("... done", "memory", utils.GetMemUsage())
	return
}

// TimeStep interpolates geometrically between dtInitial at the first iteration and dtFinal at the last
func TimeStep(dtInitial, dtFinal float64, iter, nbIter int) float64 {
	return utils.GeometricInterp(dtInitial, dtFinal, iter, nbIter)
}

// Renormalize scales every free edge unknown pair with a non zero norm to unit length
func Renormalize(x []float64, dirichlet []bool) {
	for e, fixed := range dirichlet {
		if fixed {
			continue
		}
		norm := math.Hypot(x[2*e], x[2*e+1])
		if norm > EPS {
			x[2*e] /= norm
			x[2*e+1] /= norm
		}
	}
}

func EdgeLengthStats(M *mesh.TriMesh, adj *Adjacency) (emin, emax, eavg float64) {
	lengths := make([]float64, adj.NumEdges())
	for e, edge := range adj.Edges {
		lengths[e] = M.EdgeLength(edge[0], edge[1])
	}
	emin, emax, eavg = utils.MinMaxAvg(lengths)
	return
}
