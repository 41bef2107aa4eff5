package crossfield

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/types"
	"github.com/notargets/gocross/utils"
)

type failSolver struct{}

func (failSolver) Solve(*utils.CSR, []float64) ([]float64, error) { return nil, errors.New("boom") }

type nanSolver struct{}

func (nanSolver) Solve(A *utils.CSR, b []float64) ([]float64, error) {
	x := make([]float64, len(b))
	x[0] = math.NaN()
	return x, nil
}

func TestComputeUnitSquare(t *testing.T) {
	for _, solver := range []utils.LinearSolver{utils.NewGMRES(), utils.DenseLU{}} {
		angles := make(map[types.EdgePair]float64)
		res, err := ComputeMesh(context.Background(), unitSquareMesh(),
			WithSolver(solver), WithAngleMap(angles), WithParallelDegree(2))
		require.NoError(t, err)
		assert.Equal(t, DefaultIterations, res.Iterations)
		require.Len(t, res.X, 10)

		// The diagonal converges to (cos 4θ, sin 4θ) = (-1, 0), a cross at 45 degrees of the edge
		assert.InDelta(t, -1., res.X[2], 1e-8)
		assert.InDelta(t, 0., res.X[3], 1e-8)
		diag := res.EdgeAngles[types.EdgePair{1, 3}]
		assert.InDelta(t, math.Pi/4, math.Abs(diag), 1e-6)
		for e, fixed := range res.Dirichlet {
			if fixed {
				assert.Equal(t, 1., res.X[2*e])
				assert.Equal(t, 0., res.X[2*e+1])
				assert.Equal(t, 0., res.EdgeAngles[types.EdgePair(res.Adjacency.Edges[e])])
			}
		}
		assert.Equal(t, res.EdgeAngles, angles)
		assert.Len(t, angles, 5)

		require.Len(t, res.Views, 2)
		cross, rep := res.Views[0], res.Views[1]
		assert.Equal(t, "crosses", cross.Name)
		assert.Equal(t, "crosses_rep_planar", rep.Name)
		assert.Equal(t, 10, cross.Len())
		assert.Equal(t, 4, rep.Len())
		// Every cross branch is aligned with the global axes
		for _, vp := range cross.Points {
			assert.InDelta(t, 1., math.Hypot(vp.Vector.X, vp.Vector.Y), 1e-8)
			assert.InDelta(t, 0., vp.Vector.X*vp.Vector.Y, 1e-6)
		}
		for _, vp := range rep.Points {
			assert.InDelta(t, 1., vp.Vector.X, 1e-6)
			assert.InDelta(t, 0., vp.Vector.Y, 1e-6)
		}
	}
}

func TestComputeFromSource(t *testing.T) {
	src := &mesh.MemSource{
		NodeList: []mesh.Node{
			{ID: 1, X: 0, Y: 0}, {ID: 2, X: 1, Y: 0}, {ID: 3, X: 1, Y: 1}, {ID: 4, X: 0, Y: 1},
		},
	}
	src.AddElements(mesh.ElementLine, 1, 2, 2, 3, 3, 4, 4, 1)
	src.AddElements(mesh.ElementTriangle, 1, 2, 3, 1, 3, 4)
	res, err := Compute(context.Background(), src, WithIterations(3), WithViews(false, ""))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Iterations)
	assert.Empty(t, res.Views)
	assert.Len(t, res.Mesh.TriangleNeighbors, 2)
	assert.InDelta(t, -1., res.X[2], 1e-8)

	src.AddElements(mesh.ElementTriangle, 1, 2, 7)
	_, err = Compute(context.Background(), src)
	assert.ErrorIs(t, err, mesh.ErrInvalidVertex)
}

func TestComputeGrid(t *testing.T) {
	var (
		ctx = context.Background()
		nbc int
	)
	res, err := ComputeMesh(ctx, gridMesh(4, 0), WithViews(true, "grid"))
	require.NoError(t, err)
	assert.Equal(t, "grid_rep_planar", res.Views[1].Name)
	for e, fixed := range res.Dirichlet {
		norm := math.Hypot(res.X[2*e], res.X[2*e+1])
		assert.InDelta(t, 1., norm, 1e-10)
		if types.ClassifyEdge(res.Adjacency.Occurrences(e)) == types.EdgeBoundary {
			assert.True(t, fixed)
			nbc++
		}
	}
	assert.Equal(t, 16, nbc)

	// Edge local angles do not depend on an in-plane rotation of the mesh
	rot, err := ComputeMesh(ctx, gridMesh(4, 0.7), WithViews(false, ""))
	require.NoError(t, err)
	require.Len(t, rot.X, len(res.X))
	for i := range res.X {
		assert.InDelta(t, res.X[i], rot.X[i], 1e-6)
	}

	// Nor on the parallel degree
	par, err := ComputeMesh(ctx, gridMesh(4, 0), WithParallelDegree(3), WithViews(false, ""))
	require.NoError(t, err)
	seq, err := ComputeMesh(ctx, gridMesh(4, 0), WithParallelDegree(1), WithViews(false, ""))
	require.NoError(t, err)
	assert.Equal(t, seq.X, par.X)
}

func TestComputeClosedSurface(t *testing.T) {
	// No constraint at all, the field stays zero and no cross is drawn
	res, err := ComputeMesh(context.Background(), tetrahedron())
	require.NoError(t, err)
	for _, fixed := range res.Dirichlet {
		assert.False(t, fixed)
	}
	for _, v := range res.X {
		assert.Equal(t, 0., v)
	}
	assert.Equal(t, 0, res.Views[0].Len())
}

func TestComputeFailures(t *testing.T) {
	ctx := context.Background()
	{
		_, err := ComputeMesh(ctx, unitSquareMesh(), WithIterations(0))
		assert.ErrorIs(t, err, ErrBadParameter)
	}
	{
		_, err := ComputeMesh(ctx, &mesh.TriMesh{})
		assert.ErrorIs(t, err, ErrNoInteriorEdges)
	}
	{
		M := unitSquareMesh()
		M.Points[3] = M.Points[1]
		_, err := ComputeMesh(ctx, M)
		assert.ErrorIs(t, err, ErrDegenerate)
	}
	{
		_, err := ComputeMesh(ctx, unitSquareMesh(), WithSolver(failSolver{}))
		assert.ErrorIs(t, err, ErrSolver)
		assert.Contains(t, err.Error(), "boom")
	}
	{
		_, err := ComputeMesh(ctx, unitSquareMesh(), WithSolver(nanSolver{}))
		assert.ErrorIs(t, err, ErrSolver)
	}
	{
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ComputeMesh(cctx, unitSquareMesh())
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestTimeStep(t *testing.T) {
	var (
		dt0, dt1 = 2., 0.02
		n        = 10
	)
	assert.Equal(t, dt0, TimeStep(dt0, dt1, 0, n))
	assert.InDelta(t, dt1, TimeStep(dt0, dt1, n-1, n), 1e-15)
	for k := 1; k < n; k++ {
		prev, cur := TimeStep(dt0, dt1, k-1, n), TimeStep(dt0, dt1, k, n)
		assert.Less(t, cur, prev)
		// constant ratio between successive steps
		assert.InDelta(t, math.Pow(dt1/dt0, 1./float64(n-1)), cur/prev, 1e-12)
	}
	assert.Equal(t, dt0, TimeStep(dt0, dt1, 0, 1))
}

func TestRenormalize(t *testing.T) {
	var (
		x         = []float64{3, 4, 0, 0, 2, 0, 0.5, 0.5}
		dirichlet = []bool{false, false, true, false}
	)
	Renormalize(x, dirichlet)
	assert.InDeltaSlice(t, []float64{0.6, 0.8, 0, 0, 2, 0, math.Sqrt2 / 2, math.Sqrt2 / 2}, x, 1e-15)
	once := append([]float64(nil), x...)
	Renormalize(x, dirichlet)
	assert.InDeltaSlice(t, once, x, 1e-15)
}

func TestEdgeLengthStats(t *testing.T) {
	M := unitSquareMesh()
	adj, err := ComputeAdjacencies(M.Triangles)
	require.NoError(t, err)
	emin, emax, eavg := EdgeLengthStats(M, adj)
	assert.Equal(t, 1., emin)
	assert.InDelta(t, math.Sqrt2, emax, 1e-15)
	assert.InDelta(t, (4+math.Sqrt2)/5, eavg, 1e-15)
}
