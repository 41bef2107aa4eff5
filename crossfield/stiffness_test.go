package crossfield

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocross/mesh"
)

func TestComputeStencil(t *testing.T) {
	{ // Unit square diagonal
		M := unitSquareMesh()
		adj, err := ComputeAdjacencies(M.Triangles)
		require.NoError(t, err)
		st, err := ComputeStencil(M, 1, adj)
		require.NoError(t, err)
		assert.Equal(t, [4]int{0, 3, 4, 2}, st.Neighbors)
		wantAlpha := [4]float64{math.Pi / 4, 7 * math.Pi / 4, 5 * math.Pi / 4, 7 * math.Pi / 4}
		for k := range st.Alpha {
			assert.InDelta(t, wantAlpha[k], st.Alpha[k], 1e-12)
			assert.InDelta(t, -0.25, st.Weight[k], 1e-12)
		}
		_, err = ComputeStencil(M, 0, adj)
		assert.ErrorIs(t, err, ErrNotInterior)
	}
	{ // Weights of every interior edge sum to -1
		M := gridMesh(4, 0.2)
		adj, err := ComputeAdjacencies(M.Triangles)
		require.NoError(t, err)
		var nInterior int
		for e := 0; e < adj.NumEdges(); e++ {
			if adj.Occurrences(e) != 2 {
				continue
			}
			nInterior++
			st, err := ComputeStencil(M, e, adj)
			require.NoError(t, err)
			var sum float64
			for _, w := range st.Weight {
				sum += w
			}
			assert.InDelta(t, -1., sum, 1e-12)
			for _, a := range st.Alpha {
				assert.True(t, a >= 0 && a < 2*math.Pi)
			}
		}
		assert.Equal(t, 3*16+2*4-4*4, nInterior)
	}
	{ // Collapsed interior edge
		M := unitSquareMesh()
		M.Points[3] = M.Points[1]
		adj, err := ComputeAdjacencies(M.Triangles)
		require.NoError(t, err)
		_, err = ComputeStencil(M, 1, adj)
		assert.ErrorIs(t, err, ErrDegenerate)
	}
}

func TestStiffnessCoefficients(t *testing.T) {
	M := unitSquareMesh()
	adj, err := ComputeAdjacencies(M.Triangles)
	require.NoError(t, err)
	iv, ijv, err := StiffnessCoefficients(M, 1, adj)
	require.NoError(t, err)
	require.Len(t, iv, 2)
	require.Len(t, ijv, 16)
	assert.Equal(t, 2, iv[0].I)
	assert.Equal(t, 3, iv[1].I)

	// An axis aligned cross everywhere: (1,0) on the sides, (-1,0) on the diagonal, is in the kernel
	x := []float64{1, 0, -1, 0, 1, 0, 1, 0, 1, 0}
	var rx, ry float64
	for _, c := range iv {
		if c.I == 2 {
			rx += c.Val * x[c.I]
		} else {
			ry += c.Val * x[c.I]
		}
	}
	for _, c := range ijv {
		if c.I == 2 {
			rx += c.Val * x[c.J]
		} else {
			ry += c.Val * x[c.J]
		}
	}
	assert.InDelta(t, 0., rx, 1e-12)
	assert.InDelta(t, 0., ry, 1e-12)
}

func TestMarkDirichlet(t *testing.T) {
	var (
		buf    bytes.Buffer
		logger = slog.New(slog.NewTextHandler(&buf, nil))
	)
	{
		M := unitSquareMesh()
		adj, err := ComputeAdjacencies(M.Triangles)
		require.NoError(t, err)
		dirichlet, nbc := MarkDirichlet(M, adj, logger)
		assert.Equal(t, 4, nbc)
		assert.Equal(t, []bool{true, false, true, true, true}, dirichlet)
		assert.Empty(t, buf.String())
	}
	{ // Interior line and a line outside the triangulation
		M := unitSquareMesh()
		M.Lines = append(M.Lines, [2]int{3, 1}, [2]int{2, 4}, [2]int{1, 2})
		adj, err := ComputeAdjacencies(M.Triangles)
		require.NoError(t, err)
		dirichlet, nbc := MarkDirichlet(M, adj, logger)
		assert.Equal(t, 5, nbc)
		assert.True(t, dirichlet[1])
		assert.Contains(t, buf.String(), "boundary line is not a mesh edge")
	}
	{ // Closed surface without lines
		M := tetrahedron()
		adj, err := ComputeAdjacencies(M.Triangles)
		require.NoError(t, err)
		_, nbc := MarkDirichlet(M, adj, nil)
		assert.Equal(t, 0, nbc)
	}
}

func TestAssembleSystem(t *testing.T) {
	M := unitSquareMesh()
	adj, err := ComputeAdjacencies(M.Triangles)
	require.NoError(t, err)
	dirichlet, _ := MarkDirichlet(M, adj, nil)
	sys, err := AssembleSystem(M, adj, dirichlet, 2)
	require.NoError(t, err)

	assert.Equal(t, 10, sys.K.N)
	assert.InDelta(t, 1./3, sys.Mass[2], 1e-14)
	assert.InDelta(t, 1./3, sys.Mass[3], 1e-14)
	assert.Equal(t, 1., sys.Mass[0])
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0, 1, 0, 1, 0}, sys.RHS)
	assert.InDelta(t, 0.25, sys.K.At(2, 0), 1e-14)
	assert.Equal(t, 0., sys.K.At(0, 2))

	dt := 0.5
	A := sys.StepMatrix(dt)
	assert.InDelta(t, 1+3*dt, A.At(2, 2), 1e-12)
	assert.InDelta(t, 3*dt*0.25, A.At(2, 0), 1e-12)
	for i := 0; i < A.N; i++ {
		if dirichlet[i/2] {
			cols, vals := A.Row(i)
			for k, j := range cols {
				if j == i {
					assert.Equal(t, 1., vals[k])
				} else {
					assert.Equal(t, 0., vals[k])
				}
			}
		}
	}
	// the stiffness itself is left untouched
	assert.InDelta(t, 0.25, sys.K.At(2, 0), 1e-14)

	{ // Result does not depend on the parallel degree
		G := gridMesh(6, 0)
		gadj, err := ComputeAdjacencies(G.Triangles)
		require.NoError(t, err)
		gd, _ := MarkDirichlet(G, gadj, nil)
		s1, err := AssembleSystem(G, gadj, gd, 1)
		require.NoError(t, err)
		s4, err := AssembleSystem(G, gadj, gd, 4)
		require.NoError(t, err)
		assert.Equal(t, s1.K.Vals, s4.K.Vals)
		assert.Equal(t, s1.K.Cols, s4.K.Cols)
		assert.Equal(t, s1.Mass, s4.Mass)
	}
	{ // Zero area pair of triangles
		D := &mesh.TriMesh{
			Points:    []r3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}},
			Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
		}
		dadj, err := ComputeAdjacencies(D.Triangles)
		require.NoError(t, err)
		dd, _ := MarkDirichlet(D, dadj, nil)
		_, err = AssembleSystem(D, dadj, dd, 1)
		assert.ErrorIs(t, err, ErrDegenerate)
	}
	{ // Nothing to assemble
		_, err = AssembleSystem(&mesh.TriMesh{}, &Adjacency{}, nil, 1)
		assert.ErrorIs(t, err, ErrNoInteriorEdges)
	}
}
