package crossfield

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocross/mesh"
)

// unitSquareMesh uses one based vertex ids, point 0 is unused
func unitSquareMesh() *mesh.TriMesh {
	return &mesh.TriMesh{
		Points:    []r3.Vec{{}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Lines:     [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}},
		Triangles: [][3]int{{1, 2, 3}, {1, 3, 4}},
	}
}

// gridMesh is an n x n split square grid on [0,1]^2 rotated by phi about the origin, with boundary lines
func gridMesh(n int, phi float64) *mesh.TriMesh {
	var (
		M    = &mesh.TriMesh{}
		id   = func(i, j int) int { return j*(n+1) + i }
		h    = 1. / float64(n)
		c, s = math.Cos(phi), math.Sin(phi)
	)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			x, y := float64(i)*h, float64(j)*h
			M.Points = append(M.Points, r3.Vec{X: c*x - s*y, Y: s*x + c*y})
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			M.Triangles = append(M.Triangles,
				[3]int{id(i, j), id(i+1, j), id(i+1, j+1)},
				[3]int{id(i, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	for k := 0; k < n; k++ {
		M.Lines = append(M.Lines,
			[2]int{id(k, 0), id(k+1, 0)},
			[2]int{id(n, k), id(n, k+1)},
			[2]int{id(k+1, n), id(k, n)},
			[2]int{id(0, k+1), id(0, k)})
	}
	return M
}

// tetrahedron is a closed surface, every edge has two incident triangles
func tetrahedron() *mesh.TriMesh {
	return &mesh.TriMesh{
		Points: []r3.Vec{
			{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1},
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 3, 1}, {1, 3, 2}, {0, 2, 3}},
	}
}
