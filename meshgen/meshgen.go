/*
Package meshgen builds in-memory mesh sources: a split structured grid, a planar Delaunay triangulation
of a point cloud and a closed sphere from the convex hull of points spread over the unit sphere.
Vertex ids are one based, following the Gmsh node tags.
*/
package meshgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	"github.com/pradeep-pyro/triangle"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/types"
)

const defaultEps = 1e-12

var ErrTooFewPoints = errors.New("meshgen: not enough points")

// Square is an n x n grid over [0,size]^2, every cell split along its diagonal, with its boundary as lines
func Square(n int, size float64) (src *mesh.MemSource, err error) {
	if n < 1 || size <= 0 {
		err = fmt.Errorf("%w: square needs n >= 1 and size > 0, have n = %d, size = %g", ErrTooFewPoints, n, size)
		return
	}
	var (
		id = func(i, j int) int { return j*(n+1) + i + 1 }
		h  = size / float64(n)
	)
	src = &mesh.MemSource{NodeList: make([]mesh.Node, 0, (n+1)*(n+1))}
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			src.NodeList = append(src.NodeList, mesh.Node{ID: id(i, j), X: float64(i) * h, Y: float64(j) * h})
		}
	}
	for k := 0; k < n; k++ {
		src.AddElements(mesh.ElementLine,
			id(k, 0), id(k+1, 0),
			id(n, k), id(n, k+1),
			id(k+1, n), id(k, n),
			id(0, k+1), id(0, k))
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			src.AddElements(mesh.ElementTriangle,
				id(i, j), id(i+1, j), id(i+1, j+1),
				id(i, j), id(i+1, j+1), id(i, j+1))
		}
	}
	return
}

/*
Delaunay triangulates a planar point cloud, the convex hull edges become the boundary lines.
Triangles are oriented counter clockwise.
*/
func Delaunay(points [][2]float64) (src *mesh.MemSource, err error) {
	if len(points) < 3 {
		err = fmt.Errorf("%w: delaunay needs 3 points, have %d", ErrTooFewPoints, len(points))
		return
	}
	var (
		tris  = triangle.Delaunay(points)
		count = make(map[types.EdgeKey]int)
		dir   = make(map[types.EdgeKey][2]int)
	)
	if len(tris) == 0 {
		err = fmt.Errorf("%w: no triangle out of %d points, are they collinear?", ErrTooFewPoints, len(points))
		return
	}
	src = &mesh.MemSource{NodeList: make([]mesh.Node, len(points))}
	for i, p := range points {
		src.NodeList[i] = mesh.Node{ID: i + 1, X: p[0], Y: p[1]}
	}
	ids := make([]int, 0, 3*len(tris))
	for _, t := range tris {
		v := [3]int{int(t[0]), int(t[1]), int(t[2])}
		a, b, c := points[v[0]], points[v[1]], points[v[2]]
		if (b[0]-a[0])*(c[1]-a[1])-(b[1]-a[1])*(c[0]-a[0]) < 0 {
			v[1], v[2] = v[2], v[1]
		}
		for k := 0; k < 3; k++ {
			edge := [2]int{v[k] + 1, v[(k+1)%3] + 1}
			key := types.NewEdgeKey(edge)
			count[key]++
			dir[key] = edge
		}
		ids = append(ids, v[0]+1, v[1]+1, v[2]+1)
	}
	// hull edges keep the counter clockwise direction of their only triangle
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			key := types.NewEdgeKey([2]int{int(t[k]) + 1, int(t[(k+1)%3]) + 1})
			if count[key] == 1 {
				e := dir[key]
				src.AddElements(mesh.ElementLine, e[0], e[1])
				count[key] = 0
			}
		}
	}
	src.AddElements(mesh.ElementTriangle, ids...)
	return
}

// RandomSquarePoints returns the four corners of [0,size]^2 followed by n pseudo random inner points
func RandomSquarePoints(n int, size float64, seed uint64) (points [][2]float64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	points = [][2]float64{{0, 0}, {size, 0}, {size, size}, {0, size}}
	for i := 0; i < n; i++ {
		points = append(points, [2]float64{size * (0.05 + 0.9*rng.Float64()), size * (0.05 + 0.9*rng.Float64())})
	}
	return
}

// FibonacciSphere spreads n points evenly over the unit sphere
func FibonacciSphere(n int) (points []r3.Vector) {
	var (
		golden = math.Pi * (3 - math.Sqrt(5))
	)
	points = make([]r3.Vector, n)
	for i := range points {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		points[i] = r3.Vector{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
	}
	return
}

// Sphere is the closed triangulated unit sphere over n points, triangles are oriented outwards
func Sphere(n int) (src *mesh.MemSource, err error) {
	if n < 4 {
		err = fmt.Errorf("%w: sphere needs 4 points, have %d", ErrTooFewPoints, n)
		return
	}
	var (
		points = FibonacciSphere(n)
		qh     = new(quickhull.QuickHull)
		ch     = qh.ConvexHull(points, true, true, defaultEps)
	)
	if len(ch.Indices) != 3*2*(n-2) {
		err = fmt.Errorf("meshgen: inconsistent number of indices returned from QuickHull, have %d want %d",
			len(ch.Indices), 3*2*(n-2))
		return
	}
	src = &mesh.MemSource{NodeList: make([]mesh.Node, n)}
	for i, p := range points {
		src.NodeList[i] = mesh.Node{ID: i + 1, X: p.X, Y: p.Y, Z: p.Z}
	}
	ids := make([]int, 0, len(ch.Indices))
	for i := 0; i < len(ch.Indices); i += 3 {
		t := [3]int{ch.Indices[i], ch.Indices[i+1], ch.Indices[i+2]}
		p0, p1, p2 := points[t[0]], points[t[1]], points[t[2]]
		if p1.Sub(p0).Cross(p2.Sub(p0)).Dot(p0) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		ids = append(ids, t[0]+1, t[1]+1, t[2]+1)
	}
	src.AddElements(mesh.ElementTriangle, ids...)
	return
}
