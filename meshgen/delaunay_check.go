package meshgen

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/types"
)

// InCircle reports whether d lies strictly inside the circle through a, b and c, in the x/y plane
func InCircle(a, b, c, d r3.Vec) (inside bool) {
	// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
	signBit := math.Signbit((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y))
	var (
		ax, ay = a.X - d.X, a.Y - d.Y
		bx, by = b.X - d.X, b.Y - d.Y
		cx, cy = c.X - d.X, c.Y - d.Y
	)
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	if signBit {
		return det < -eps(a, b, c, d)
	}
	return det > eps(a, b, c, d)
}

// eps scales the determinant tolerance with the fourth power of the point spread, cocircular points are legal
func eps(pts ...r3.Vec) float64 {
	var l float64
	for _, p := range pts[1:] {
		l = math.Max(l, r3.Norm(r3.Sub(p, pts[0])))
	}
	return defaultEps * l * l * l * l
}

/*
NonDelaunayEdges counts the interior edges of a planar mesh that fail the Delaunay test: the vertex
opposite the edge in one triangle lies inside the circumcircle of the other triangle.
Such an edge would be flipped by an edge legalization pass.
*/
func NonDelaunayEdges(M *mesh.TriMesh) (n int) {
	opposite := make(map[types.EdgeKey][]int)
	for _, tri := range M.Triangles {
		for k := 0; k < 3; k++ {
			key := types.NewEdgeKey([2]int{tri[k], tri[(k+1)%3]})
			opposite[key] = append(opposite[key], tri[(k+2)%3])
		}
	}
	for key, opp := range opposite {
		if len(opp) != 2 {
			continue
		}
		var (
			v    = key.GetVertices(false)
			p    = M.Points
			a, b = p[v[0]], p[v[1]]
		)
		if InCircle(a, b, p[opp[0]], p[opp[1]]) {
			n++
		}
	}
	return
}
