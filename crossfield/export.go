package crossfield

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/types"
)

// EncodeAngle maps a cross angle, defined modulo π/2, to its doubled angle representation
func EncodeAngle(theta float64) (x, y float64) {
	return math.Cos(4 * theta), math.Sin(4 * theta)
}

// DecodeAngle undoes EncodeAngle, returning θ in (-π/4, π/4], or 0 for a vanishing pair
func DecodeAngle(x, y float64) (theta float64) {
	l := math.Hypot(x, y)
	if l <= EPS {
		return 0
	}
	return 1. / 4 * math.Atan2(y/l, x/l)
}

// EdgeAngles returns the cross angle of every unique edge, keyed by its sorted vertex pair.
// The angle is measured from the edge direction v1->v2 in the plane of its incident triangles.
func EdgeAngles(adj *Adjacency, x []float64) (angles map[types.EdgePair]float64) {
	angles = make(map[types.EdgePair]float64, adj.NumEdges())
	for e, edge := range adj.Edges {
		angles[types.EdgePair(edge)] = DecodeAngle(x[2*e], x[2*e+1])
	}
	return
}

// EdgeNormal is the normal of the first incident triangle, averaged with the second one for regular edges
func EdgeNormal(M *mesh.TriMesh, adj *Adjacency, e int) (N r3.Vec, err error) {
	var (
		occ = adj.EdgeToOld[e]
		N2  r3.Vec
	)
	t, _ := OccurrenceTriangle(occ[0])
	if N, err = M.TriangleNormal(t); err != nil {
		return
	}
	if len(occ) == 2 {
		t2, _ := OccurrenceTriangle(occ[1])
		if N2, err = M.TriangleNormal(t2); err != nil {
			return
		}
		N = r3.Scale(0.5, r3.Add(N, N2))
	}
	return
}

/*
CrossVectors returns the two branches of the cross of edge e, scaled by the norm of its unknown pair,
and ok is false when the pair vanishes. The first branch is rotated by θ from the edge direction
towards N x edge, the second is N x first.
*/
func CrossVectors(M *mesh.TriMesh, adj *Adjacency, e int, x []float64) (cross1, cross2 r3.Vec, ok bool, err error) {
	var (
		N    r3.Vec
		edge = adj.Edges[e]
		l    = math.Hypot(x[2*e], x[2*e+1])
	)
	if l <= EPS {
		return
	}
	if N, err = EdgeNormal(M, adj, e); err != nil {
		return
	}
	var (
		edg   = r3.Unit(M.Edge(edge[0], edge[1]))
		edgo  = r3.Unit(r3.Cross(N, edg))
		theta = DecodeAngle(x[2*e], x[2*e+1])
	)
	cross1 = r3.Scale(l, r3.Add(r3.Scale(math.Cos(theta), edg), r3.Scale(math.Sin(theta), edgo)))
	cross2 = r3.Cross(N, cross1)
	ok = true
	return
}

/*
BuildCrossViews creates the view with two cross branches per edge at the edge midpoints, and the
planar representation view "<name>_rep_planar": at each vertex the average over its edges of
(cos 4φ, sin 4φ, 0), φ being the angle of the cross in the global x/y frame. The representation is
only meaningful for planar meshes in the z = const plane.
*/
func BuildCrossViews(name string, M *mesh.TriMesh, adj *Adjacency, x []float64) (cross, rep *View, err error) {
	var (
		vertAvg = make([]r3.Vec, len(M.Points))
		vsum    = make([]float64, len(M.Points))
		repEx   = r3.Vec{X: 1}
		repEy   = r3.Vec{Y: 1}
	)
	cross = &View{Name: name}
	rep = &View{Name: name + "_rep_planar"}
	for e, edge := range adj.Edges {
		var (
			c1, c2 r3.Vec
			ok     bool
		)
		if c1, c2, ok, err = CrossVectors(M, adj, e, x); err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		p := M.Midpoint(edge[0], edge[1])
		cross.Add(p, c1)
		cross.Add(p, c2)

		cr1 := r3.Unit(c1)
		repTheta := math.Atan2(r3.Dot(cr1, repEy), r3.Dot(cr1, repEx))
		vrep := r3.Add(r3.Scale(math.Cos(4*repTheta), repEx), r3.Scale(math.Sin(4*repTheta), repEy))
		for _, v := range edge {
			vsum[v] += 1.
			vertAvg[v] = r3.Add(vertAvg[v], vrep)
		}
	}
	for v, s := range vsum {
		if s > 0 {
			rep.Add(M.Points[v], r3.Scale(1./s, vertAvg[v]))
		}
	}
	return
}
