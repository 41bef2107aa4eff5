package crossfield

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/utils"
)

const EPS = utils.ZEROTOL

// angleNVectors is the angle between two unit vectors, in [0, π]
func angleNVectors(a, b r3.Vec) float64 {
	return math.Acos(math.Max(-1, math.Min(1, r3.Dot(a, b))))
}

/*
EdgeStencil is the local Crouzeix-Raviart stencil of an interior edge: its four neighbor edges
(the two other edges of each incident triangle), the rotation angle from each neighbor edge to the
local frame of the edge, and the normalized weights which sum to -1.
*/
type EdgeStencil struct {
	Edge      int
	Neighbors [4]int
	Alpha     [4]float64 // in [0, 2π)
	Weight    [4]float64
}

func ComputeStencil(M *mesh.TriMesh, e int, adj *Adjacency) (st EdgeStencil, err error) {
	if adj.Occurrences(e) != 2 {
		err = fmt.Errorf("%w: edge %d has occurrences %v", ErrNotInterior, e, adj.EdgeToOld[e])
		return
	}
	var (
		v1, v2 = adj.Edges[e][0], adj.Edges[e][1]
		e_x    = M.Edge(v1, v2)
		lenr   = r3.Norm(e_x)
		prevN  r3.Vec
	)
	st.Edge = e
	if lenr < EPS {
		err = fmt.Errorf("%w: edge too small: v1=%d, v2=%d, length = %g", ErrDegenerate, v1, v2, lenr)
		return
	}
	e_x = r3.Scale(1./lenr, e_x)
	for s := 0; s < 2; s++ { // two triangles
		t, le := OccurrenceTriangle(adj.EdgeToOld[e][s])
		N, nerr := M.TriangleNormal(t)
		if nerr != nil {
			err = fmt.Errorf("%w: %v", ErrDegenerate, nerr)
			return
		}
		if s == 1 && r3.Dot(prevN, N) < 0 {
			N = r3.Scale(-1, N)
		}
		prevN = N
		e_y := r3.Cross(N, e_x)
		if l := r3.Norm(e_y); l < EPS {
			err = fmt.Errorf("%w: length(e_y) = %g", ErrDegenerate, l)
			return
		}
		e_y = r3.Unit(e_y)

		for k := 0; k < 2; k++ { // two other edges in triangle t
			var (
				ae    = adj.OldToEdge[NBF*t+(le+1+k)%NBF]
				aedge = adj.Edges[ae]
				edg   = M.Edge(aedge[0], aedge[1])
				lena  = r3.Norm(edg)
				n     = 2*s + k
			)
			st.Neighbors[n] = ae
			if lena < EPS {
				err = fmt.Errorf("%w: edge too small: t=%d, k=%d, length = %g", ErrDegenerate, t, k, lena)
				return
			}
			edg = r3.Scale(1./lena, edg)

			// 360deg angle, used for the rotation
			st.Alpha[n] = math.Atan2(r3.Dot(edg, e_y), r3.Dot(edg, e_x))
			if st.Alpha[n] < 0 {
				st.Alpha[n] += 2 * math.Pi
			}

			// 180deg edge-edge angle at the shared vertex, used for the Crouzeix-Raviart weight
			var agl float64
			switch {
			case aedge[0] == v1:
				agl = angleNVectors(edg, e_x)
			case aedge[1] == v1:
				agl = angleNVectors(edg, r3.Scale(-1, e_x))
			case aedge[0] == v2:
				agl = angleNVectors(r3.Scale(-1, edg), e_x)
			case aedge[1] == v2:
				agl = angleNVectors(r3.Scale(-1, edg), r3.Scale(-1, e_x))
			default:
				err = fmt.Errorf("%w: edge %d and neighbor %d share no vertex", ErrTopology, e, ae)
				return
			}
			st.Weight[n] = -2. / math.Tan(agl)
		}
	}
	isum := -(st.Weight[0] + st.Weight[1] + st.Weight[2] + st.Weight[3])
	if math.Abs(isum) < EPS || math.IsNaN(isum) || math.IsInf(isum, 0) {
		err = fmt.Errorf("%w: edge %d, Crouzeix-Raviart weights sum to %g", ErrDegenerate, e, -isum)
		return
	}
	for k := range st.Weight {
		st.Weight[k] /= isum
	}
	return
}

/*
StiffnessCoefficients returns the stiffness row pair of interior edge e on the unknowns (x_2e, x_2e+1):
a unit diagonal and, for each neighbor edge, the weight times the rotation by 4α.
*/
func StiffnessCoefficients(M *mesh.TriMesh, e int, adj *Adjacency) (iv []utils.IV, ijv []utils.IJV, err error) {
	var (
		st       EdgeStencil
		x_i, y_i = 2 * e, 2*e + 1
	)
	if st, err = ComputeStencil(M, e, adj); err != nil {
		return
	}
	iv = []utils.IV{{I: x_i, Val: 1.}, {I: y_i, Val: 1.}}
	ijv = make([]utils.IJV, 0, 16)
	for j := 0; j < 4; j++ {
		var (
			x_j, y_j = 2 * st.Neighbors[j], 2*st.Neighbors[j] + 1
			w        = st.Weight[j]
			c, s     = math.Cos(4 * st.Alpha[j]), math.Sin(4 * st.Alpha[j])
		)
		ijv = append(ijv,
			utils.IJV{I: x_i, J: x_j, Val: w * c},
			utils.IJV{I: x_i, J: y_j, Val: -w * s},
			utils.IJV{I: y_i, J: x_j, Val: w * s},
			utils.IJV{I: y_i, J: y_j, Val: w * c},
		)
	}
	return
}
