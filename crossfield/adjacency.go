/*
Package crossfield computes a cross field (a direction field with 90 degree rotational symmetry) on the
edges of a triangulated surface, by successive heat diffusion and projection of the doubled angle
representation (cos 4θ, sin 4θ) discretized with Crouzeix-Raviart elements.
*/
package crossfield

import (
	"fmt"
	"math"
	"sort"
)

const (
	NBF = 3 // edges per triangle

	NoNeighbor = math.MaxInt // neighbor slot of a boundary edge
	NoVertex   = -1
)

/*
Adjacency is the triangle to triangle connectivity and the unique edge tables.

Occurrences of edges are encoded as 3*triangle + localEdge, local edge k joins local vertices k and (k+1)%3.
TriangleNeighbors[t][k] is the occurrence on the other side of a regular edge, NoNeighbor on a boundary,
and -(pos+1) for a non-manifold edge, where NonManifoldNeighbors[pos] lists the other occurrences.
*/
type Adjacency struct {
	TriangleNeighbors    [][3]int
	NonManifoldNeighbors [][]int
	Edges                [][2]int // unique edges, sorted vertex pairs in ascending order
	OldToEdge            []int    // occurrence -> unique edge
	EdgeToOld            [][]int  // unique edge -> occurrences
}

func (adj *Adjacency) NumEdges() int { return len(adj.Edges) }

func (adj *Adjacency) Occurrences(e int) int { return len(adj.EdgeToOld[e]) }

// OccurrenceTriangle splits an occurrence into triangle and local edge
func OccurrenceTriangle(oe int) (t, le int) { return oe / NBF, oe % NBF }

func ComputeAdjacencies(triangles [][3]int) (adj *Adjacency, err error) {
	var (
		nOld  = NBF * len(triangles)
		faces = make([][2]int, nOld)
	)
	adj = &Adjacency{
		TriangleNeighbors: make([][3]int, len(triangles)),
		OldToEdge:         make([]int, nOld),
	}
	// Store element 'faces', with duplicates for further 'equality test'
	for i, tri := range triangles {
		adj.TriangleNeighbors[i] = [3]int{NoNeighbor, NoNeighbor, NoNeighbor}
		for lf := 0; lf < NBF; lf++ {
			v1, v2 := tri[lf], tri[(lf+1)%NBF]
			if v1 > v2 {
				v1, v2 = v2, v1
			}
			faces[NBF*i+lf] = [2]int{v1, v2}
		}
	}
	// Reduce duplicated faces to unique faces, keeping the old to new mapping
	adj.Edges = sortUniqueWithPerm(faces, adj.OldToEdge)
	adj.EdgeToOld = make([][]int, len(adj.Edges))
	for oe := 0; oe < nOld; oe++ {
		e := adj.OldToEdge[oe]
		adj.EdgeToOld[e] = append(adj.EdgeToOld[e], oe)
	}

	for e, edge := range adj.Edges {
		if edge[0] < 0 || edge[1] < 0 {
			err = fmt.Errorf("%w: edge %d has vertices %v", ErrInvalidEdge, e, edge)
			return nil, err
		}
		occ := adj.EdgeToOld[e]
		switch {
		case len(occ) == 1: // boundary
			t, lf := OccurrenceTriangle(occ[0])
			adj.TriangleNeighbors[t][lf] = NoNeighbor
		case len(occ) == 2: // regular face
			t1, lf1 := OccurrenceTriangle(occ[0])
			t2, lf2 := OccurrenceTriangle(occ[1])
			adj.TriangleNeighbors[t1][lf1] = occ[1]
			adj.TriangleNeighbors[t2][lf2] = occ[0]
		default: // non manifold face
			for _, oe := range occ {
				t, lf := OccurrenceTriangle(oe)
				neighs := make([]int, 0, len(occ)-1)
				for _, other := range occ {
					if other != oe {
						neighs = append(neighs, other)
					}
				}
				pos := len(adj.NonManifoldNeighbors)
				adj.NonManifoldNeighbors = append(adj.NonManifoldNeighbors, neighs)
				adj.TriangleNeighbors[t][lf] = -(pos + 1)
			}
		}
	}
	return
}

// NonManifoldList resolves a negative neighbor slot value into its neighbor list
func (adj *Adjacency) NonManifoldList(slot int) []int {
	if slot >= 0 {
		return nil
	}
	return adj.NonManifoldNeighbors[-slot-1]
}

// sortUniqueWithPerm returns the sorted unique values of in, and fills old2new with the position of each input
func sortUniqueWithPerm(in [][2]int, old2new []int) (uniques [][2]int) {
	var (
		perm = make([]int, len(in))
	)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		pa, pb := in[perm[a]], in[perm[b]]
		return pa[0] < pb[0] || (pa[0] == pb[0] && pa[1] < pb[1])
	})
	for k, p := range perm {
		if k == 0 || in[p] != in[perm[k-1]] {
			uniques = append(uniques, in[p])
		}
		old2new[p] = len(uniques) - 1
	}
	return
}
