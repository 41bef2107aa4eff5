package crossfield

import (
	"log/slog"

	"github.com/notargets/gocross/mesh"
	"github.com/notargets/gocross/types"
)

// EdgeIndex maps the sorted endpoint pair of every unique edge to its id
func EdgeIndex(adj *Adjacency) (index map[types.EdgeKey]int) {
	index = make(map[types.EdgeKey]int, len(adj.Edges))
	for e, edge := range adj.Edges {
		index[types.NewEdgeKey(edge)] = e
	}
	return
}

/*
MarkDirichlet flags the edges whose cross is fixed: every edge without exactly two incident triangles
(boundary and non-manifold edges) and every edge carrying one of the mesh lines.
Lines that are not edges of the triangulation are ignored with a warning.
*/
func MarkDirichlet(M *mesh.TriMesh, adj *Adjacency, logger *slog.Logger) (dirichlet []bool, nbc int) {
	var (
		index = EdgeIndex(adj)
	)
	if logger == nil {
		logger = newNopLogger()
	}
	dirichlet = make([]bool, adj.NumEdges())
	for e := range adj.Edges {
		if adj.Occurrences(e) != 2 {
			dirichlet[e] = true
			nbc++
		}
	}
	for l, line := range M.Lines {
		e, ok := index[types.NewEdgeKey(line)]
		if !ok {
			logger.Warn("boundary line is not a mesh edge", "line", l, "v1", line[0], "v2", line[1])
			continue
		}
		if !dirichlet[e] {
			dirichlet[e] = true
			nbc++
		}
	}
	return
}

// DirichletValue is the fixed unknown pair, θ = 0 so (cos 4θ, sin 4θ) = (1, 0)
var DirichletValue = [2]float64{1, 0}
