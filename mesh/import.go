package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Import pulls the vertices, lines and triangles of src into a TriMesh, other element types are ignored.
// Vertex ids index the point table directly, so the table is sized to the largest node id.
func Import(src Source) (M *TriMesh, err error) {
	var (
		nodes  []Node
		blocks []ElementBlock
	)
	if nodes, err = src.Nodes(); err != nil {
		err = fmt.Errorf("mesh import, nodes: %w", err)
		return
	}
	if blocks, err = src.Elements(); err != nil {
		err = fmt.Errorf("mesh import, elements: %w", err)
		return
	}
	M = &TriMesh{
		Points: make([]r3.Vec, len(nodes)),
	}
	for _, n := range nodes {
		if n.ID < 0 {
			err = fmt.Errorf("%w: negative node id %d", ErrInvalidVertex, n.ID)
			return nil, err
		}
		if n.ID >= len(M.Points) {
			M.Points = append(M.Points, make([]r3.Vec, n.ID+1-len(M.Points))...)
		}
		M.Points[n.ID] = r3.Vec{X: n.X, Y: n.Y, Z: n.Z}
	}
	valid := func(v int) bool { return v >= 0 && v < len(M.Points) }
	for _, b := range blocks {
		if b.Type != ElementLine && b.Type != ElementTriangle {
			continue
		}
		np := b.Type.NodesPerElement()
		if len(b.NodeIDs)%np != 0 {
			err = fmt.Errorf("%w: %s block with %d node ids", ErrMalformedElements, b.Type, len(b.NodeIDs))
			return nil, err
		}
		for j := 0; j < len(b.NodeIDs); j += np {
			for _, v := range b.NodeIDs[j : j+np] {
				if !valid(v) {
					err = fmt.Errorf("%w: %s %d refers to vertex %d, have %d points",
						ErrInvalidVertex, b.Type, j/np, v, len(M.Points))
					return nil, err
				}
			}
			switch b.Type {
			case ElementLine:
				M.Lines = append(M.Lines, [2]int{b.NodeIDs[j], b.NodeIDs[j+1]})
			case ElementTriangle:
				M.Triangles = append(M.Triangles, [3]int{b.NodeIDs[j], b.NodeIDs[j+1], b.NodeIDs[j+2]})
			}
		}
	}
	return
}
