package mesh

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

const EPS = 1.e-14 // to detect 0

var (
	ErrInvalidVertex     = errors.New("mesh: element references an unknown vertex")
	ErrMalformedElements = errors.New("mesh: element node list does not match element type")
	ErrDegenerate        = errors.New("mesh: degenerate triangle")
)

// ElementType follows the Gmsh element numbering
type ElementType int

const (
	ElementLine     ElementType = 1
	ElementTriangle ElementType = 2
	ElementQuad     ElementType = 3
	ElementTet      ElementType = 4
	ElementPoint    ElementType = 15
)

// NodesPerElement returns the vertex count for the element types we know, 0 otherwise
func (et ElementType) NodesPerElement() int {
	switch et {
	case ElementLine:
		return 2
	case ElementTriangle:
		return 3
	case ElementQuad, ElementTet:
		return 4
	case ElementPoint:
		return 1
	}
	return 0
}

func (et ElementType) String() string {
	switch et {
	case ElementLine:
		return "Line"
	case ElementTriangle:
		return "Triangle"
	case ElementQuad:
		return "Quad"
	case ElementTet:
		return "Tet"
	case ElementPoint:
		return "Point"
	}
	return fmt.Sprintf("ElementType(%d)", int(et))
}

type Node struct {
	ID      int
	X, Y, Z float64
}

// ElementBlock holds all elements of one type, NodeIDs is flat with NodesPerElement entries per element
type ElementBlock struct {
	Type    ElementType
	NodeIDs []int
}

func (eb ElementBlock) Len() int {
	np := eb.Type.NodesPerElement()
	if np == 0 {
		return 0
	}
	return len(eb.NodeIDs) / np
}

// Source is the mesh query collaborator the cross field pulls its vertex/line/triangle soup from.
type Source interface {
	Nodes() ([]Node, error)
	Elements() ([]ElementBlock, error)
}

// MemSource is an in-memory Source, produced by the file readers and the generators
type MemSource struct {
	NodeList []Node
	Blocks   []ElementBlock
}

func (ms *MemSource) Nodes() ([]Node, error)            { return ms.NodeList, nil }
func (ms *MemSource) Elements() ([]ElementBlock, error) { return ms.Blocks, nil }

// AddElements appends to the block of the given type, creating it on first use
func (ms *MemSource) AddElements(et ElementType, nodeIDs ...int) {
	for i := range ms.Blocks {
		if ms.Blocks[i].Type == et {
			ms.Blocks[i].NodeIDs = append(ms.Blocks[i].NodeIDs, nodeIDs...)
			return
		}
	}
	ms.Blocks = append(ms.Blocks, ElementBlock{Type: et, NodeIDs: append([]int(nil), nodeIDs...)})
}

/*
TriMesh is the local indexed surface mesh.
Points are indexed by vertex id, TriangleNeighbors[t][k] refers to the edge from local vertex k to local
vertex (k+1)%3 and is filled by the adjacency builder.
*/
type TriMesh struct {
	Points               []r3.Vec
	Lines                [][2]int
	Triangles            [][3]int
	TriangleNeighbors    [][3]int
	NonManifoldNeighbors [][]int
}

func (m *TriMesh) Edge(v1, v2 int) r3.Vec { return r3.Sub(m.Points[v2], m.Points[v1]) }

func (m *TriMesh) EdgeLength(v1, v2 int) float64 { return r3.Norm(m.Edge(v1, v2)) }

func (m *TriMesh) Midpoint(v1, v2 int) r3.Vec {
	return r3.Scale(0.5, r3.Add(m.Points[v1], m.Points[v2]))
}

func (m *TriMesh) triangleCross(t int) r3.Vec {
	var (
		tri = m.Triangles[t]
	)
	return r3.Cross(r3.Sub(m.Points[tri[2]], m.Points[tri[0]]), r3.Sub(m.Points[tri[1]], m.Points[tri[0]]))
}

func (m *TriMesh) TriangleArea(t int) float64 { return r3.Norm(m.triangleCross(t)) / 2. }

func (m *TriMesh) TriangleNormal(t int) (N r3.Vec, err error) {
	N = m.triangleCross(t)
	if l := r3.Norm(N); l < EPS {
		err = fmt.Errorf("%w: triangle %d: normal too small, length = %g", ErrDegenerate, t, l)
		return
	}
	N = r3.Unit(N)
	return
}
