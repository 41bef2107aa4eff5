package types

import (
	"fmt"
	"math"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// EdgePair is a directed vertex pair, used as the key of the edge to angle map.
type EdgePair [2]int

func Sorted(v1, v2 int) EdgePair {
	if v1 < v2 {
		return EdgePair{v1, v2}
	}
	return EdgePair{v2, v1}
}

func (ep EdgePair) Reverse() EdgePair { return EdgePair{ep[1], ep[0]} }

func (ep EdgePair) Key() EdgeKey { return NewEdgeKey(ep) }

// EdgeClass is the topological class of a unique edge, from its number of incident triangles
type EdgeClass uint8

const (
	EdgeBoundary EdgeClass = iota
	EdgeRegular
	EdgeNonManifold
)

func ClassifyEdge(occurrences int) EdgeClass {
	switch {
	case occurrences <= 1:
		return EdgeBoundary
	case occurrences == 2:
		return EdgeRegular
	default:
		return EdgeNonManifold
	}
}

func (ec EdgeClass) String() string {
	return [...]string{"Boundary", "Regular", "NonManifold"}[ec]
}
