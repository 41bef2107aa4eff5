package crossfield

import "errors"

var (
	ErrNoInteriorEdges = errors.New("crossfield: no internal edges")
	ErrInvalidEdge     = errors.New("crossfield: edge with an invalid vertex")
	ErrNotInterior     = errors.New("crossfield: edge does not have exactly two incident triangles")
	ErrDegenerate      = errors.New("crossfield: degenerate geometry")
	ErrTopology        = errors.New("crossfield: inconsistent edge topology")
	ErrSolver          = errors.New("crossfield: linear solve failed")
	ErrBadParameter    = errors.New("crossfield: invalid parameter")
)
