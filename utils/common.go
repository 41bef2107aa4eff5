package utils

import "errors"

const (
	ZEROTOL = 1.e-14 // values at or below this magnitude are treated as 0
)

var (
	ErrDimension     = errors.New("utils: dimension mismatch")
	ErrSingular      = errors.New("utils: singular system")
	ErrNoConvergence = errors.New("utils: iterative solver did not converge")
	ErrEmptySystem   = errors.New("utils: no coefficients to assemble")
)
