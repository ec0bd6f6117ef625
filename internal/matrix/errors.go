package matrix

import "errors"

// ErrDimensionMismatch reports operand shapes that are incompatible with the
// requested operation. It indicates a caller bug, not bad input data.
var ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

// ErrSingular reports a matrix that cannot be inverted or decomposed. Unlike
// ErrDimensionMismatch this is a legitimate data-dependent failure and callers
// are expected to recover from it.
var ErrSingular = errors.New("matrix: singular matrix")
