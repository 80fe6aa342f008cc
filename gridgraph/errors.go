package gridgraph

import "errors"

var (
	// ErrEmptyGrid indicates the input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("gridgraph: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("gridgraph: all rows must have the same length")
	// ErrBadMask indicates an obstacle mask whose length is not Width×Height.
	ErrBadMask = errors.New("gridgraph: obstacle mask length must equal width*height")
	// ErrBadMapHeader indicates a malformed map file header.
	ErrBadMapHeader = errors.New("gridgraph: malformed map header")
	// ErrLocation indicates a location that is out of range or obstructed.
	ErrLocation = errors.New("gridgraph: location out of range or obstructed")
)
