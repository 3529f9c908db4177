package instance

import "errors"

// Sentinel errors for instance construction, all surfacing to the HTTP
// boundary as the InvalidInstance error kind. The API boundary wraps them
// with a "loading instance" prefix; they carry no route id, segment index
// or matrix dimension.
var (
	// ErrMissingReference indicates a route, location, depot, or vehicle
	// type id referenced by another entity does not exist.
	ErrMissingReference = errors.New("instance: referenced id does not exist")

	// ErrInconsistentRoute indicates a route's segment chain has an origin
	// that does not equal the previous segment's destination.
	ErrInconsistentRoute = errors.New("instance: route segments do not chain origin-to-destination")

	// ErrSegmentCountMismatch indicates a departure's per-segment data does
	// not match its route's segment count.
	ErrSegmentCountMismatch = errors.New("instance: departure segment count does not match route")

	// ErrMatrixShape indicates the dead-head matrix is not N×N over the
	// declared location index.
	ErrMatrixShape = errors.New("instance: dead-head matrix is not square over declared locations")
)
