package instance

import "github.com/rolling-stock-scheduling/rssched-solver/internal/timeutil"

// DeadHeadTable holds the dense dead-head (empty repositioning) duration
// and distance matrices, indexed by LocationIndex on both axes. Dense is
// fine here: location counts are small and lookups dominate, so O(n²)
// memory buys O(1) access on the hot reachability path.
type DeadHeadTable struct {
	n         int
	durations []timeutil.Duration // row-major n*n
	distances []int64             // row-major n*n, meters
}

// NewDeadHeadTable builds a table from row-major duration and distance
// matrices, both required to be n×n. Returns ErrMatrixShape otherwise.
func NewDeadHeadTable(n int, durations []timeutil.Duration, distances []int64) (DeadHeadTable, error) {
	if len(durations) != n*n || len(distances) != n*n {
		return DeadHeadTable{}, ErrMatrixShape
	}

	return DeadHeadTable{n: n, durations: durations, distances: distances}, nil
}

// Duration returns the dead-head trip duration from location i to j.
func (t DeadHeadTable) Duration(i, j LocationIndex) timeutil.Duration {
	return t.durations[int(i)*t.n+int(j)]
}

// Distance returns the dead-head trip distance (meters) from location i to j.
func (t DeadHeadTable) Distance(i, j LocationIndex) int64 {
	return t.distances[int(i)*t.n+int(j)]
}

// Size returns the matrix dimension (number of locations it covers).
func (t DeadHeadTable) Size() int { return t.n }
