package pointcluster

import "slices"

// Clusters maps each representative point to the points assigned to it.
type Clusters map[Point][]Point

// Representatives returns the group keys in ascending order.
func (c Clusters) Representatives() []Point {
	reps := make([]Point, 0, len(c))
	for p := range c {
		reps = append(reps, p)
	}
	slices.SortFunc(reps, Point.Compare)
	return reps
}

// Len returns the number of groups.
func (c Clusters) Len() int { return len(c) }

// Size returns the total number of member points across all groups.
func (c Clusters) Size() int {
	var n int
	for _, members := range c {
		n += len(members)
	}
	return n
}

// Result contains the output of a clustering run.
type Result struct {
	// Method is the strategy that produced the result.
	Method Method

	// Clusters maps representatives to their members. Every distinct input
	// point appears in exactly one group.
	Clusters Clusters

	// Refinements holds one record per chunk for MethodMedoids, in chunk
	// order. Nil for MethodCentroids.
	Refinements []Refinement
}

// Converged reports whether every medoid refinement stopped on a
// non-improving step rather than by running out of iterations. It is always
// true for MethodCentroids.
func (r *Result) Converged() bool {
	for _, ref := range r.Refinements {
		if !ref.Converged {
			return false
		}
	}
	return true
}

// Refinement describes the outcome of one medoid refinement run.
type Refinement struct {
	// Medoids is the adopted medoid set.
	Medoids []Point

	// Cost is the sum of member-to-medoid distances for Medoids.
	Cost float64

	// Costs is the history of adopted costs, starting with the initial
	// random medoids. It is strictly decreasing.
	Costs []float64

	// Iterations is the number of refinement passes that were run.
	Iterations int

	// Converged is true when refinement stopped because a pass failed to
	// lower the cost, and false when MaxIterations ran out first.
	Converged bool
}

func clustersFromNodes(nodes []*Node) Clusters {
	c := make(Clusters, len(nodes))
	for _, n := range nodes {
		c[n.Key] = n.Members
	}
	return c
}
