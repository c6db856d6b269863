package pointcluster

// Labels assigns a group label to each of points, following the order of
// Representatives: the group of the first representative is 0, the next 1,
// and so on. Points that are not a member of any group get -1.
func (c Clusters) Labels(points []Point) []int {
	reps := c.Representatives()
	byPoint := make(map[Point]int, c.Size())
	for label, rep := range reps {
		for _, p := range c[rep] {
			byPoint[p] = label
		}
	}

	labels := make([]int, len(points))
	for i, p := range points {
		label, ok := byPoint[p]
		if !ok {
			label = -1
		}
		labels[i] = label
	}
	return labels
}

// Group returns the representative whose group contains p.
func (c Clusters) Group(p Point) (Point, bool) {
	for rep, members := range c {
		for _, m := range members {
			if m == p {
				return rep, true
			}
		}
	}
	return Point{}, false
}
