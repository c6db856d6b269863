package pointcluster

// MeanDistance returns the mean distance from rep's members to rep, or 0 if
// rep has no members.
func (c Clusters) MeanDistance(rep Point) float64 {
	members := c[rep]
	if len(members) == 0 {
		return 0
	}
	return SumDistances(rep, members) / float64(len(members))
}

// MeanDistances returns MeanDistance for every representative.
func (c Clusters) MeanDistances() map[Point]float64 {
	result := make(map[Point]float64, len(c))
	for rep := range c {
		result[rep] = c.MeanDistance(rep)
	}
	return result
}

// Cost returns the total distance from every member to its representative.
func (c Clusters) Cost() float64 {
	var cost float64
	for rep, members := range c {
		cost += SumDistances(rep, members)
	}
	return cost
}

// WithinMeanDistance reports whether every group's mean member distance is
// at most maxDistance. It is the sanity check used to accept a clustering.
func (c Clusters) WithinMeanDistance(maxDistance float64) bool {
	for rep := range c {
		if c.MeanDistance(rep) > maxDistance {
			return false
		}
	}
	return true
}
