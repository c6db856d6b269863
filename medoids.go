package pointcluster

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// medoidGroup is one medoid and the non-medoid points assigned to it.
type medoidGroup struct {
	medoid  Point
	members []Point
}

// assignMedoids assigns every point that is not itself a medoid to its
// nearest medoid. Groups are returned in the order of medoids, together with
// the total member-to-medoid distance.
func assignMedoids(points, medoids []Point) ([]medoidGroup, float64) {
	ix := NewPointIndex()
	slot := make(map[Point]int, len(medoids))
	groups := make([]medoidGroup, len(medoids))
	for i, m := range medoids {
		ix.InsertMembers(m, nil)
		slot[m] = i
		groups[i].medoid = m
	}

	var cost float64
	for _, p := range points {
		if _, isMedoid := slot[p]; isMedoid {
			continue
		}
		node, ok := ix.Nearest(p)
		if !ok {
			continue
		}
		g := &groups[slot[node.Key]]
		g.members = append(g.members, p)
		cost += p.Distance(node.Key)
	}
	return groups, cost
}

// realCenter returns the point of the group (medoid included) with the
// smallest sum of distances to the rest of the group. The current medoid
// wins ties, and a group without members keeps its medoid.
func realCenter(g medoidGroup) Point {
	best := g.medoid
	bestSum := SumDistances(g.medoid, g.members)
	for _, candidate := range g.members {
		sum := SumDistances(candidate, g.members) + candidate.Distance(g.medoid)
		if sum < bestSum {
			best, bestSum = candidate, sum
		}
	}
	return best
}

func updateMedoids(groups []medoidGroup) []Point {
	medoids := make([]Point, len(groups))
	for i, g := range groups {
		medoids[i] = realCenter(g)
	}
	return medoids
}

// sample returns k distinct elements of pool chosen uniformly at random.
func sample(pool []Point, k int, src rand.Source) []Point {
	idxs := make([]int, k)
	sampleuv.WithoutReplacement(idxs, len(pool), src)
	out := make([]Point, k)
	for i, idx := range idxs {
		out[i] = pool[idx]
	}
	return out
}

// refine runs partition-around-medoids refinement over distinct points.
// Initial medoids are drawn from candidates when non-empty, else from
// points; k is clamped to the size of that pool.
func refine(points, candidates []Point, k, maxIterations int, src rand.Source) Refinement {
	pool := points
	if len(candidates) > 0 {
		pool = candidates
	}
	medoids := sample(pool, min(k, len(pool)), src)
	groups, cost := assignMedoids(points, medoids)

	r := Refinement{Costs: []float64{cost}}
	for r.Iterations < maxIterations {
		r.Iterations++

		next := updateMedoids(groups)
		nextGroups, nextCost := assignMedoids(points, next)
		if nextCost >= cost {
			r.Converged = true
			break
		}
		medoids, groups, cost = next, nextGroups, nextCost
		r.Costs = append(r.Costs, cost)
	}

	r.Medoids = medoids
	r.Cost = cost
	return r
}

// RefineMedoids runs medoid refinement on points with cfg.K medoids and at
// most cfg.MaxIterations passes. Initial medoids are sampled from candidates
// when it is non-empty, otherwise from points. Refinement stops at the first
// pass that does not strictly lower the total member-to-medoid distance.
func RefineMedoids(points, candidates []Point, cfg Config) (*Refinement, error) {
	cfg.Method = MethodMedoids
	uniq, err := prepare(points, &cfg)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(candidates); err != nil {
		return nil, err
	}
	if len(candidates) > 0 && len(Dedupe(candidates)) < cfg.K {
		return nil, fmt.Errorf("pointcluster: K (%d) exceeds the number of distinct candidates: %w", cfg.K, ErrDegenerateInput)
	}

	r := refine(uniq, Dedupe(candidates), cfg.K, cfg.MaxIterations, cfg.Source)
	return &r, nil
}

// ClusterMedoids groups points around at most cfg.K medoids, each of which
// is one of the input points.
//
// The distinct points are split into contiguous chunks of n/K points and
// each chunk is refined independently. The resulting candidate medoids are
// consolidated with the centroid procedure, each centroid is snapped to its
// nearest candidate, and every distinct point is assigned to its nearest
// snapped medoid.
func ClusterMedoids(points []Point, cfg Config) (*Result, error) {
	cfg.Method = MethodMedoids
	uniq, err := prepare(points, &cfg)
	if err != nil {
		return nil, err
	}

	chunks := chunkBounds(len(uniq), cfg.K)
	cfg.Logger.Debug().Int("points", len(uniq)).Int("chunks", len(chunks)).Int("k", cfg.K).Msg("medoid clustering")

	var candidates []Point
	refinements := make([]Refinement, 0, len(chunks))
	for i, b := range chunks {
		r := refine(uniq[b[0]:b[1]], nil, cfg.K, cfg.MaxIterations, cfg.Source)
		cfg.Logger.Debug().Int("chunk", i).Int("iterations", r.Iterations).
			Bool("converged", r.Converged).Float64("cost", r.Cost).Msg("medoid refinement finished")
		refinements = append(refinements, r)
		candidates = append(candidates, r.Medoids...)
	}

	// Chunks are disjoint, so the candidates are distinct and number at
	// least K.
	candidateIx := indexPoints(candidates)
	centroids := clusterCentroids(candidateIx.Keys(), &cfg)

	medoidIx := NewPointIndex()
	for _, c := range centroids.Representatives() {
		if node, ok := candidateIx.Nearest(c); ok {
			medoidIx.InsertMembers(node.Key, nil)
		}
	}
	cfg.Logger.Debug().Int("candidates", candidateIx.Len()).Int("medoids", medoidIx.Len()).Msg("medoids consolidated")

	return &Result{
		Method:      MethodMedoids,
		Clusters:    assignNearest(medoidIx, uniq),
		Refinements: refinements,
	}, nil
}
