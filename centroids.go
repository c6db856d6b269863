package pointcluster

import (
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// agglomerator repeatedly merges the closest sampled pair of nodes of an
// index into their centroid until k nodes remain.
type agglomerator struct {
	k          int
	sampleSize int
	src        rand.Source
	log        zerolog.Logger

	// scratch buffers reused across steps
	nodes []*Node
	idxs  []int
}

func newAgglomerator(cfg *Config) *agglomerator {
	return &agglomerator{
		k:          cfg.K,
		sampleSize: cfg.SampleSize,
		src:        cfg.Source,
		log:        cfg.Logger,
	}
}

// reduce merges nodes of ix until at most k remain and returns the
// surviving nodes in ascending key order.
func (a *agglomerator) reduce(ix *PointIndex) []*Node {
	merges := 0
	for ix.Len() > a.k {
		if !a.step(ix) {
			break
		}
		merges++
	}
	a.log.Debug().Int("merges", merges).Int("remaining", ix.Len()).Msg("agglomeration finished")
	return ix.AppendNodes(nil)
}

// step performs a single merge. It reports false if no pair could be found.
func (a *agglomerator) step(ix *PointIndex) bool {
	a.nodes = ix.AppendNodes(a.nodes[:0])
	n := min(a.sampleSize, len(a.nodes))
	if n < 1 {
		return false
	}
	if cap(a.idxs) < n {
		a.idxs = make([]int, n)
	}
	idxs := a.idxs[:n]
	sampleuv.WithoutReplacement(idxs, len(a.nodes), a.src)

	// The sampled node whose neighbor is closest wins; earlier samples win
	// ties.
	var first, second *Node
	bestDist := math.Inf(1)
	for _, i := range idxs {
		node := a.nodes[i]
		other, ok := ix.NearestOther(node.Key)
		if !ok {
			continue
		}
		if d := node.Key.Distance(other.Key); first == nil || d < bestDist {
			first, second, bestDist = node, other, d
		}
	}
	if first == nil {
		return false
	}

	aKey, bKey := first.Key, second.Key
	members := make([]Point, 0, len(first.Members)+len(second.Members))
	members = append(members, first.Members...)
	members = append(members, second.Members...)
	centroid := Centroid(members)

	ix.Remove(aKey)
	ix.Remove(bKey)
	insertMerging(ix, centroid, members)

	if e := a.log.Trace(); e.Enabled() {
		e.Float64("ax", aKey.X).Float64("ay", aKey.Y).
			Float64("bx", bKey.X).Float64("by", bKey.Y).
			Float64("distance", bestDist).Int("members", len(members)).
			Msg("merged pair")
	}
	return true
}

// insertMerging inserts key with members, or appends members to the payload
// of the node already holding key.
func insertMerging(ix *PointIndex, key Point, members []Point) {
	if node, inserted := ix.InsertMembers(key, members); !inserted {
		node.Members = append(node.Members, members...)
	}
}

// Agglomerate reduces the nodes of ix to cfg.K by repeatedly sampling
// nodes, taking the sampled node with the closest neighbor, and replacing
// the pair with the centroid of their combined members. ix is modified in
// place. The result maps each remaining centroid to its members.
func Agglomerate(ix *PointIndex, cfg Config) (Clusters, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if err := checkInput(ix.Len(), cfg.K); err != nil {
		return nil, err
	}
	if err := checkFinite(ix.Keys()); err != nil {
		return nil, err
	}
	return clustersFromNodes(newAgglomerator(&cfg).reduce(ix)), nil
}

// ClusterCentroids groups points around at most cfg.K synthesized
// centroids.
//
// The distinct points are split into contiguous chunks of n/K points, each
// chunk is agglomerated to K centroids, and the pooled chunk centroids are
// agglomerated again to K. Finally every distinct point is assigned to its
// nearest final centroid; centroids that attract no point are dropped.
func ClusterCentroids(points []Point, cfg Config) (*Result, error) {
	cfg.Method = MethodCentroids
	uniq, err := prepare(points, &cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Method:   MethodCentroids,
		Clusters: clusterCentroids(uniq, &cfg),
	}, nil
}

// clusterCentroids runs the two-phase procedure over distinct points.
func clusterCentroids(uniq []Point, cfg *Config) Clusters {
	agg := newAgglomerator(cfg)

	chunks := chunkBounds(len(uniq), cfg.K)
	cfg.Logger.Debug().Int("points", len(uniq)).Int("chunks", len(chunks)).Int("k", cfg.K).Msg("centroid clustering")

	pool := NewPointIndex()
	for _, b := range chunks {
		for _, node := range agg.reduce(indexPoints(uniq[b[0]:b[1]])) {
			insertMerging(pool, node.Key, node.Members)
		}
	}

	centroids := NewPointIndex()
	for _, node := range agg.reduce(pool) {
		centroids.InsertMembers(node.Key, nil)
	}
	return assignNearest(centroids, uniq)
}

// assignNearest assigns every point to the nearest key of reps and returns
// the non-empty groups. Members already held by reps are discarded.
func assignNearest(reps *PointIndex, points []Point) Clusters {
	for node := range reps.All() {
		node.Members = nil
	}
	for _, p := range points {
		if node, ok := reps.Nearest(p); ok {
			node.Members = append(node.Members, p)
		}
	}

	c := make(Clusters, reps.Len())
	for node := range reps.All() {
		if len(node.Members) > 0 {
			c[node.Key] = node.Members
		}
	}
	return c
}
