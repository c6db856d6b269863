// Package pointcluster groups 2D points into k clusters with two strategies
// built on one AVL-balanced point index.
//
// The index ([PointIndex]) orders points lexicographically (x, then y) and
// supports insertion, removal and nearest-neighbor queries. Each node carries
// a payload of member points, which is how merged and assigned points travel
// through the algorithms.
//
// Basic usage:
//
//	cfg := pointcluster.DefaultConfig(20)
//	cfg.Seed = 42
//	result, err := pointcluster.Cluster(points, cfg)
//	// result.Clusters maps each representative point to its members
//
// # Strategies
//
// [MethodCentroids] (the default) repeatedly merges the closest sampled pair
// of nodes into their centroid until k remain. Large inputs are split into
// chunks, each chunk is reduced to k centroids, and the pooled centroids are
// reduced once more. Representatives are synthesized averages.
//
// [MethodMedoids] refines k medoids per chunk, stopping at the first
// refinement pass that does not lower the total member distance, then
// consolidates the chunk medoids with the centroid procedure and snaps each
// centroid back to the nearest candidate medoid. Representatives are always
// input points.
//
//	cfg.Method = pointcluster.MethodMedoids
//	cfg.MaxIterations = 50
//
// # Duplicates
//
// Points with identical coordinates share one index entry. Clustering runs
// on the distinct points, so a repeated coordinate appears once in the
// result.
//
// # Randomness
//
// All sampling draws from Config.Source, or from a PCG generator seeded with
// Config.Seed. Runs with the same seed and input produce the same result.
package pointcluster
