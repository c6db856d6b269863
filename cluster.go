package pointcluster

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// Config controls clustering behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// K is the number of groups to produce. Must be in [1, number of
	// distinct input points].
	K int

	// Method selects the clustering strategy. Default: MethodCentroids.
	Method Method

	// MaxIterations bounds the number of medoid refinement passes per chunk.
	// Only used by MethodMedoids. 0 means the default. Default: 100.
	MaxIterations int

	// SampleSize is the number of nodes sampled per agglomeration step when
	// looking for the closest pair. Larger samples find closer pairs at a
	// higher cost per step. 0 means ceil(K/2).
	SampleSize int

	// Seed seeds the PCG generator used when Source is nil.
	Seed uint64

	// Source supplies all randomness (sampling, initial medoids). When nil a
	// PCG source seeded from Seed is used, so runs with the same Seed are
	// reproducible.
	Source rand.Source

	// Logger receives debug and trace events. The zero value discards.
	Logger zerolog.Logger
}

// DefaultConfig returns a Config for k groups with reasonable defaults.
func DefaultConfig(k int) Config {
	return Config{
		K:             k,
		Method:        MethodCentroids,
		MaxIterations: 100,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Method == "" {
		cfg.Method = MethodCentroids
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
	if cfg.SampleSize == 0 {
		cfg.SampleSize = (cfg.K + 1) / 2
	}
	if cfg.Source == nil {
		cfg.Source = rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive
// error if not. It does not look at the input points; see checkInput.
func validateConfig(cfg *Config) error {
	if cfg.K < 1 {
		return fmt.Errorf("pointcluster: K must be >= 1, got %d: %w", cfg.K, ErrDegenerateInput)
	}
	if cfg.MaxIterations < 0 {
		return fmt.Errorf("pointcluster: MaxIterations must be >= 0 (0 means default), got %d: %w", cfg.MaxIterations, ErrInvalidConfig)
	}
	if cfg.SampleSize < 0 {
		return fmt.Errorf("pointcluster: SampleSize must be >= 0 (0 means ceil(K/2)), got %d: %w", cfg.SampleSize, ErrInvalidConfig)
	}
	if _, err := ParseMethod(string(cfg.Method)); err != nil {
		return err
	}
	return nil
}

// checkFinite rejects NaN and infinite coordinates.
func checkFinite(points []Point) error {
	for i, p := range points {
		if !p.IsFinite() {
			return fmt.Errorf("pointcluster: point %d (%v, %v) is not finite: %w", i, p.X, p.Y, ErrDegenerateInput)
		}
	}
	return nil
}

// checkInput rejects inputs that cannot be split into K groups.
// distinct is the number of distinct input points.
func checkInput(distinct, k int) error {
	if distinct == 0 {
		return fmt.Errorf("pointcluster: no points to cluster: %w", ErrDegenerateInput)
	}
	if k > distinct {
		return fmt.Errorf("pointcluster: K (%d) exceeds the number of distinct points (%d): %w", k, distinct, ErrDegenerateInput)
	}
	return nil
}

// prepare applies defaults, validates cfg and deduplicates points.
func prepare(points []Point, cfg *Config) ([]Point, error) {
	applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	// Reject empty input before building anything.
	if len(points) == 0 {
		return nil, checkInput(0, cfg.K)
	}
	if err := checkFinite(points); err != nil {
		return nil, err
	}
	uniq := Dedupe(points)
	if err := checkInput(len(uniq), cfg.K); err != nil {
		return nil, err
	}
	if dropped := len(points) - len(uniq); dropped > 0 {
		cfg.Logger.Debug().Int("duplicates", dropped).Msg("collapsed repeated coordinates")
	}
	return uniq, nil
}

// Cluster groups points into at most cfg.K clusters using cfg.Method.
// Repeated coordinates are collapsed before clustering. Returns an error
// wrapping ErrDegenerateInput or ErrInvalidConfig if the input or config
// cannot be used.
func Cluster(points []Point, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	switch cfg.Method {
	case MethodMedoids:
		return ClusterMedoids(points, cfg)
	case MethodCentroids:
		return ClusterCentroids(points, cfg)
	default:
		_, err := ParseMethod(string(cfg.Method))
		return nil, err
	}
}

// chunkBounds splits n items into contiguous chunks of n/k items (at least
// one), the last chunk holding the remainder.
func chunkBounds(n, k int) [][2]int {
	size := max(1, n/k)
	bounds := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		bounds = append(bounds, [2]int{start, min(start+size, n)})
	}
	return bounds
}
