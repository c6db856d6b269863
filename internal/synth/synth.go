// Package synth generates synthetic 2D point sets: a handful of uniformly
// placed seed points, grown into blobs by repeatedly offsetting randomly
// chosen existing points.
package synth

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/TrevorS/pointcluster"
)

// ErrExhausted is returned when Generate gives up before reaching Total
// distinct points.
var ErrExhausted = errors.New("synth: could not place enough distinct points")

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Span returns the number of integers in the range.
func (r Range) Span() int { return r.Max - r.Min + 1 }

func (r Range) draw(rng *rand.Rand) int {
	return r.Min + rng.IntN(r.Span())
}

func (r Range) clamp(v int) int {
	return min(max(v, r.Min), r.Max)
}

// Config describes a point set.
type Config struct {
	// Seeds is the number of uniformly placed starting points.
	Seeds int `yaml:"seeds"`
	// Total is the number of distinct points to generate, seeds included.
	Total int `yaml:"total"`
	// X and Y bound the coordinates.
	X Range `yaml:"x_range"`
	Y Range `yaml:"y_range"`
	// XOffset and YOffset bound the offset added to a chosen point.
	XOffset Range `yaml:"x_offset"`
	YOffset Range `yaml:"y_offset"`
}

// Validate checks that cfg can produce Total distinct points.
func (cfg Config) Validate() error {
	for name, r := range map[string]Range{"x_range": cfg.X, "y_range": cfg.Y, "x_offset": cfg.XOffset, "y_offset": cfg.YOffset} {
		if r.Min > r.Max {
			return fmt.Errorf("synth: %s min %d exceeds max %d", name, r.Min, r.Max)
		}
	}
	if cfg.Seeds < 1 {
		return fmt.Errorf("synth: seeds must be >= 1, got %d", cfg.Seeds)
	}
	if cfg.Total < cfg.Seeds {
		return fmt.Errorf("synth: total (%d) must be >= seeds (%d)", cfg.Total, cfg.Seeds)
	}
	if capacity := cfg.X.Span() * cfg.Y.Span(); cfg.Total > capacity {
		return fmt.Errorf("synth: total (%d) exceeds the %d grid positions in range", cfg.Total, capacity)
	}
	if cfg.Total > cfg.Seeds && cfg.XOffset == (Range{}) && cfg.YOffset == (Range{}) {
		return errors.New("synth: offsets are all zero, no point beyond the seeds can be placed")
	}
	return nil
}

// Generate returns cfg.Total distinct integer-coordinate points, seeds
// first, in generation order. All randomness comes from src.
func Generate(cfg Config, src rand.Source) ([]pointcluster.Point, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(src)

	seen := pointcluster.NewPointIndex()
	points := make([]pointcluster.Point, 0, cfg.Total)
	add := func(x, y int) {
		p := pointcluster.Pt(float64(x), float64(y))
		if _, inserted := seen.InsertMembers(p, nil); inserted {
			points = append(points, p)
		}
	}

	budget := 1000 * cfg.Total
	for len(points) < cfg.Seeds && budget > 0 {
		add(cfg.X.draw(rng), cfg.Y.draw(rng))
		budget--
	}
	for len(points) < cfg.Total && budget > 0 {
		base := points[rng.IntN(len(points))]
		add(
			cfg.X.clamp(int(base.X)+cfg.XOffset.draw(rng)),
			cfg.Y.clamp(int(base.Y)+cfg.YOffset.draw(rng)),
		)
		budget--
	}
	if len(points) < cfg.Total {
		return points, fmt.Errorf("%w: placed %d of %d", ErrExhausted, len(points), cfg.Total)
	}
	return points, nil
}
