package pointcluster

import (
	"fmt"
	"strings"
)

// Method selects the clustering strategy.
type Method string

const (
	// MethodCentroids merges the closest sampled pairs into synthesized
	// centroids. Representatives are averages, not input points.
	MethodCentroids Method = "centroids"
	// MethodMedoids refines medoids per chunk and consolidates them.
	// Representatives are always input points.
	MethodMedoids Method = "medoids"
)

// Methods lists the supported strategies in a stable order.
func Methods() []Method {
	return []Method{MethodCentroids, MethodMedoids}
}

// ParseMethod resolves a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodCentroids, MethodMedoids:
		return m, nil
	default:
		return "", fmt.Errorf("pointcluster: invalid Method %q: %w", s, ErrInvalidConfig)
	}
}

// Representative describes what kind of point a method returns as group key.
func (m Method) Representative() string {
	switch m {
	case MethodMedoids:
		return "medoid"
	default:
		return "centroid"
	}
}
