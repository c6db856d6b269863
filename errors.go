package pointcluster

import "errors"

var (
	// ErrDegenerateInput is returned when there are no points, or K is not in
	// [1, number of distinct points].
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInvalidConfig is returned when a Config field is out of range.
	ErrInvalidConfig = errors.New("invalid config")
)
