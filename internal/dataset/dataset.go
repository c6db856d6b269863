// Package dataset reads and writes point sets as CSV files.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/TrevorS/pointcluster"
)

// ErrShape is returned when a CSV file does not hold two numeric columns.
var ErrShape = errors.New("dataset: expected at least two numeric columns")

// ReadCSV parses points from r. The first row is a header; the first two
// columns are taken as x and y. Extra columns are ignored.
func ReadCSV(r io.Reader) ([]pointcluster.Point, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("dataset: read csv: %w", df.Err)
	}
	if df.Ncol() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrShape, df.Ncol())
	}

	names := df.Names()
	xs := df.Col(names[0]).Float()
	ys := df.Col(names[1]).Float()
	points := make([]pointcluster.Point, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			return nil, fmt.Errorf("%w: row %d is not numeric", ErrShape, i+1)
		}
		points[i] = pointcluster.Pt(xs[i], ys[i])
	}
	return points, nil
}

// ReadFile opens path and parses it with ReadCSV.
func ReadFile(path string) ([]pointcluster.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes points to w with an "x,y" header. Floats are written with
// six decimal places.
func WriteCSV(w io.Writer, points []pointcluster.Point) error {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	df := dataframe.New(
		series.New(xs, series.Float, "x"),
		series.New(ys, series.Float, "y"),
	)
	if df.Err != nil {
		return fmt.Errorf("dataset: build frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("dataset: write csv: %w", err)
	}
	return nil
}
