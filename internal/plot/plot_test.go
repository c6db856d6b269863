package plot

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/pointcluster"
)

func TestPoints(t *testing.T) {
	var buf bytes.Buffer
	err := Points(&buf, "Input points", []pointcluster.Point{pointcluster.Pt(1, 2), pointcluster.Pt(3, 4)})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Input points")
	assert.Contains(t, html, "Points")
}

func TestClusters(t *testing.T) {
	c := pointcluster.Clusters{
		pointcluster.Pt(0, 0):   {pointcluster.Pt(0, 1), pointcluster.Pt(1, 0)},
		pointcluster.Pt(50, 50): {pointcluster.Pt(50, 51)},
	}
	points := []pointcluster.Point{pointcluster.Pt(0, 1), pointcluster.Pt(1, 0), pointcluster.Pt(50, 51)}
	var buf bytes.Buffer
	require.NoError(t, Clusters(&buf, "Medoids", points, c))

	html := buf.String()
	assert.Contains(t, html, "Cluster 0")
	assert.Contains(t, html, "Cluster 1")
	assert.Contains(t, html, "Representatives")
	assert.NotContains(t, html, "Cluster 2")
	assert.NotContains(t, html, "Unassigned")
}

func TestClusters_UnlabelledPoints(t *testing.T) {
	c := pointcluster.Clusters{pointcluster.Pt(0, 0): {pointcluster.Pt(0, 1)}}
	points := []pointcluster.Point{pointcluster.Pt(0, 1), pointcluster.Pt(99, 99)}

	var buf bytes.Buffer
	require.NoError(t, Clusters(&buf, "Partial", points, c))
	assert.Contains(t, buf.String(), "Unassigned")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.html")
	err := WriteFile(path, func(w io.Writer) error {
		return Points(w, "Saved", []pointcluster.Point{pointcluster.Pt(0, 0)})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "Saved"))

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "x.html"), func(io.Writer) error { return nil })
	require.Error(t, err)
}
