// Package plot renders point sets and clusterings as interactive HTML
// scatter charts.
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/TrevorS/pointcluster"
)

// palette cycles through distinguishable colors for cluster series.
var palette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc", "#c23531",
}

func newScatter(title string) *charts.Scatter {
	es := charts.NewScatter()
	es.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: true, Type: "png", Title: title},
			},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: 0},
			opts.DataZoom{Type: "inside", YAxisIndex: 0},
		),
	)
	return es
}

func scatterData(points []pointcluster.Point) []opts.ScatterData {
	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{Value: []float64{p.X, p.Y}}
	}
	return data
}

// Points renders an unclustered point set to w.
func Points(w io.Writer, title string, points []pointcluster.Point) error {
	es := newScatter(title)
	es.AddSeries("Points", scatterData(points), charts.WithItemStyleOpts(opts.ItemStyle{Color: palette[0]}))
	return es.Render(w)
}

// Clusters renders points coloured by their group label in c, one series
// per group in representative order, plus a black series holding the
// representatives. Points that belong to no group go into a grey
// "Unassigned" series.
func Clusters(w io.Writer, title string, points []pointcluster.Point, c pointcluster.Clusters) error {
	es := newScatter(title)
	reps := c.Representatives()

	groups := make([][]pointcluster.Point, len(reps))
	var unassigned []pointcluster.Point
	for i, label := range c.Labels(points) {
		if label < 0 {
			unassigned = append(unassigned, points[i])
			continue
		}
		groups[label] = append(groups[label], points[i])
	}

	for i, members := range groups {
		es.AddSeries(
			fmt.Sprintf("Cluster %d", i),
			scatterData(members),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette[i%len(palette)]}),
		)
	}
	if len(unassigned) > 0 {
		es.AddSeries("Unassigned", scatterData(unassigned), charts.WithItemStyleOpts(opts.ItemStyle{Color: "#aaaaaa"}))
	}
	es.AddSeries("Representatives", scatterData(reps), charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))
	return es.Render(w)
}

// WriteFile creates path and renders into it with render.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("plot: render %s: %w", path, err)
	}
	return f.Close()
}
