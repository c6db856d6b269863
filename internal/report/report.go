// Package report summarizes clustering runs as JSON.
package report

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/TrevorS/pointcluster"
)

// Group is one cluster in a report.
type Group struct {
	Representative [2]float64   `json:"representative"`
	Size           int          `json:"size"`
	MeanDistance   float64      `json:"mean_distance"`
	Members        [][2]float64 `json:"members,omitempty"`
}

// Report describes the outcome of one clustering method.
type Report struct {
	Method         string  `json:"method"`
	Representative string  `json:"representative"`
	Groups         int     `json:"groups"`
	Points         int     `json:"points"`
	Cost           float64 `json:"cost"`
	ElapsedMS      float64 `json:"elapsed_ms"`
	MaxDistance    float64 `json:"max_distance"`
	Passed         bool    `json:"passed"`
	Converged      bool    `json:"converged"`
	Clusters       []Group `json:"clusters"`
}

// New builds a report for res. Groups are listed in representative order.
// Members are included only when withMembers is set.
func New(res *pointcluster.Result, elapsed time.Duration, maxDistance float64, withMembers bool) Report {
	c := res.Clusters
	r := Report{
		Method:         string(res.Method),
		Representative: res.Method.Representative(),
		Groups:         c.Len(),
		Points:         c.Size(),
		Cost:           c.Cost(),
		ElapsedMS:      float64(elapsed) / float64(time.Millisecond),
		MaxDistance:    maxDistance,
		Passed:         c.WithinMeanDistance(maxDistance),
		Converged:      res.Converged(),
		Clusters:       make([]Group, 0, c.Len()),
	}
	for _, rep := range c.Representatives() {
		g := Group{
			Representative: [2]float64{rep.X, rep.Y},
			Size:           len(c[rep]),
			MeanDistance:   c.MeanDistance(rep),
		}
		if withMembers {
			g.Members = make([][2]float64, len(c[rep]))
			for i, p := range c[rep] {
				g.Members[i] = [2]float64{p.X, p.Y}
			}
		}
		r.Clusters = append(r.Clusters, g)
	}
	return r
}

// Write encodes reports to w as indented JSON.
func Write(w io.Writer, reports []Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// Read decodes reports previously written by Write.
func Read(r io.Reader) ([]Report, error) {
	var reports []Report
	if err := json.NewDecoder(r).Decode(&reports); err != nil {
		return nil, fmt.Errorf("report: decode: %w", err)
	}
	return reports, nil
}
