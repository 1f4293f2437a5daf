package aggregate

import (
	"github.com/montanaflynn/stats"
)

// Summary describes how violations are distributed among authors.
type Summary struct {
	Authors    int
	Violations int
	Min        float64
	Max        float64
	Mean       float64
	Median     float64
	StdDev     float64
}

// Summary computes the distribution of per-author totals. An empty view
// yields a zero Summary.
func (v View) Summary() Summary {
	s := Summary{Authors: len(v), Violations: v.Total()}
	if len(v) == 0 {
		return s
	}
	totals := make(stats.Float64Data, 0, len(v))
	for _, author := range v.Authors() {
		totals = append(totals, float64(v[author].Total()))
	}
	s.Min, _ = stats.Min(totals)
	s.Max, _ = stats.Max(totals)
	s.Mean, _ = stats.Mean(totals)
	s.Median, _ = stats.Median(totals)
	s.StdDev, _ = stats.StandardDeviationPopulation(totals)
	return s
}
