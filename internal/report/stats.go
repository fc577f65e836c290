// Package report summarises a dataset run: per-class feature statistics, a
// class distribution plot, an HTML page and a log-based observer.
package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// FeatureStats describes one feature column within one action class.
type FeatureStats struct {
	Action  dataset.Action
	Feature string
	N       int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
}

// featureColumns returns the output features summarised for a variant, in
// output column order, with an accessor for each.
func featureColumns(v dataset.Variant) []struct {
	name string
	get  func(dataset.NormalizedSample) int
} {
	type col = struct {
		name string
		get  func(dataset.NormalizedSample) int
	}
	cols := []col{
		{dataset.ColFront, func(s dataset.NormalizedSample) int { return s.Front }},
	}
	if v == dataset.V2 {
		cols = append(cols, col{dataset.ColFarFront, func(s dataset.NormalizedSample) int { return s.FarFront }})
	}
	cols = append(cols,
		col{dataset.ColLeft, func(s dataset.NormalizedSample) int { return s.Left }},
		col{dataset.ColRight, func(s dataset.NormalizedSample) int { return s.Right }},
		col{dataset.ColDiff, func(s dataset.NormalizedSample) int { return s.Diff }},
		col{dataset.ColMinLR, func(s dataset.NormalizedSample) int { return s.MinLR }},
	)
	return cols
}

// ComputeFeatureStats returns statistics for every feature of every
// non-empty class, ordered by action then by output column. The standard
// deviation is the sample (n-1) deviation; a single-sample class reports 0.
func ComputeFeatureStats(v dataset.Variant, samples []dataset.LabeledSample) []FeatureStats {
	var groups [dataset.NumActions][]dataset.NormalizedSample
	for _, s := range samples {
		if s.Action.Valid() {
			groups[s.Action] = append(groups[s.Action], s.NormalizedSample)
		}
	}

	cols := featureColumns(v)
	var out []FeatureStats
	for _, a := range dataset.Actions {
		g := groups[a]
		if len(g) == 0 {
			continue
		}
		x := make([]float64, len(g))
		for _, c := range cols {
			for i, s := range g {
				x[i] = float64(c.get(s))
			}
			fs := FeatureStats{
				Action:  a,
				Feature: c.name,
				N:       len(x),
				Min:     floats.Min(x),
				Max:     floats.Max(x),
			}
			if len(x) == 1 {
				fs.Mean = x[0]
			} else {
				fs.Mean, fs.StdDev = stat.MeanStdDev(x, nil)
			}
			out = append(out, fs)
		}
	}
	return out
}
