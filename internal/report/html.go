package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// Summary is everything the HTML report shows about one run.
type Summary struct {
	RunID       string
	Variant     dataset.Variant
	Policy      string
	Seed        int64
	Before      dataset.ClassCounts
	After       dataset.ClassCounts
	Stats       []FeatureStats
	GeneratedAt time.Time
}

// WriteHTML renders the run summary as a self-contained echarts page: the
// class distribution before and after balancing, and per-class feature means.
func WriteHTML(w io.Writer, s Summary) error {
	actions := make([]string, dataset.NumActions)
	for i, a := range dataset.Actions {
		actions[i] = a.String()
	}

	subtitle := fmt.Sprintf("variant=%s policy=%s seed=%d", s.Variant, s.Policy, s.Seed)
	if s.RunID != "" {
		subtitle += " run=" + s.RunID
	}
	if !s.GeneratedAt.IsZero() {
		subtitle += " " + s.GeneratedAt.Format(time.RFC3339)
	}

	counts := charts.NewBar()
	counts.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "ANNie dataset run", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Class distribution", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	counts.SetXAxis(actions).
		AddSeries("before", countBars(s.Before),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		).
		AddSeries("after", countBars(s.After),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.PageTitle = "ANNie dataset run"
	page.AddCharts(counts)

	if len(s.Stats) > 0 {
		page.AddCharts(meanChart(actions, s.Stats))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func countBars(c dataset.ClassCounts) []opts.BarData {
	out := make([]opts.BarData, dataset.NumActions)
	for i, a := range dataset.Actions {
		out[i] = opts.BarData{Value: c[a]}
	}
	return out
}

// meanChart plots one series per feature with the class means on the x axis.
// Classes without samples show no bar.
func meanChart(actions []string, stats []FeatureStats) *charts.Bar {
	var features []string
	means := map[string][]opts.BarData{}
	for _, fs := range stats {
		if _, ok := means[fs.Feature]; !ok {
			features = append(features, fs.Feature)
			means[fs.Feature] = make([]opts.BarData, dataset.NumActions)
		}
		means[fs.Feature][fs.Action] = opts.BarData{Value: math.Round(fs.Mean*10) / 10}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Feature means per class", Subtitle: "centimetres"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	bar.SetXAxis(actions)
	for _, f := range features {
		bar.AddSeries(f, means[f])
	}
	return bar
}
