package report

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/fsutil"
)

var (
	beforeColor = color.RGBA{R: 0x31, G: 0x68, B: 0x8e, A: 0xff}
	afterColor  = color.RGBA{R: 0x35, G: 0xb7, B: 0x79, A: 0xff}
)

// WriteClassPlot renders per-class counts before and after balancing as a
// grouped bar chart. The image format follows the file extension (.png,
// .svg, .pdf). The image is written atomically through fsys.
func WriteClassPlot(fsys fsutil.FileSystem, path string, before, after dataset.ClassCounts) error {
	p := plot.New()
	p.Title.Text = "Class distribution"
	p.Y.Label.Text = "samples"
	p.Y.Min = 0

	width := vg.Points(24)
	beforeBars, err := plotter.NewBarChart(countValues(before), width)
	if err != nil {
		return fmt.Errorf("before bars: %w", err)
	}
	beforeBars.Color = beforeColor
	beforeBars.LineStyle.Width = vg.Length(0)
	beforeBars.Offset = -width / 2

	afterBars, err := plotter.NewBarChart(countValues(after), width)
	if err != nil {
		return fmt.Errorf("after bars: %w", err)
	}
	afterBars.Color = afterColor
	afterBars.LineStyle.Width = vg.Length(0)
	afterBars.Offset = width / 2

	p.Add(beforeBars, afterBars)
	p.Legend.Add("before", beforeBars)
	p.Legend.Add("after", afterBars)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	names := make([]string, dataset.NumActions)
	for i, a := range dataset.Actions {
		names[i] = a.String()
	}
	p.NominalX(names...)

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return fsutil.WriteAtomic(fsys, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}

func countValues(c dataset.ClassCounts) plotter.Values {
	vs := make(plotter.Values, dataset.NumActions)
	for i, a := range dataset.Actions {
		vs[i] = float64(c[a])
	}
	return vs
}
