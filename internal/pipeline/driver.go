// Package pipeline runs one dataset conversion: read the raw sensor table,
// normalise and label every row, balance classes (v2), and write the
// labeled table, or a train/test pair of tables. The dataset store, class
// plot and HTML report are produced only after the tables are written.
//
// Runs are fail-fast. Any row error aborts before anything is written, and
// tables are written atomically.
package pipeline

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/annie.dataset/internal/balance"
	"github.com/banshee-data/annie.dataset/internal/config"
	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/fsutil"
	"github.com/banshee-data/annie.dataset/internal/labeling"
	"github.com/banshee-data/annie.dataset/internal/monitoring"
	"github.com/banshee-data/annie.dataset/internal/report"
	"github.com/banshee-data/annie.dataset/internal/store"
	"github.com/banshee-data/annie.dataset/internal/timeutil"
)

// Observer receives progress notifications from a run.
type Observer interface {
	RowsRead(path string, n int)
	ClassCounts(before, after dataset.ClassCounts)
	Written(path string, rows int)
}

// Driver executes pipeline runs against a filesystem.
type Driver struct {
	FS       fsutil.FileSystem
	Observer Observer
	Clock    timeutil.Clock // nil uses the real clock
}

// NewDriver returns a Driver on the OS filesystem that logs progress.
func NewDriver() *Driver {
	return &Driver{FS: fsutil.OSFileSystem{}, Observer: report.LogObserver{}, Clock: timeutil.RealClock{}}
}

// Result describes a finished run.
type Result struct {
	RunID        string
	Variant      dataset.Variant
	Policy       string
	RowsIn       int
	RowsOut      int
	Before       dataset.ClassCounts
	After        dataset.ClassCounts
	EmptyClasses []dataset.Action
	Outputs      []string // labeled tables written, in write order
	Samples      []dataset.LabeledSample
}

// Run executes one conversion described by cfg.
func (d *Driver) Run(cfg *config.PipelineConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	started := d.clock().Now()
	variant := cfg.GetVariant()
	policy, err := labeling.ForVariant(variant)
	if err != nil {
		return nil, err
	}

	inPath := cfg.GetInputPath()
	raws, err := d.readInput(inPath, variant)
	if err != nil {
		return nil, err
	}
	d.observer().RowsRead(inPath, len(raws))
	if len(raws) == 0 {
		monitoring.Logf("[pipeline] warning: %s has no data rows; output will be header-only", inPath)
	}

	labeled := policy.LabelSamples(dataset.NormalizeAll(raws))

	res := &Result{
		RunID:   uuid.New().String(),
		Variant: variant,
		Policy:  policy.Name,
		RowsIn:  len(raws),
		Before:  dataset.CountByAction(labeled),
	}

	out := labeled
	if variant == dataset.V2 {
		rng := rand.New(rand.NewSource(cfg.GetSeed()))
		bal, err := balance.Balance(labeled, rng, balance.Options{EmptyClass: cfg.GetEmptyClass()})
		if err != nil {
			return nil, err
		}
		out = bal.Samples
		res.After = bal.After
		res.EmptyClasses = bal.EmptyClasses
	} else {
		res.After = res.Before
	}
	res.Samples = out
	res.RowsOut = len(out)
	d.observer().ClassCounts(res.Before, res.After)

	if err := d.writeTables(cfg, variant, out, res); err != nil {
		return nil, err
	}

	if err := d.writeArtefacts(cfg, res, started); err != nil {
		return res, err
	}
	monitoring.Logf("[pipeline] run %s finished in %s", res.RunID, d.clock().Since(started))
	return res, nil
}

func (d *Driver) observer() Observer {
	if d.Observer == nil {
		return report.LogObserver{}
	}
	return d.Observer
}

func (d *Driver) clock() timeutil.Clock {
	if d.Clock == nil {
		return timeutil.RealClock{}
	}
	return d.Clock
}

func (d *Driver) readInput(path string, v dataset.Variant) ([]dataset.RawSample, error) {
	f, err := d.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	raws, err := dataset.ReadRawSamples(f, v)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raws, nil
}

// writeTables writes the labeled table, or the train and test tables when a
// split is configured. If a later table fails, earlier ones are removed.
func (d *Driver) writeTables(cfg *config.PipelineConfig, v dataset.Variant, samples []dataset.LabeledSample, res *Result) error {
	type table struct {
		path    string
		samples []dataset.LabeledSample
	}
	paths := cfg.OutputPaths()
	tables := []table{{paths[0], samples}}

	if ratio := cfg.GetTestRatio(); ratio > 0 {
		rng := rand.New(rand.NewSource(cfg.GetSplitSeed()))
		train, test, err := balance.Split(samples, ratio, rng)
		if err != nil {
			return err
		}
		tables = []table{{paths[0], train}, {paths[1], test}}
	}

	for _, tbl := range tables {
		err := fsutil.WriteAtomic(d.FS, tbl.path, func(w io.Writer) error {
			return dataset.WriteLabeledSamples(w, v, tbl.samples)
		})
		if err != nil {
			for _, done := range res.Outputs {
				_ = d.FS.Remove(done)
			}
			res.Outputs = nil
			return fmt.Errorf("write %s: %w", tbl.path, err)
		}
		res.Outputs = append(res.Outputs, tbl.path)
		d.observer().Written(tbl.path, len(tbl.samples))
	}
	return nil
}

// writeArtefacts persists the run and renders the optional plot and report.
func (d *Driver) writeArtefacts(cfg *config.PipelineConfig, res *Result, started time.Time) error {
	if path := cfg.GetDBPath(); path != "" {
		if err := d.persist(path, cfg, res, started); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		monitoring.Logf("[pipeline] recorded run %s in %s", res.RunID, path)
	}

	if path := cfg.GetPlotPath(); path != "" {
		if err := report.WriteClassPlot(d.FS, path, res.Before, res.After); err != nil {
			return fmt.Errorf("class plot: %w", err)
		}
		monitoring.Logf("[pipeline] wrote class plot to %s", path)
	}

	if path := cfg.GetReportPath(); path != "" {
		summary := report.Summary{
			RunID:       res.RunID,
			Variant:     res.Variant,
			Policy:      res.Policy,
			Seed:        cfg.GetSeed(),
			Before:      res.Before,
			After:       res.After,
			Stats:       report.ComputeFeatureStats(res.Variant, res.Samples),
			GeneratedAt: started,
		}
		err := fsutil.WriteAtomic(d.FS, path, func(w io.Writer) error {
			return report.WriteHTML(w, summary)
		})
		if err != nil {
			return fmt.Errorf("html report: %w", err)
		}
		monitoring.Logf("[pipeline] wrote report to %s", path)
	}
	return nil
}

func (d *Driver) persist(path string, cfg *config.PipelineConfig, res *Result, started time.Time) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	run := &store.Run{
		RunID:        res.RunID,
		CreatedAt:    started.UnixNano(),
		Variant:      res.Variant,
		Policy:       res.Policy,
		Seed:         cfg.GetSeed(),
		InputPath:    cfg.GetInputPath(),
		OutputPath:   cfg.GetOutputPath(),
		RowsIn:       res.RowsIn,
		RowsOut:      res.RowsOut,
		EmptyClasses: res.EmptyClasses,
	}
	if err := st.InsertRun(run); err != nil {
		return err
	}
	if err := st.InsertClassCounts(run.RunID, store.StageInput, res.Before); err != nil {
		return err
	}
	if err := st.InsertClassCounts(run.RunID, store.StageBalanced, res.After); err != nil {
		return err
	}
	return st.InsertSamples(run.RunID, res.Samples)
}
