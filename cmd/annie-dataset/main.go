// Command annie-dataset converts ANNie sensor logs into labeled, class-balanced
// training tables, generates synthetic logs, and lists recorded runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/banshee-data/annie.dataset/internal/config"
	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/fsutil"
	"github.com/banshee-data/annie.dataset/internal/pipeline"
	"github.com/banshee-data/annie.dataset/internal/store"
	"github.com/banshee-data/annie.dataset/internal/synth"
	"github.com/banshee-data/annie.dataset/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("annie-dataset: %v", err)
	}
}

// run dispatches a subcommand. With no subcommand, or when the first
// argument is a flag, it converts.
func run(args []string, stdout io.Writer) error {
	command := "convert"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "convert":
		return runConvert(args, stdout)
	case "synth":
		return runSynth(args, stdout)
	case "runs":
		return runRuns(args, stdout)
	case "version":
		printVersion(stdout)
		return nil
	case "help":
		printUsage(stdout)
		return nil
	}
	printUsage(stdout)
	return fmt.Errorf("unknown command %q", command)
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, version.String("annie-dataset"))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `annie-dataset - sensor log to training table converter

Usage: annie-dataset [command] [options]

Commands:
  convert    Normalise, label and balance a sensor log (default)
  synth      Generate a synthetic sensor log
  runs       List runs recorded in a dataset store
  version    Show version
  help       Show this help message

Examples:
  annie-dataset -variant v2 -in data/dataset2.csv -out data/dataset_converted.csv
  annie-dataset convert -config config/pipeline.defaults.json -db data/runs.db
  annie-dataset synth -n 250 -variant v1 -out data/dataset1.csv
  annie-dataset runs -db data/runs.db`)
}

// runConvert loads the pipeline configuration, applies flag overrides and
// executes one conversion. Only flags given on the command line override
// values from the config file.
func runConvert(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to pipeline JSON config (optional)")
	in := fs.String("in", config.DefaultInputPath, "Input sensor log CSV")
	out := fs.String("out", config.DefaultOutputPath, "Output labeled CSV")
	variant := fs.String("variant", string(config.DefaultVariant), "Dataset variant: v1 or v2")
	seed := fs.Int64("seed", config.DefaultSeed, "Balancing random seed")
	emptyClass := fs.String("empty-class", "skip", "Empty class handling: skip or fail")
	testRatio := fs.Float64("test-ratio", 0, "Held-out test fraction in [0, 1); 0 disables the split")
	splitSeed := fs.Int64("split-seed", config.DefaultSplitSeed, "Train/test split random seed")
	dbPath := fs.String("db", "", "Record the run in this SQLite dataset store")
	plotPath := fs.String("plot", "", "Write a class distribution plot (.png, .svg)")
	reportPath := fs.String("report", "", "Write an HTML run report")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		printVersion(stdout)
		return nil
	}

	cfg := config.EmptyPipelineConfig()
	if *configPath != "" {
		loaded, err := config.LoadPipelineConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.SetInputPath(*in)
		case "out":
			cfg.SetOutputPath(*out)
		case "variant":
			cfg.SetVariant(*variant)
		case "seed":
			cfg.SetSeed(*seed)
		case "empty-class":
			cfg.SetEmptyClass(*emptyClass)
		case "test-ratio":
			cfg.SetTestRatio(*testRatio)
		case "split-seed":
			cfg.SetSplitSeed(*splitSeed)
		case "db":
			cfg.SetDBPath(*dbPath)
		case "plot":
			cfg.SetPlotPath(*plotPath)
		case "report":
			cfg.SetReportPath(*reportPath)
		}
	})

	res, err := pipeline.NewDriver().Run(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run %s: %s, %d rows in, %d rows out\n", res.RunID, res.Policy, res.RowsIn, res.RowsOut)
	fmt.Fprintf(stdout, "  before: %s\n", res.Before)
	fmt.Fprintf(stdout, "  after:  %s\n", res.After)
	for _, p := range res.Outputs {
		fmt.Fprintf(stdout, "  wrote %s\n", p)
	}
	return nil
}

// runSynth writes a synthetic sensor log.
func runSynth(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("synth", flag.ContinueOnError)
	n := fs.Int("n", 250, "Rows per scenario family (total rows = 4n)")
	variantFlag := fs.String("variant", string(config.DefaultVariant), "Dataset variant: v1 or v2")
	seed := fs.Int64("seed", time.Now().UnixNano(), "Random seed (defaults to the current time)")
	out := fs.String("out", config.DefaultInputPath, "Output sensor log CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := dataset.ParseVariant(*variantFlag)
	if err != nil {
		return err
	}
	if *n <= 0 {
		return fmt.Errorf("-n must be positive, got %d", *n)
	}

	rows := synth.Generate(rand.New(rand.NewSource(*seed)), synth.Options{PerScenario: *n, Variant: v})
	err = fsutil.WriteAtomic(fsutil.OSFileSystem{}, *out, func(w io.Writer) error {
		return dataset.WriteRawSamples(w, v, rows)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	fmt.Fprintf(stdout, "wrote %d %s rows to %s (seed %d)\n", len(rows), v, *out, *seed)
	return nil
}

// runRuns lists the runs recorded in a dataset store, newest first.
func runRuns(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite dataset store (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		return fmt.Errorf("-db is required")
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs recorded")
		return nil
	}

	for _, r := range runs {
		after, err := st.ClassCounts(r.RunID, store.StageBalanced)
		if err != nil {
			return err
		}
		created := time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(stdout, "%s  %s  %s  %-22s  %5d -> %-5d  %s\n",
			r.RunID, created, r.Variant, r.Policy, r.RowsIn, r.RowsOut, after)
	}
	return nil
}
