package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/annie.dataset/internal/balance"
	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// DefaultConfigPath is the path to the canonical pipeline defaults file.
const DefaultConfigPath = "config/pipeline.defaults.json"

// Defaults used when a field is omitted.
const (
	DefaultVariant    = dataset.V2
	DefaultSeed       = int64(42)
	DefaultInputPath  = "data/dataset1.csv"
	DefaultOutputPath = "data/dataset_converted.csv"
	DefaultSplitSeed  = int64(42)
)

// PipelineConfig is the JSON configuration of one dataset conversion run.
// Every field is optional; the Get* methods supply defaults for omitted ones.
type PipelineConfig struct {
	Variant    *string  `json:"variant,omitempty"` // "v1" or "v2"
	Seed       *int64   `json:"seed,omitempty"`
	InputPath  *string  `json:"input_path,omitempty"`
	OutputPath *string  `json:"output_path,omitempty"`
	EmptyClass *string  `json:"empty_class,omitempty"` // "skip" or "fail"
	TestRatio  *float64 `json:"test_ratio,omitempty"`
	SplitSeed  *int64   `json:"split_seed,omitempty"`

	// Optional artefacts; empty disables them.
	DBPath     *string `json:"db_path,omitempty"`
	PlotPath   *string `json:"plot_path,omitempty"`
	ReportPath *string `json:"report_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyPipelineConfig returns a PipelineConfig with all fields set to nil.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *PipelineConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/annie-dataset/ and deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadPipelineConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that set values are usable.
func (c *PipelineConfig) Validate() error {
	if c.Variant != nil {
		if _, err := dataset.ParseVariant(*c.Variant); err != nil {
			return err
		}
	}

	if c.EmptyClass != nil {
		if _, err := balance.ParseEmptyClassMode(*c.EmptyClass); err != nil {
			return err
		}
	}

	if c.TestRatio != nil {
		if *c.TestRatio < 0 || *c.TestRatio >= 1 {
			return fmt.Errorf("test_ratio must be in [0, 1), got %g", *c.TestRatio)
		}
	}

	if c.InputPath != nil && *c.InputPath == "" {
		return fmt.Errorf("input_path must not be empty")
	}
	if c.OutputPath != nil && *c.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}
	in := filepath.Clean(c.GetInputPath())
	for _, out := range c.OutputPaths() {
		if filepath.Clean(out) == in {
			return fmt.Errorf("output %s would overwrite input_path", out)
		}
	}

	return nil
}

// OutputPaths returns the tables a run writes: the output path, or the
// train and test pair when a split is configured.
func (c *PipelineConfig) OutputPaths() []string {
	out := c.GetOutputPath()
	if c.GetTestRatio() > 0 {
		train, test := SplitPaths(out)
		return []string{train, test}
	}
	return []string{out}
}

// SplitPaths derives the train and test table paths from the output path:
// data/out.csv becomes data/out_train.csv and data/out_test.csv.
func SplitPaths(outPath string) (train, test string) {
	ext := filepath.Ext(outPath)
	base := strings.TrimSuffix(outPath, ext)
	return base + "_train" + ext, base + "_test" + ext
}

// GetVariant returns the dataset variant or the default.
func (c *PipelineConfig) GetVariant() dataset.Variant {
	if c.Variant == nil {
		return DefaultVariant
	}
	v, err := dataset.ParseVariant(*c.Variant)
	if err != nil {
		return DefaultVariant // default on parse error
	}
	return v
}

// GetSeed returns the balancing seed or the default.
func (c *PipelineConfig) GetSeed() int64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// GetInputPath returns the input table path or the default.
func (c *PipelineConfig) GetInputPath() string {
	if c.InputPath == nil || *c.InputPath == "" {
		return DefaultInputPath
	}
	return *c.InputPath
}

// GetOutputPath returns the output table path or the default.
func (c *PipelineConfig) GetOutputPath() string {
	if c.OutputPath == nil || *c.OutputPath == "" {
		return DefaultOutputPath
	}
	return *c.OutputPath
}

// GetEmptyClass returns the empty-class mode or the default (skip).
func (c *PipelineConfig) GetEmptyClass() balance.EmptyClassMode {
	if c.EmptyClass == nil {
		return balance.EmptyClassSkip
	}
	m, err := balance.ParseEmptyClassMode(*c.EmptyClass)
	if err != nil {
		return balance.EmptyClassSkip
	}
	return m
}

// GetTestRatio returns the held-out fraction; 0 disables splitting.
func (c *PipelineConfig) GetTestRatio() float64 {
	if c.TestRatio == nil {
		return 0
	}
	return *c.TestRatio
}

// GetSplitSeed returns the train/test split seed or the default.
func (c *PipelineConfig) GetSplitSeed() int64 {
	if c.SplitSeed == nil {
		return DefaultSplitSeed
	}
	return *c.SplitSeed
}

// GetDBPath returns the dataset store path; empty disables the store.
func (c *PipelineConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetPlotPath returns the class distribution PNG path; empty disables it.
func (c *PipelineConfig) GetPlotPath() string {
	if c.PlotPath == nil {
		return ""
	}
	return *c.PlotPath
}

// GetReportPath returns the HTML report path; empty disables it.
func (c *PipelineConfig) GetReportPath() string {
	if c.ReportPath == nil {
		return ""
	}
	return *c.ReportPath
}

// SetVariant, SetSeed and the other setters let command-line flags override
// values loaded from a file.
func (c *PipelineConfig) SetVariant(v string)    { c.Variant = ptrString(v) }
func (c *PipelineConfig) SetSeed(v int64)        { c.Seed = ptrInt64(v) }
func (c *PipelineConfig) SetInputPath(v string)  { c.InputPath = ptrString(v) }
func (c *PipelineConfig) SetOutputPath(v string) { c.OutputPath = ptrString(v) }
func (c *PipelineConfig) SetEmptyClass(v string) { c.EmptyClass = ptrString(v) }
func (c *PipelineConfig) SetTestRatio(v float64) { c.TestRatio = ptrFloat64(v) }
func (c *PipelineConfig) SetDBPath(v string)     { c.DBPath = ptrString(v) }
func (c *PipelineConfig) SetPlotPath(v string)   { c.PlotPath = ptrString(v) }
func (c *PipelineConfig) SetReportPath(v string) { c.ReportPath = ptrString(v) }
func (c *PipelineConfig) SetSplitSeed(v int64)   { c.SplitSeed = ptrInt64(v) }
