package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/annie.dataset/internal/balance"
	"github.com/banshee-data/annie.dataset/internal/dataset"
)

func TestEmptyPipelineConfig_Defaults(t *testing.T) {
	cfg := EmptyPipelineConfig()

	assert.Equal(t, dataset.V2, cfg.GetVariant())
	assert.Equal(t, int64(42), cfg.GetSeed())
	assert.Equal(t, "data/dataset1.csv", cfg.GetInputPath())
	assert.Equal(t, "data/dataset_converted.csv", cfg.GetOutputPath())
	assert.Equal(t, balance.EmptyClassSkip, cfg.GetEmptyClass())
	assert.Equal(t, 0.0, cfg.GetTestRatio())
	assert.Equal(t, int64(42), cfg.GetSplitSeed())
	assert.Empty(t, cfg.GetDBPath())
	assert.Empty(t, cfg.GetPlotPath())
	assert.Empty(t, cfg.GetReportPath())
	assert.NoError(t, cfg.Validate())
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	assert.Equal(t, dataset.V2, cfg.GetVariant())
	assert.Equal(t, int64(42), cfg.GetSeed())
	assert.Equal(t, DefaultInputPath, cfg.GetInputPath())
	assert.Equal(t, DefaultOutputPath, cfg.GetOutputPath())
}

func TestLoadPipelineConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.json")

	testJSON := `{
  "variant": "v1",
  "seed": 7,
  "input_path": "logs/run1.csv",
  "output_path": "out/run1_labeled.csv",
  "empty_class": "fail",
  "test_ratio": 0.2,
  "db_path": "out/annie.db"
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadPipelineConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, dataset.V1, cfg.GetVariant())
	assert.Equal(t, int64(7), cfg.GetSeed())
	assert.Equal(t, "logs/run1.csv", cfg.GetInputPath())
	assert.Equal(t, "out/run1_labeled.csv", cfg.GetOutputPath())
	assert.Equal(t, balance.EmptyClassFail, cfg.GetEmptyClass())
	assert.Equal(t, 0.2, cfg.GetTestRatio())
	assert.Equal(t, "out/annie.db", cfg.GetDBPath())
	// omitted fields keep defaults
	assert.Equal(t, int64(42), cfg.GetSplitSeed())
}

func TestLoadPipelineConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPipelineConfig("/nonexistent/path/to/config.json")
		assert.Error(t, err)
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := LoadPipelineConfig(filepath.Join(tmpDir, "config.yaml"))
		assert.ErrorContains(t, err, ".json")
	})

	t.Run("invalid json", func(t *testing.T) {
		p := filepath.Join(tmpDir, "invalid.json")
		require.NoError(t, os.WriteFile(p, []byte(`{"seed": "x"`), 0644))
		_, err := LoadPipelineConfig(p)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		p := filepath.Join(tmpDir, "bad_variant.json")
		require.NoError(t, os.WriteFile(p, []byte(`{"variant": "v7"}`), 0644))
		_, err := LoadPipelineConfig(p)
		assert.ErrorContains(t, err, "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *PipelineConfig
		wantErr bool
	}{
		{"empty config is valid", &PipelineConfig{}, false},
		{"v1", &PipelineConfig{Variant: ptrString("v1")}, false},
		{"unknown variant", &PipelineConfig{Variant: ptrString("v3")}, true},
		{"unknown empty class mode", &PipelineConfig{EmptyClass: ptrString("drop")}, true},
		{"negative test ratio", &PipelineConfig{TestRatio: ptrFloat64(-0.1)}, true},
		{"test ratio of one", &PipelineConfig{TestRatio: ptrFloat64(1)}, true},
		{"test ratio ok", &PipelineConfig{TestRatio: ptrFloat64(0.2)}, false},
		{"empty input path", &PipelineConfig{InputPath: ptrString("")}, true},
		{"empty output path", &PipelineConfig{OutputPath: ptrString("")}, true},
		{"output overwrites input", &PipelineConfig{InputPath: ptrString("data/a.csv"), OutputPath: ptrString("data/./a.csv")}, true},
		{"output overwrites default input", &PipelineConfig{OutputPath: ptrString(DefaultInputPath)}, true},
		{"input is default output", &PipelineConfig{InputPath: ptrString("./" + DefaultOutputPath)}, true},
		{"train table overwrites input", &PipelineConfig{
			InputPath: ptrString("data/out_train.csv"), OutputPath: ptrString("data/out.csv"), TestRatio: ptrFloat64(0.2),
		}, true},
		{"test table overwrites input", &PipelineConfig{
			InputPath: ptrString("data/out_test.csv"), OutputPath: ptrString("data/out.csv"), TestRatio: ptrFloat64(0.2),
		}, true},
		{"split output may reuse input name", &PipelineConfig{
			InputPath: ptrString("data/out.csv"), OutputPath: ptrString("data/out.csv"), TestRatio: ptrFloat64(0.2),
		}, false},
		{"split paths without split", &PipelineConfig{
			InputPath: ptrString("data/out_test.csv"), OutputPath: ptrString("data/out.csv"),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetters(t *testing.T) {
	cfg := EmptyPipelineConfig()
	cfg.SetVariant("v1")
	cfg.SetSeed(99)
	cfg.SetInputPath("in.csv")
	cfg.SetOutputPath("out.csv")
	cfg.SetEmptyClass("fail")
	cfg.SetTestRatio(0.3)
	cfg.SetSplitSeed(5)
	cfg.SetDBPath("a.db")
	cfg.SetPlotPath("a.png")
	cfg.SetReportPath("a.html")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, dataset.V1, cfg.GetVariant())
	assert.Equal(t, int64(99), cfg.GetSeed())
	assert.Equal(t, "in.csv", cfg.GetInputPath())
	assert.Equal(t, "out.csv", cfg.GetOutputPath())
	assert.Equal(t, balance.EmptyClassFail, cfg.GetEmptyClass())
	assert.Equal(t, 0.3, cfg.GetTestRatio())
	assert.Equal(t, int64(5), cfg.GetSplitSeed())
	assert.Equal(t, "a.db", cfg.GetDBPath())
	assert.Equal(t, "a.png", cfg.GetPlotPath())
	assert.Equal(t, "a.html", cfg.GetReportPath())
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		in, train, test string
	}{
		{"data/out.csv", "data/out_train.csv", "data/out_test.csv"},
		{"out", "out_train", "out_test"},
		{"a.b/c.tsv", "a.b/c_train.tsv", "a.b/c_test.tsv"},
	}
	for _, tt := range tests {
		train, test := SplitPaths(tt.in)
		assert.Equal(t, tt.train, train)
		assert.Equal(t, tt.test, test)
	}
}

func TestOutputPaths(t *testing.T) {
	cfg := EmptyPipelineConfig()
	cfg.SetOutputPath("out/labeled.csv")
	assert.Equal(t, []string{"out/labeled.csv"}, cfg.OutputPaths())

	cfg.SetTestRatio(0.25)
	assert.Equal(t, []string{"out/labeled_train.csv", "out/labeled_test.csv"}, cfg.OutputPaths())
}
