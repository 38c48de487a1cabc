package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cosmoviz/internal/analysis"
	"github.com/roach88/cosmoviz/internal/render"
)

// Conventional locations used by the training pipeline.
const (
	DefaultInputDir  = "Outputs"
	DefaultOutputDir = "Plots"
	DefaultFileName  = "cosmoviz.yaml"
)

// Config is the complete configuration surface of cosmoviz.
type Config struct {
	// InputDir holds true_values.npy, predicted_values.npy,
	// errors_predicted.npy and the loss series.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives losses.png and true_vs_pred.png.
	OutputDir string `yaml:"output_dir"`

	// Epochs is the number of loss values plotted.
	Epochs int `yaml:"epochs"`

	// Display shows each figure in the system image viewer before saving.
	Display bool `yaml:"display"`

	// Viewer overrides the image viewer command.
	Viewer string `yaml:"viewer,omitempty"`

	// Parameter selects the scatter plot column ("Om", "Sig", ...).
	Parameter string `yaml:"parameter"`

	// ParamsFile is an optional CUE file extending the parameter table.
	ParamsFile string `yaml:"params_file,omitempty"`

	// ZeroPolicy is "fail" or "exclude".
	ZeroPolicy string `yaml:"zero_policy"`

	// Chi2Max drops chi-squared terms at or above this value. 0 disables.
	Chi2Max float64 `yaml:"chi2_max"`

	DPI          float64 `yaml:"dpi"`
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
	NoCrop       bool    `yaml:"no_crop"`

	// HistoryDB, when set, records each scatter summary in SQLite.
	HistoryDB string `yaml:"history_db,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		InputDir:     DefaultInputDir,
		OutputDir:    DefaultOutputDir,
		Parameter:    "Om",
		ZeroPolicy:   string(analysis.ZeroPolicyFail),
		DPI:          render.DefaultDPI,
		WidthInches:  render.DefaultWidthInches,
		HeightInches: render.DefaultHeightInches,
	}
}

// Load reads a YAML config file on top of Default. Unknown fields are
// rejected so typos surface as errors.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges. Epochs is checked by the loss command,
// since the scatter command does not need it.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if c.Epochs < 0 {
		return fmt.Errorf("epochs must not be negative, got %d", c.Epochs)
	}
	if _, err := analysis.ParseZeroPolicy(c.ZeroPolicy); err != nil {
		return err
	}
	if c.Chi2Max < 0 {
		return fmt.Errorf("chi2_max must not be negative, got %g", c.Chi2Max)
	}
	if c.DPI <= 0 || c.WidthInches <= 0 || c.HeightInches <= 0 {
		return fmt.Errorf("dpi, width_inches and height_inches must be positive")
	}
	return nil
}

// RenderOptions returns the figure options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		DPI:          c.DPI,
		WidthInches:  c.WidthInches,
		HeightInches: c.HeightInches,
		Crop:         !c.NoCrop,
	}
}

// AnalysisOptions returns the statistic options.
func (c Config) AnalysisOptions() (analysis.Options, error) {
	policy, err := analysis.ParseZeroPolicy(c.ZeroPolicy)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{ZeroPolicy: policy, Chi2Max: c.Chi2Max}, nil
}

// Parameters returns the parameter table, extended by ParamsFile if set.
func (c Config) Parameters() (*analysis.ParameterTable, error) {
	if c.ParamsFile == "" {
		return analysis.DefaultParameters(), nil
	}
	return analysis.LoadParameterFile(c.ParamsFile)
}

// Displayer returns the viewer used when Display is set, or nil.
func (c Config) Displayer() render.Displayer {
	if !c.Display {
		return nil
	}
	return render.SystemViewer{Command: c.Viewer}
}
