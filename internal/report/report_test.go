package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cosmoviz/internal/analysis"
	"github.com/roach88/cosmoviz/internal/config"
	"github.com/roach88/cosmoviz/internal/history"
	"github.com/roach88/cosmoviz/internal/render"
	"github.com/roach88/cosmoviz/internal/testutil"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// testConfig returns a config rooted in a fresh temp dir with small images.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "Outputs")
	cfg.OutputDir = filepath.Join(root, "Plots")
	cfg.DPI = 40
	return cfg
}

// writeFixture writes a sentinel row followed by four instances. Both
// columns carry the same normalized values.
func writeFixture(t *testing.T, dir string) {
	t.Helper()
	trues := []float64{9, 9, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1.0, 1.0}
	outputs := []float64{9, 9, 0.26, 0.26, 0.49, 0.49, 0.77, 0.77, 0.98, 0.98}
	errs := []float64{9, 9, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05, 0.05}
	testutil.WritePredictions(t, dir, trues, outputs, errs)
}

func newReporter(t *testing.T, cfg config.Config) *Reporter {
	t.Helper()
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func TestPlotLosses(t *testing.T) {
	cfg := testConfig(t)
	cfg.Epochs = 3
	before := render.OpenFigures()

	err := PlotLosses(context.Background(), cfg, []float64{1, 0.5, 0.3, 0.2}, []float64{1.1, 0.6, 0.4, 0.3})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, render.LossFileName))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Equal(t, before, render.OpenFigures())
}

func TestPlotLosses_ShortSeries(t *testing.T) {
	cfg := testConfig(t)
	cfg.Epochs = 5

	err := PlotLosses(context.Background(), cfg, []float64{1, 0.5}, []float64{1, 0.5})
	require.Error(t, err)
	assert.True(t, analysis.IsShapeMismatch(err))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, render.LossFileName))
}

func TestPlotLossesFromDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Epochs = 2
	testutil.WriteLosses(t, cfg.InputDir, []float64{0.9, 0.4}, []float64{1.0, 0.5})

	require.NoError(t, newReporter(t, cfg).PlotLossesFromDir(context.Background()))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, render.LossFileName))
}

func TestPlotLossesFromDir_MissingFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Epochs = 2

	err := newReporter(t, cfg).PlotLossesFromDir(context.Background())
	require.Error(t, err)
	assert.True(t, analysis.IsIO(err))
}

func TestPlotTrueVsPred(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg.InputDir)
	before := render.OpenFigures()

	var out bytes.Buffer
	r := newReporter(t, cfg)
	r.Summaries = &out

	s, err := r.PlotTrueVsPred(context.Background(), "Om")
	require.NoError(t, err)

	assert.Equal(t, "Om", s.Parameter)
	assert.Equal(t, 4, s.N)
	assert.Greater(t, s.R2, 0.95)
	assert.Equal(t, 1.0, s.Fraction1Sigma)
	assert.Equal(t, 1.0, s.Fraction2Sigma)
	assert.Contains(t, out.String(), "A fraction of succeses of 1.000 at 1 sigma, 1.000 at 2 sigmas")

	assert.FileExists(t, filepath.Join(cfg.OutputDir, render.ScatterFileName))
	assert.Equal(t, before, render.OpenFigures())
}

func TestPlotTrueVsPred_PackageLevel(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg.InputDir)

	s, err := PlotTrueVsPred(context.Background(), cfg, "Sig")
	require.NoError(t, err)
	assert.Equal(t, "Sig", s.Parameter)
	assert.Equal(t, "σ8", s.Symbol)
}

func TestPlotTrueVsPred_InvalidParameter(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg.InputDir)

	_, err := PlotTrueVsPred(context.Background(), cfg, "H0")
	require.Error(t, err)
	assert.True(t, analysis.IsInvalidParameter(err))
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestPlotTrueVsPred_ZeroTruth(t *testing.T) {
	cfg := testConfig(t)
	cfg.ParamsFile = filepath.Join(t.TempDir(), "params.cue")
	require.NoError(t, os.WriteFile(cfg.ParamsFile,
		[]byte(`parameter: z: {column: 2, min: 0, max: 1, symbol: "z"}`), 0644))

	// Sentinel row, then a zero truth in the first instance of every column.
	row := func(v float64) []float64 { return []float64{v, v, v} }
	var trues, outputs, errs []float64
	for _, v := range []float64{9, 0, 0.5, 0.75, 1.0} {
		trues = append(trues, row(v)...)
		outputs = append(outputs, row(v+0.01)...)
		errs = append(errs, row(0.05)...)
	}
	testutil.WritePredictionColumns(t, cfg.InputDir, 3, trues, outputs, errs)

	t.Run("fail", func(t *testing.T) {
		_, err := PlotTrueVsPred(context.Background(), cfg, "z")
		require.Error(t, err)
		assert.True(t, analysis.IsDivideByZero(err))
		assert.NoFileExists(t, filepath.Join(cfg.OutputDir, render.ScatterFileName))
	})

	t.Run("exclude", func(t *testing.T) {
		cfg := cfg
		cfg.ZeroPolicy = string(analysis.ZeroPolicyExclude)

		s, err := PlotTrueVsPred(context.Background(), cfg, "z")
		require.NoError(t, err)
		assert.Equal(t, 4, s.N)
		assert.Equal(t, 1, s.ExcludedRelative)
		assert.FileExists(t, filepath.Join(cfg.OutputDir, render.ScatterFileName))
	})
}

func TestPlotTrueVsPred_OnlySentinel(t *testing.T) {
	cfg := testConfig(t)
	testutil.WritePredictions(t, cfg.InputDir, []float64{0, 0}, []float64{0, 0}, []float64{0, 0})

	_, err := PlotTrueVsPred(context.Background(), cfg, "Om")
	require.Error(t, err)
	assert.True(t, analysis.IsShapeMismatch(err))
}

func TestPlotTrueVsPred_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg.InputDir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PlotTrueVsPred(ctx, cfg, "Om")
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, render.ScatterFileName))
}

func TestPlotTrueVsPred_DisplayBeforeSave(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg.InputDir)
	path := filepath.Join(cfg.OutputDir, render.ScatterFileName)

	var shown []string
	r := newReporter(t, cfg)
	r.Displayer = render.DisplayFunc(func(ctx context.Context, name string, png []byte) error {
		assert.NoFileExists(t, path)
		assert.NotEmpty(t, png)
		shown = append(shown, name)
		return errors.New("no display available")
	})

	_, err := r.PlotTrueVsPred(context.Background(), "Om")
	require.NoError(t, err)
	assert.Len(t, shown, 1)
	assert.FileExists(t, path)
}

func TestPlotTrueVsPred_RecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg.InputDir)

	st, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer st.Close()

	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	r := newReporter(t, cfg)
	r.History = st
	r.IDs = &history.FixedGenerator{IDs: []string{"run-a", "run-b"}}
	r.Now = testutil.NewDeterministicClock(start, time.Minute).Now

	_, err = r.PlotTrueVsPred(context.Background(), "Om")
	require.NoError(t, err)
	_, err = r.PlotTrueVsPred(context.Background(), "Unknown")
	require.Error(t, err)
	_, err = r.PlotTrueVsPred(context.Background(), "Sig")
	require.NoError(t, err)

	runs, err := st.List(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "Sig", runs[0].Parameter)
	assert.Equal(t, start.Add(time.Minute), runs[0].CreatedAt)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.Equal(t, 4, runs[1].N)
	assert.Equal(t, filepath.Join(cfg.OutputDir, render.ScatterFileName), runs[1].ImagePath)
}

func TestNew_MissingParamsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ParamsFile = filepath.Join(t.TempDir(), "extra.cue")

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, analysis.IsIO(err))
}
