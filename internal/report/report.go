package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/roach88/cosmoviz/internal/analysis"
	"github.com/roach88/cosmoviz/internal/config"
	"github.com/roach88/cosmoviz/internal/dataset"
	"github.com/roach88/cosmoviz/internal/history"
	"github.com/roach88/cosmoviz/internal/render"
)

// Reporter turns the arrays of one training run into figures.
type Reporter struct {
	Config config.Config
	Params *analysis.ParameterTable

	// Displayer, when non-nil, is shown each figure before it is saved.
	Displayer render.Displayer

	// Summaries receives the console summary of each scatter report.
	// Nil discards it.
	Summaries io.Writer

	// History, when non-nil, records each successful scatter report.
	History *history.Store

	// IDs generates run ids. Nil uses UUIDv7.
	IDs history.IDGenerator

	// Now is the clock for run timestamps. Nil uses time.Now.
	Now func() time.Time
}

// New builds a Reporter from cfg, loading its parameter table.
func New(cfg config.Config) (*Reporter, error) {
	params, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	return &Reporter{
		Config:    cfg,
		Params:    params,
		Displayer: cfg.Displayer(),
	}, nil
}

// PlotLosses renders the training and validation loss curves for the
// first cfg.Epochs epochs to <output_dir>/losses.png.
func PlotLosses(ctx context.Context, cfg config.Config, train, valid []float64) error {
	r, err := New(cfg)
	if err != nil {
		return err
	}
	return r.PlotLosses(ctx, train, valid)
}

// PlotTrueVsPred renders the truth-vs-prediction scatter of parameter name
// to <output_dir>/true_vs_pred.png and returns its summary.
func PlotTrueVsPred(ctx context.Context, cfg config.Config, name string) (*analysis.Summary, error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return r.PlotTrueVsPred(ctx, name)
}

// PlotLosses renders the loss curves. See the package-level PlotLosses.
func (r *Reporter) PlotLosses(ctx context.Context, train, valid []float64) error {
	epochs := r.Config.Epochs
	slog.Debug("plotting losses", "epochs", epochs, "train", len(train), "valid", len(valid))

	fig, err := render.LossCurve(train, valid, epochs, r.Config.RenderOptions())
	if err != nil {
		return err
	}
	defer fig.Close()

	path := filepath.Join(r.Config.OutputDir, render.LossFileName)
	if err := r.publish(ctx, fig, path); err != nil {
		return err
	}
	slog.Info("loss curves written", "path", path, "epochs", epochs)
	return nil
}

// PlotLossesFromDir loads train_losses.npy and valid_losses.npy from the
// input directory and plots them.
func (r *Reporter) PlotLossesFromDir(ctx context.Context) error {
	losses, err := dataset.LoadLosses(r.Config.InputDir)
	if err != nil {
		return err
	}
	return r.PlotLosses(ctx, losses.Train, losses.Valid)
}

// PlotTrueVsPred renders the scatter report. See the package-level
// PlotTrueVsPred.
func (r *Reporter) PlotTrueVsPred(ctx context.Context, name string) (*analysis.Summary, error) {
	// Resolve the name first so an unknown parameter touches no file.
	param, err := r.Params.Lookup(name)
	if err != nil {
		return nil, err
	}
	opts, err := r.Config.AnalysisOptions()
	if err != nil {
		return nil, err
	}

	preds, err := dataset.LoadPredictions(r.Config.InputDir)
	if err != nil {
		return nil, err
	}
	preds, err = preds.DropSentinel()
	if err != nil {
		return nil, err
	}
	col, err := preds.Column(param.Column)
	if err != nil {
		return nil, err
	}

	trues, outputs, errs := param.Range.Denormalize(col.Trues, col.Outputs, col.Errors)

	summary, err := analysis.Summarize(param, trues, outputs, errs, opts)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", param.Name, err)
	}
	r.emit(summary)

	trues, outputs, errs = analysis.SortByTruth(trues, outputs, errs)

	fig, err := render.PredictionScatter(trues, outputs, errs, summary, r.Config.RenderOptions())
	if err != nil {
		return nil, err
	}
	defer fig.Close()

	path := filepath.Join(r.Config.OutputDir, render.ScatterFileName)
	if err := r.publish(ctx, fig, path); err != nil {
		return nil, err
	}
	slog.Info("scatter written", "path", path, "parameter", param.Name, "n", summary.N)

	if err := r.record(ctx, summary, path); err != nil {
		return summary, err
	}
	return summary, nil
}

// publish shows fig if a displayer is configured, then saves it to path.
func (r *Reporter) publish(ctx context.Context, fig *render.Figure, path string) error {
	if r.Displayer != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fig.Show(ctx, r.Displayer); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fig.Save(path)
}

func (r *Reporter) emit(s *analysis.Summary) {
	slog.Info("summary",
		"parameter", s.Parameter,
		"n", s.N,
		"r2", s.R2,
		"relative_error", s.RelativeError,
		"chi2", s.ChiSquared,
		"fraction_1sigma", s.Fraction1Sigma,
		"fraction_2sigma", s.Fraction2Sigma,
	)
	if s.ExcludedRelative > 0 || s.ExcludedChi2 > 0 {
		slog.Warn("instances excluded from summary",
			"parameter", s.Parameter,
			"relative_error", s.ExcludedRelative,
			"chi2", s.ExcludedChi2,
		)
	}
	if r.Summaries != nil {
		if err := WriteSummary(r.Summaries, s); err != nil {
			slog.Warn("failed to write summary", "error", err)
		}
	}
}

func (r *Reporter) record(ctx context.Context, s *analysis.Summary, imagePath string) error {
	if r.History == nil {
		return nil
	}
	ids := r.IDs
	if ids == nil {
		ids = history.UUIDv7Generator{}
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	run, err := r.History.Record(ctx, history.NewRun(ids.Generate(), s, imagePath, now()))
	if err != nil {
		return err
	}
	slog.Debug("run recorded", "id", run.ID, "seq", run.Seq)
	return nil
}
