package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoviz/internal/analysis"
	"github.com/roach88/cosmoviz/internal/history"
	"github.com/roach88/cosmoviz/internal/render"
	"github.com/roach88/cosmoviz/internal/report"
)

// ScatterOptions holds flags for the scatter command.
type ScatterOptions struct {
	*RootOptions
	plotFlags
	ZeroPolicy string
	Chi2Max    float64
	HistoryDB  string

	// IDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs history.IDGenerator
}

// ScatterResult is the JSON payload of the scatter command.
type ScatterResult struct {
	Path    string            `json:"path"`
	Summary *analysis.Summary `json:"summary"`
}

// NewScatterCommand creates the scatter command.
func NewScatterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScatterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scatter [parameter]",
		Short: "Plot predictions against truth for one parameter",
		Long: `Plot predicted against true values of one cosmological parameter,
with error bars, an identity line and a statistics box, and write
true_vs_pred.png to the output directory.

The first row of each array is a placeholder and is discarded. The
parameter defaults to the config value (Om). Run "cosmoviz params" to
list the available names.

Example:
  cosmoviz scatter Om
  cosmoviz scatter Sig --zero-policy exclude --history-db runs.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runScatter(opts, name, cmd)
		},
	}

	opts.plotFlags.bind(cmd)
	cmd.Flags().StringVar(&opts.ZeroPolicy, "zero-policy", string(analysis.ZeroPolicyFail), "zero denominator handling (fail|exclude)")
	cmd.Flags().Float64Var(&opts.Chi2Max, "chi2-max", 0, "exclude chi-squared terms at or above this value (0 disables)")
	cmd.Flags().StringVar(&opts.HistoryDB, "history-db", "", "record the summary in this SQLite database")

	return cmd
}

func runScatter(opts *ScatterOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return reportError(formatter, "failed to load config", err)
	}
	opts.plotFlags.apply(cmd, &cfg)
	if cmd.Flags().Changed("zero-policy") {
		cfg.ZeroPolicy = opts.ZeroPolicy
	}
	if cmd.Flags().Changed("chi2-max") {
		cfg.Chi2Max = opts.Chi2Max
	}
	if cmd.Flags().Changed("history-db") {
		cfg.HistoryDB = opts.HistoryDB
	}
	if name != "" {
		cfg.Parameter = name
	}
	if err := cfg.Validate(); err != nil {
		return reportError(formatter, "invalid options", &configError{err: err})
	}

	r, err := report.New(cfg)
	if err != nil {
		return reportError(formatter, "failed to prepare report", err)
	}
	r.IDs = opts.IDs
	if formatter.Format != "json" {
		r.Summaries = formatter.Writer
	}

	if cfg.HistoryDB != "" {
		st, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing history database", "error", closeErr)
			}
		}()
		r.History = st
	}

	formatter.VerboseLog("Reading predictions from %s", cfg.InputDir)
	summary, err := r.PlotTrueVsPred(cmd.Context(), cfg.Parameter)
	if err != nil {
		return reportError(formatter, "failed to plot "+cfg.Parameter, err)
	}

	result := ScatterResult{
		Path:    filepath.Join(cfg.OutputDir, render.ScatterFileName),
		Summary: summary,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d instances)\n", result.Path, summary.N)
	return nil
}
