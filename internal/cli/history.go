package cli

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoviz/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database  string
	Parameter string
	Limit     int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scatter summaries",
		Long: `List the scatter summaries recorded with --history-db, newest first.

Example:
  cosmoviz history --db runs.db
  cosmoviz history --db runs.db --param Sig --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default history_db from config)")
	cmd.Flags().StringVarP(&opts.Parameter, "param", "p", "", "only show runs for this parameter")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return reportError(formatter, "failed to load config", err)
	}
	dbPath := cfg.HistoryDB
	if opts.Database != "" {
		dbPath = opts.Database
	}
	if dbPath == "" {
		_ = formatter.Error(ErrCodeConfig, "no history database: pass --db or set history_db", nil)
		return NewExitError(ExitCommandError, "no history database configured")
	}
	if opts.Limit < 0 {
		_ = formatter.Error(ErrCodeConfig, fmt.Sprintf("limit must not be negative, got %d", opts.Limit), nil)
		return NewExitError(ExitCommandError, "invalid limit")
	}

	formatter.VerboseLog("Opening history database %s", dbPath)
	st, err := history.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing history database", "error", closeErr)
		}
	}()

	runs, err := st.List(cmd.Context(), opts.Parameter, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tCREATED\tPARAM\tN\tR2\tREL.ERR\tCHI2\t1σ\t2σ")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			run.Seq, run.ID, run.CreatedAt.Format(time.RFC3339), run.Parameter, run.N,
			run.R2, run.RelativeError, run.ChiSquared, run.Fraction1Sigma, run.Fraction2Sigma)
	}
	return tw.Flush()
}
