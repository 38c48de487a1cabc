package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoviz/internal/render"
	"github.com/roach88/cosmoviz/internal/report"
)

// LossesOptions holds flags for the losses command.
type LossesOptions struct {
	*RootOptions
	plotFlags
	Epochs int
}

// LossesResult is the JSON payload of the losses command.
type LossesResult struct {
	Path   string `json:"path"`
	Epochs int    `json:"epochs"`
}

// NewLossesCommand creates the losses command.
func NewLossesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LossesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "losses",
		Short: "Plot training and validation loss curves",
		Long: `Plot the first N epochs of train_losses.npy and valid_losses.npy
from the input directory and write losses.png to the output directory.

Example:
  cosmoviz losses --epochs 300
  cosmoviz losses --epochs 50 --input run42/Outputs --display`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLosses(opts, cmd)
		},
	}

	opts.plotFlags.bind(cmd)
	cmd.Flags().IntVarP(&opts.Epochs, "epochs", "e", 0, "number of epochs to plot (default from config)")

	return cmd
}

func runLosses(opts *LossesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return reportError(formatter, "failed to load config", err)
	}
	opts.plotFlags.apply(cmd, &cfg)
	if cmd.Flags().Changed("epochs") {
		cfg.Epochs = opts.Epochs
	}

	r, err := report.New(cfg)
	if err != nil {
		return reportError(formatter, "failed to prepare report", err)
	}

	formatter.VerboseLog("Reading losses from %s", cfg.InputDir)
	if err := r.PlotLossesFromDir(cmd.Context()); err != nil {
		return reportError(formatter, "failed to plot losses", err)
	}

	result := LossesResult{
		Path:   filepath.Join(cfg.OutputDir, render.LossFileName),
		Epochs: cfg.Epochs,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%d epochs)\n", result.Path, result.Epochs)
	return nil
}
