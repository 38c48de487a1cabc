package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoviz/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	ParamsFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cosmoviz CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cosmoviz",
		Short: "cosmoviz - plots for cosmological parameter inference runs",
		Long: `Render diagnostic plots for a network trained to infer cosmological
parameters (Ωm, σ8) from simulated data.

The loss command plots training and validation loss curves. The scatter
command plots predictions against truth with error bars and prints
goodness-of-fit statistics.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file (default ./"+config.DefaultFileName+" if present)")
	cmd.PersistentFlags().StringVar(&opts.ParamsFile, "params", "", "CUE file extending the parameter table")

	cmd.AddCommand(NewLossesCommand(opts))
	cmd.AddCommand(NewScatterCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// setupLogging installs a text slog handler at Debug level when verbose.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// configError marks failures to load or validate configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// loadConfig resolves the configuration: the --config file, else
// ./cosmoviz.yaml when it exists, else the defaults. Global flags are
// applied on top.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()

	path := opts.ConfigPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFileName); err == nil {
			path = config.DefaultFileName
		} else if !errors.Is(err, fs.ErrNotExist) {
			return cfg, &configError{err: err}
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, &configError{err: err}
		}
		cfg = loaded
		slog.Debug("config loaded", "path", path)
	}

	if opts.ParamsFile != "" {
		cfg.ParamsFile = opts.ParamsFile
	}
	return cfg, nil
}
