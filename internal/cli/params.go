package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ParameterInfo is the JSON form of one parameter table entry.
type ParameterInfo struct {
	Name   string  `json:"name"`
	Column int     `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Symbol string  `json:"symbol"`
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List the cosmological parameters that can be plotted",
		Long: `List the parameter table: name, column in the prediction arrays,
physical range used for denormalization, and plot symbol.

The built-in table can be extended with --params <file.cue>.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(rootOpts, cmd)
		},
	}
}

func runParams(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig(opts)
	if err != nil {
		return reportError(formatter, "failed to load config", err)
	}
	table, err := cfg.Parameters()
	if err != nil {
		return reportError(formatter, "failed to load parameters", err)
	}

	params := table.Parameters()
	infos := make([]ParameterInfo, len(params))
	for i, p := range params {
		infos[i] = ParameterInfo{
			Name:   p.Name,
			Column: p.Column,
			Min:    p.Range.Min,
			Max:    p.Range.Max,
			Symbol: p.Symbol,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOLUMN\tRANGE\tSYMBOL")
	for _, p := range infos {
		fmt.Fprintf(tw, "%s\t%d\t[%g, %g]\t%s\n", p.Name, p.Column, p.Min, p.Max, p.Symbol)
	}
	return tw.Flush()
}
