package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cosmoviz/internal/config"
)

// plotFlags are the flags shared by the plotting commands. A flag only
// overrides the config when it was set on the command line.
type plotFlags struct {
	InputDir  string
	OutputDir string
	Display   bool
	Viewer    string
}

func (p *plotFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.InputDir, "input", "i", config.DefaultInputDir, "directory holding the .npy arrays")
	cmd.Flags().StringVarP(&p.OutputDir, "output", "o", config.DefaultOutputDir, "directory receiving the PNG figures")
	cmd.Flags().BoolVar(&p.Display, "display", false, "show each figure in the image viewer before saving")
	cmd.Flags().StringVar(&p.Viewer, "viewer", "", "image viewer command (default: platform opener)")
}

func (p *plotFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("input") {
		cfg.InputDir = p.InputDir
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = p.OutputDir
	}
	if cmd.Flags().Changed("display") {
		cfg.Display = p.Display
	}
	if cmd.Flags().Changed("viewer") {
		cfg.Viewer = p.Viewer
	}
}
