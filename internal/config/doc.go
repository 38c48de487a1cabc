// Package config loads the cosmoviz YAML configuration.
//
// Defaults reproduce the pipeline's conventional layout: arrays are read
// from Outputs/ and figures are written to Plots/ at 400 DPI. A config
// file only needs the fields it changes; command-line flags override both.
package config
