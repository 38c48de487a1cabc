// Package report runs the two plotting workflows end to end.
//
// Each workflow loads arrays, computes what it needs, renders one figure,
// optionally shows it, and writes it under the output directory. A figure
// is released on every exit path, and nothing is written when any step
// before the save fails.
package report
