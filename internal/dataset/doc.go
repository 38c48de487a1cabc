// Package dataset reads the arrays the training pipeline leaves on disk.
//
// Prediction arrays are 2-D float .npy files with one row per evaluation
// instance and one column per parameter. Row 0 is a placeholder written
// when the pipeline initializes its accumulators; DropSentinel removes it.
package dataset
