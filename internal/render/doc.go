// Package render draws the cosmoviz charts with go-chart.
//
// Every chart is built into a Figure that the caller owns: Encode renders
// it to PNG in memory, Show passes that image to a Displayer, Save writes
// it atomically, and Close releases it. Callers defer Close right after
// construction so the figure is released on every exit path.
package render
