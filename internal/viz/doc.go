// Package viz provides terminal visualization for constraint simulations.
//
// The live viewer is a Bubble Tea program that steps a world at its fixed
// timestep while drawing at an independent frame rate, pulling body poses
// through the graphics smoothing layer. Headless runs use [PlotSeries] and
// [Summary] to report results as terminal plots.
package viz
