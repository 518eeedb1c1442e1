package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders a labelled terminal plot for a recorded series.
// Constant or near-empty series degrade to a one-line summary instead of a
// flat graph.
func PlotSeries(name string, values []float64, width, height int) string {
	if len(values) < 2 {
		return fmt.Sprintf("%s: insufficient data", name)
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max-min < 1e-12 {
		return fmt.Sprintf("%s: constant at %.6g", name, values[0])
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(name))
}

// Downsample reduces a series to at most n points by striding, keeping the
// final sample so the plot ends where the run ended.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, 0, n)
	stride := float64(len(values)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out = append(out, values[int(float64(i)*stride)])
	}
	return out
}

// Summary formats the headline numbers of a finished run.
func Summary(steps int, elapsed, maxError, energy float64, events int) string {
	var s strings.Builder
	fmt.Fprintf(&s, "steps          %d\n", steps)
	fmt.Fprintf(&s, "simulated      %.3fs\n", elapsed)
	fmt.Fprintf(&s, "max error      %.6g\n", maxError)
	fmt.Fprintf(&s, "final energy   %.6g J\n", energy)
	fmt.Fprintf(&s, "impulse events %d\n", events)
	return s.String()
}
